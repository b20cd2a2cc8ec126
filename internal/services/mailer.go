package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/platform/sendgrid"
)

var errMailerNotConfigured = errors.New("passcode mailer not configured")

// PasscodeMailer delivers a login code to an email address.
type PasscodeMailer interface {
	SendPasscode(ctx context.Context, email, code string, ttl time.Duration) error
}

type sendgridPasscodeMailer struct {
	log    *logger.Logger
	client sendgrid.Client
}

func NewPasscodeMailer(log *logger.Logger, client sendgrid.Client) PasscodeMailer {
	return &sendgridPasscodeMailer{
		log:    log.With("service", "PasscodeMailer"),
		client: client,
	}
}

func (m *sendgridPasscodeMailer) SendPasscode(ctx context.Context, email, code string, ttl time.Duration) error {
	if m.client == nil {
		return errMailerNotConfigured
	}
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	res, err := m.client.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: email}},
		Subject:    "Your CampusShare login code",
		Text:       passcodeText(code, minutes),
		HTML:       passcodeHTML(code, minutes),
		Categories: []string{"auth", "otp"},
	})
	if err != nil {
		return fmt.Errorf("send passcode email: %w", err)
	}
	m.log.Debug("Passcode email accepted", "status", res.StatusCode, "message_id", res.MessageID)
	return nil
}

func passcodeText(code string, minutes int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your CampusShare login code is %s.\n\n", code)
	fmt.Fprintf(&b, "It is valid for %d minutes.\n", minutes)
	b.WriteString("If you didn't request this code, you can ignore this email.\n")
	return b.String()
}

func passcodeHTML(code string, minutes int) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Login code</h2>
  <p>Your login code is:</p>
  <div style="background-color: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0;">
    <h1 style="color: #007bff; font-size: 32px; margin: 0;">%s</h1>
  </div>
  <p>This code is valid for %d minutes.</p>
  <p style="color: #666; font-size: 12px;">If you didn't request this code, please ignore this email.</p>
</div>`, code, minutes)
}
