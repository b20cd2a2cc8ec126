package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	"github.com/yungbote/campusshare-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/apierr"
	"github.com/yungbote/campusshare-backend/internal/platform/ctxutil"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

const DefaultPasscodeTTL = 10 * time.Minute

// PasscodeResult reports whether the code left the building. DebugCode is
// only ever set in RELAXED mode when dispatch failed.
type PasscodeResult struct {
	Dispatched bool
	DebugCode  string
}

// Session is a verified identity plus its signed token.
type Session struct {
	User  *types.User
	Token string
}

// FederatedProfile is what an external identity provider asserted.
type FederatedProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type AuthService interface {
	Mode() Mode
	RequestPasscode(ctx context.Context, email string) (*PasscodeResult, error)
	VerifyPasscode(ctx context.Context, email, code string) (*Session, error)
	ResolveFederatedIdentity(ctx context.Context, profile FederatedProfile) (*types.User, error)
	FederatedLogin(ctx context.Context, profile FederatedProfile) (*Session, error)
	DevLogin(ctx context.Context, email, role string) (*Session, error)
	Authenticate(ctx context.Context, tokenString string) (*types.User, error)
	Me(ctx context.Context) (*types.User, error)
	SetRole(ctx context.Context, userID uuid.UUID, role string) (*types.User, error)
}

type AuthConfig struct {
	Mode        Mode
	PasscodeTTL time.Duration
	// Generate and Now default to GeneratePasscode and time.Now.
	Generate PasscodeGenerator
	Now      func() time.Time
}

type authService struct {
	log      *logger.Logger
	users    repos.UserRepo
	tokens   TokenService
	mailer   PasscodeMailer
	mode     Mode
	ttl      time.Duration
	generate PasscodeGenerator
	now      func() time.Time
}

// NewAuthService wires the passcode, federated and token flows. mailer may be
// nil, which every passcode request then treats as a dispatch failure.
func NewAuthService(
	log *logger.Logger,
	users repos.UserRepo,
	tokens TokenService,
	mailer PasscodeMailer,
	cfg AuthConfig,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cfg.Mode == "" {
		cfg.Mode = ModeStrict
	}
	if cfg.PasscodeTTL <= 0 {
		cfg.PasscodeTTL = DefaultPasscodeTTL
	}
	if cfg.Generate == nil {
		cfg.Generate = GeneratePasscode
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &authService{
		log:      serviceLog,
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		mode:     cfg.Mode,
		ttl:      cfg.PasscodeTTL,
		generate: cfg.Generate,
		now:      cfg.Now,
	}
}

func (as *authService) Mode() Mode { return as.mode }

func (as *authService) RequestPasscode(ctx context.Context, email string) (*PasscodeResult, error) {
	email = types.NormalizeEmail(email)
	if email == "" {
		return nil, validationf("Email is required")
	}
	code, err := as.generate()
	if err != nil {
		return nil, err
	}
	now := as.now().UTC()
	if err := as.users.UpsertPasscode(dbctx.Context{Ctx: ctx}, email, code, now.Add(as.ttl), now); err != nil {
		return nil, fmt.Errorf("store passcode: %w", err)
	}

	sendErr := errMailerNotConfigured
	if as.mailer != nil {
		sendErr = as.mailer.SendPasscode(ctx, email, code, as.ttl)
	}
	if sendErr != nil {
		if as.mode.Relaxed() {
			as.log.Warn("Passcode dispatch failed; returning code to caller", "email", email, "debug_passcode", code, "error", sendErr)
			return &PasscodeResult{Dispatched: false, DebugCode: code}, nil
		}
		as.log.Error("Passcode dispatch failed", "email", email, "error", sendErr)
		return nil, apierr.Wrap(ErrDispatch, "", sendErr)
	}
	if as.mode.Relaxed() {
		as.log.Info("Passcode dispatched", "email", email, "debug_passcode", code)
	}
	return &PasscodeResult{Dispatched: true}, nil
}

func (as *authService) VerifyPasscode(ctx context.Context, email, code string) (*Session, error) {
	email = types.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, validationf("Email and OTP are required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	u, err := as.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	if u.VerificationCode == nil || subtle.ConstantTimeCompare([]byte(*u.VerificationCode), []byte(code)) != 1 {
		return nil, apierr.Wrap(ErrInvalidCode, "", nil)
	}
	now := as.now().UTC()
	if u.VerificationExpiry == nil || now.After(*u.VerificationExpiry) {
		return nil, apierr.Wrap(ErrExpiredCode, "", nil)
	}
	ok, err := as.users.ConsumePasscode(dbc, u.ID, code, now)
	if err != nil {
		return nil, fmt.Errorf("consume passcode: %w", err)
	}
	if !ok {
		// Consumed or replaced between the read and the update.
		return nil, apierr.Wrap(ErrInvalidCode, "", nil)
	}
	u.IsVerified = true
	u.VerificationCode = nil
	u.VerificationExpiry = nil
	u.UpdatedAt = now
	return as.session(u)
}

func (as *authService) ResolveFederatedIdentity(ctx context.Context, profile FederatedProfile) (*types.User, error) {
	email := types.NormalizeEmail(profile.Email)
	subject := strings.TrimSpace(profile.Subject)
	name := strings.TrimSpace(profile.Name)
	if email == "" || subject == "" {
		return nil, validationf("Federated profile is missing email or subject")
	}
	if !profile.EmailVerified {
		return nil, unauthenticated("Federated email is not verified", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	now := as.now().UTC()

	existing, err := as.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if existing == nil {
		created, err := as.users.Create(dbc, []*types.User{{
			Email:       email,
			Name:        name,
			Role:        types.RoleStudent,
			AuthMethod:  types.AuthMethodFederated,
			IsVerified:  true,
			FederatedID: &subject,
			CreatedAt:   now,
			UpdatedAt:   now,
		}})
		if err == nil {
			as.log.Info("Federated identity created", "user_id", created[0].ID, "provider", profile.Provider)
			return created[0], nil
		}
		if !repoutil.IsUniqueViolation(err) {
			return nil, fmt.Errorf("create federated identity: %w", err)
		}
		// Lost a create race for this email; link the winner instead.
		existing, err = as.users.GetByEmail(dbc, email)
		if err != nil {
			return nil, fmt.Errorf("reload identity: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("identity for federated email vanished after conflict")
		}
	}

	if err := as.users.LinkFederated(dbc, existing.ID, subject, name, now); err != nil {
		return nil, fmt.Errorf("link federated identity: %w", err)
	}
	linked, err := as.users.GetByID(dbc, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("reload identity: %w", err)
	}
	if linked == nil {
		return nil, notFound("User not found")
	}
	as.log.Info("Federated identity linked", "user_id", linked.ID, "provider", profile.Provider)
	return linked, nil
}

func (as *authService) FederatedLogin(ctx context.Context, profile FederatedProfile) (*Session, error) {
	u, err := as.ResolveFederatedIdentity(ctx, profile)
	if err != nil {
		return nil, err
	}
	return as.session(u)
}

// DevLogin skips the passcode entirely. The requested role only applies to a
// newly created identity; an existing one keeps its role.
func (as *authService) DevLogin(ctx context.Context, email, role string) (*Session, error) {
	if !as.mode.Relaxed() {
		return nil, forbidden("Dummy login is only available in development mode")
	}
	email = types.NormalizeEmail(email)
	if email == "" {
		return nil, validationf("Email is required")
	}
	r := types.RoleStudent
	if strings.TrimSpace(role) != "" {
		parsed, ok := types.ParseRole(role)
		if !ok {
			return nil, validationf("Invalid role")
		}
		r = parsed
	}
	dbc := dbctx.Context{Ctx: ctx}
	now := as.now().UTC()

	u, err := as.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if u == nil {
		created, err := as.users.Create(dbc, []*types.User{{
			Email:      email,
			Name:       strings.SplitN(email, "@", 2)[0],
			Role:       r,
			AuthMethod: types.AuthMethodEmailOTP,
			IsVerified: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}})
		switch {
		case err == nil:
			u = created[0]
		case repoutil.IsUniqueViolation(err):
			if u, err = as.users.GetByEmail(dbc, email); err != nil {
				return nil, fmt.Errorf("reload identity: %w", err)
			}
			if u == nil {
				return nil, fmt.Errorf("identity vanished after create conflict")
			}
		default:
			return nil, fmt.Errorf("create identity: %w", err)
		}
	}
	if !u.IsVerified {
		if err := as.users.MarkVerified(dbc, u.ID, now); err != nil {
			return nil, fmt.Errorf("mark verified: %w", err)
		}
		u.IsVerified = true
	}
	as.log.Warn("Dev login", "user_id", u.ID, "role", u.Role)
	return as.session(u)
}

// Authenticate resolves a session token to a live identity.
func (as *authService) Authenticate(ctx context.Context, tokenString string) (*types.User, error) {
	claims, err := as.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, unauthenticated("Not authorized, token failed", err)
	}
	u, err := as.users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if u == nil {
		return nil, unauthenticated("User not found", nil)
	}
	return u, nil
}

func (as *authService) Me(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, unauthenticated("", nil)
	}
	u, err := as.users.GetByID(dbctx.Context{Ctx: ctx}, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	return u, nil
}

// SetRole is the only way a role changes after creation.
func (as *authService) SetRole(ctx context.Context, userID uuid.UUID, role string) (*types.User, error) {
	r, ok := types.ParseRole(role)
	if !ok {
		return nil, validationf("Invalid role")
	}
	dbc := dbctx.Context{Ctx: ctx}
	updated, err := as.users.UpdateRole(dbc, userID, r)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	if !updated {
		return nil, notFound("User not found")
	}
	u, err := as.users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("reload identity: %w", err)
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	as.log.Info("Role changed", "user_id", userID, "role", r)
	return u, nil
}

func (as *authService) session(u *types.User) (*Session, error) {
	token, err := as.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}
