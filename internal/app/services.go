package app

import (
	"fmt"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

type Services struct {
	Tokens         services.TokenService
	Auth           services.AuthService
	Profile        services.ProfileService
	Notes          services.NoteService
	QuestionPapers services.QuestionPaperService
}

func wireServices(log *logger.Logger, cfg Config, r repos.Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	tokens, err := services.NewTokenService(services.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL})
	if err != nil {
		return Services{}, fmt.Errorf("init token service: %w", err)
	}

	var mailer services.PasscodeMailer
	if clients.SendGrid != nil {
		mailer = services.NewPasscodeMailer(log, clients.SendGrid)
	}

	return Services{
		Tokens: tokens,
		Auth: services.NewAuthService(log, r.Users, tokens, mailer, services.AuthConfig{
			Mode:        cfg.Mode,
			PasscodeTTL: cfg.PasscodeTTL,
		}),
		Profile:        services.NewProfileService(log, r.Users),
		Notes:          services.NewNoteService(log, r.Notes, r.Users, r.Engagement, clients.Bucket),
		QuestionPapers: services.NewQuestionPaperService(log, r.QuestionPapers, r.Users, r.Engagement, clients.Bucket),
	}, nil
}
