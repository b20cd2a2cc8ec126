package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/campusshare-backend/internal/http"
	httpH "github.com/yungbote/campusshare-backend/internal/http/handlers"
	httpMW "github.com/yungbote/campusshare-backend/internal/http/middleware"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/platform/redis"
)

const oauthStatePrefix = "campusshare:oauth:"

type Handlers struct {
	Health         *httpH.HealthHandler
	Auth           *httpH.AuthHandler
	OAuth          *httpH.OAuthHandler
	Profile        *httpH.ProfileHandler
	Admin          *httpH.AdminHandler
	Note           *httpH.NoteHandler
	QuestionPaper  *httpH.QuestionPaperHandler
	AuthMiddleware *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, cfg Config, db httpH.Pinger, svc Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")

	var stateStore httpH.StateStore
	if clients.Redis != nil {
		stateStore = redis.NewStateStore(clients.Redis, oauthStatePrefix)
	}
	// A nil *google.Provider must stay a nil interface.
	var provider httpH.FederatedProvider
	if clients.Google != nil {
		provider = clients.Google
	}

	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Auth:   httpH.NewAuthHandler(log, svc.Auth),
		OAuth: httpH.NewOAuthHandler(log, svc.Auth, provider,
			httpH.NewOAuthStateKeeper(stateStore, cfg.SecureCookies), cfg.FrontendURL),
		Profile:        httpH.NewProfileHandler(log, svc.Profile),
		Admin:          httpH.NewAdminHandler(log, svc.Auth),
		Note:           httpH.NewNoteHandler(log, svc.Notes),
		QuestionPaper:  httpH.NewQuestionPaperHandler(log, svc.QuestionPapers),
		AuthMiddleware: httpMW.NewAuthMiddleware(log, svc.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, h Handlers) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                  log,
		ServiceName:          serviceName,
		CORSOrigins:          cfg.CORSOrigins,
		AuthMiddleware:       h.AuthMiddleware,
		HealthHandler:        h.Health,
		AuthHandler:          h.Auth,
		OAuthHandler:         h.OAuth,
		ProfileHandler:       h.Profile,
		AdminHandler:         h.Admin,
		NoteHandler:          h.Note,
		QuestionPaperHandler: h.QuestionPaper,
	})
}
