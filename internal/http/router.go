package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	httpH "github.com/yungbote/campusshare-backend/internal/http/handlers"
	httpMW "github.com/yungbote/campusshare-backend/internal/http/middleware"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler        *httpH.HealthHandler
	AuthHandler          *httpH.AuthHandler
	OAuthHandler         *httpH.OAuthHandler
	ProfileHandler       *httpH.ProfileHandler
	AdminHandler         *httpH.AdminHandler
	NoteHandler          *httpH.NoteHandler
	QuestionPaperHandler *httpH.QuestionPaperHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	am := cfg.AuthMiddleware
	if am == nil {
		return r
	}
	anyRole := am.Authorize()
	optional := am.Optional()

	// Auth
	auth := api.Group("/auth")
	if cfg.AuthHandler != nil {
		auth.POST("/send-otp", cfg.AuthHandler.SendOTP)
		auth.POST("/verify-otp", cfg.AuthHandler.VerifyOTP)
		auth.POST("/dummy-login", cfg.AuthHandler.DummyLogin)
		auth.GET("/me", anyRole, cfg.AuthHandler.Me)
	}
	if cfg.OAuthHandler != nil {
		auth.GET("/google", cfg.OAuthHandler.GoogleStart)
		auth.GET("/google/callback", cfg.OAuthHandler.GoogleCallback)
		auth.GET("/google/status", cfg.OAuthHandler.GoogleStatus)
	}

	// Profile
	if cfg.ProfileHandler != nil {
		profile := api.Group("/profile", anyRole)
		profile.POST("/complete/student", cfg.ProfileHandler.CompleteStudent)
		profile.POST("/complete/professor", cfg.ProfileHandler.CompleteProfessor)
		profile.GET("", cfg.ProfileHandler.Get)
		profile.PUT("", cfg.ProfileHandler.Update)
	}

	// Admin
	if cfg.AdminHandler != nil {
		admin := api.Group("/admin", am.Authorize(types.RoleAdmin))
		admin.PATCH("/users/:id/role", cfg.AdminHandler.SetRole)
	}

	// Notes
	if cfg.NoteHandler != nil {
		notes := api.Group("/notes")
		notes.POST("/upload", anyRole, cfg.NoteHandler.Upload)
		notes.GET("", optional, cfg.NoteHandler.List)
		notes.GET("/:id", optional, cfg.NoteHandler.Get)
		notes.POST("/:id/like", anyRole, cfg.NoteHandler.Like)
		notes.POST("/:id/report", anyRole, cfg.NoteHandler.Report)
		notes.POST("/:id/download", cfg.NoteHandler.Download)
		notes.POST("/:id/verify", am.Authorize(types.RoleProfessor, types.RoleAdmin), cfg.NoteHandler.Verify)
	}

	// Question papers
	if cfg.QuestionPaperHandler != nil {
		papers := api.Group("/question-papers")
		papers.POST("/upload", anyRole, cfg.QuestionPaperHandler.Upload)
		papers.GET("", optional, cfg.QuestionPaperHandler.List)
		papers.GET("/:id", optional, cfg.QuestionPaperHandler.Get)
		papers.POST("/:id/like", anyRole, cfg.QuestionPaperHandler.Like)
		papers.POST("/:id/report", anyRole, cfg.QuestionPaperHandler.Report)
		papers.POST("/:id/download", cfg.QuestionPaperHandler.Download)
	}

	return r
}
