package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/campusshare-backend/internal/http/response"
	"github.com/yungbote/campusshare-backend/internal/platform/google"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

// FederatedProvider is the authorization-code half of an OIDC provider.
type FederatedProvider interface {
	AuthCodeURL(state, verifier string) string
	ExchangeCode(ctx context.Context, code, verifier string) (*google.Identity, error)
}

type OAuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	provider    FederatedProvider
	states      *OAuthStateKeeper
	frontendURL string
}

// NewOAuthHandler accepts a nil provider; every route then reports the
// integration as not configured.
func NewOAuthHandler(
	log *logger.Logger,
	authService services.AuthService,
	provider FederatedProvider,
	states *OAuthStateKeeper,
	frontendURL string,
) *OAuthHandler {
	if states == nil {
		states = NewOAuthStateKeeper(nil, false)
	}
	return &OAuthHandler{
		log:         log.With("handler", "OAuthHandler"),
		authService: authService,
		provider:    provider,
		states:      states,
		frontendURL: strings.TrimRight(strings.TrimSpace(frontendURL), "/"),
	}
}

func (oh *OAuthHandler) enabled() bool { return oh.provider != nil }

func (oh *OAuthHandler) GoogleStatus(c *gin.Context) {
	if !oh.enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"enabled": false,
			"message": "Google OAuth is not configured",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"enabled": true,
		"message": "Google OAuth is configured",
	})
}

func (oh *OAuthHandler) GoogleStart(c *gin.Context) {
	if !oh.enabled() {
		response.RespondError(c, http.StatusServiceUnavailable, "service_unavailable", "Google OAuth is not configured")
		return
	}
	verifier := google.GenerateVerifier()
	state, err := oh.states.Begin(c, verifier)
	if err != nil {
		oh.log.Error("Failed to start oauth flow", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", "Server error")
		return
	}
	c.Redirect(http.StatusFound, oh.provider.AuthCodeURL(state, verifier))
}

func (oh *OAuthHandler) GoogleCallback(c *gin.Context) {
	if !oh.enabled() {
		oh.redirectError(c, "auth_failed")
		return
	}
	if e := c.Query("error"); e != "" {
		oh.log.Warn("Provider returned an error", "provider_error", e)
		oh.redirectError(c, "auth_failed")
		return
	}
	verifier, err := oh.states.Finish(c, c.Query("state"))
	if err != nil {
		oh.log.Warn("OAuth state rejected", "error", err)
		oh.redirectError(c, "auth_failed")
		return
	}
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		oh.redirectError(c, "auth_failed")
		return
	}

	ctx := c.Request.Context()
	ident, err := oh.provider.ExchangeCode(ctx, code, verifier)
	if err != nil {
		oh.log.Warn("OAuth code exchange failed", "error", err)
		oh.redirectError(c, "auth_failed")
		return
	}
	sess, err := oh.authService.FederatedLogin(ctx, services.FederatedProfile{
		Provider:      ident.Provider,
		Subject:       ident.Subject,
		Email:         ident.Email,
		EmailVerified: ident.EmailVerified,
		Name:          ident.Name,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) || errors.Is(err, services.ErrValidation) {
			oh.log.Warn("Federated login rejected", "error", err)
			oh.redirectError(c, "auth_failed")
			return
		}
		oh.log.Error("Federated login failed", "error", err)
		oh.redirectError(c, "server_error")
		return
	}

	q := url.Values{}
	q.Set("token", sess.Token)
	q.Set("profileCompleted", strconv.FormatBool(sess.User.ProfileCompleted))
	c.Redirect(http.StatusFound, oh.frontendURL+"/auth/callback?"+q.Encode())
}

func (oh *OAuthHandler) redirectError(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, oh.frontendURL+"/login?error="+url.QueryEscape(reason))
}
