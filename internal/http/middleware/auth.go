package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/http/response"
	"github.com/yungbote/campusshare-backend/internal/platform/ctxutil"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

const currentUserKey = "current_user"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// Authorize requires a valid bearer token. With roles given, the caller's
// role must be one of them.
func (am *AuthMiddleware) Authorize(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
			c.Abort()
			return
		}
		u, err := am.authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			response.RespondServiceError(c, am.log, err)
			c.Abort()
			return
		}
		if len(roles) > 0 && !hasRole(u.Role, roles) {
			response.RespondError(c, http.StatusForbidden, "forbidden",
				"User role "+string(u.Role)+" is not authorized to access this route")
			c.Abort()
			return
		}
		attach(c, u)
		c.Next()
	}
}

// Optional attaches the caller when a valid token is present and otherwise
// lets the request through anonymously.
func (am *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			u, err := am.authService.Authenticate(c.Request.Context(), tokenString)
			if err == nil {
				attach(c, u)
			} else {
				am.log.Debug("Ignoring invalid optional token", "error", err)
			}
		}
		c.Next()
	}
}

// CurrentUser is nil when the request is anonymous.
func CurrentUser(c *gin.Context) *types.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*types.User)
	return u
}

func attach(c *gin.Context, u *types.User) {
	c.Set(currentUserKey, u)
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
		UserID: u.ID,
		Role:   string(u.Role),
	})
	c.Request = c.Request.WithContext(ctx)
}

func hasRole(role types.Role, allowed []types.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		if tok := strings.TrimSpace(authHeader[7:]); tok != "" {
			return tok, true
		}
	}
	return "", false
}
