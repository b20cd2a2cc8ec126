package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/http/response"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// sessionUser is the identity shape returned next to a fresh token.
func sessionUser(u *types.User) gin.H {
	return gin.H{
		"id":               u.ID,
		"email":            u.Email,
		"name":             u.Name,
		"role":             u.Role,
		"profileCompleted": u.ProfileCompleted,
	}
}

func (ah *AuthHandler) SendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", "Email is required")
		return
	}
	res, err := ah.authService.RequestPasscode(c.Request.Context(), req.Email)
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	payload := gin.H{"message": "OTP sent to your email"}
	if res.DebugCode != "" && ah.authService.Mode().Relaxed() {
		payload["message"] = "Email delivery failed; OTP returned for development use"
		payload["debug"] = gin.H{
			"otp":  res.DebugCode,
			"note": "Shown only when APP_MODE=relaxed.",
		}
	}
	response.RespondOK(c, payload)
}

func (ah *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
		Code  string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", "Email and OTP are required")
		return
	}
	code := strings.TrimSpace(req.OTP)
	if code == "" {
		code = strings.TrimSpace(req.Code)
	}
	sess, err := ah.authService.VerifyPasscode(c.Request.Context(), req.Email, code)
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message": "OTP verified successfully",
		"token":   sess.Token,
		"user":    sessionUser(sess.User),
	})
}

func (ah *AuthHandler) DummyLogin(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	sess, err := ah.authService.DevLogin(c.Request.Context(), req.Email, req.Role)
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message": "Dummy login successful (Development Mode)",
		"token":   sess.Token,
		"user":    sessionUser(sess.User),
	})
}

func (ah *AuthHandler) Me(c *gin.Context) {
	u, err := ah.authService.Me(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

type AdminHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAdminHandler(log *logger.Logger, authService services.AuthService) *AdminHandler {
	return &AdminHandler{log: log.With("handler", "AdminHandler"), authService: authService}
}

func (ah *AdminHandler) SetRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid user id")
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", "Role is required")
		return
	}
	u, err := ah.authService.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		response.RespondServiceError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Role updated successfully", "user": u})
}
