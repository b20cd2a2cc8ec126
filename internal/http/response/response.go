package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/campusshare-backend/internal/platform/apierr"
	"github.com/yungbote/campusshare-backend/internal/platform/ctxutil"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, ErrorBody{Success: false, Message: message, Code: code})
}

// RespondOK writes payload with success:true merged in.
func RespondOK(c *gin.Context, payload gin.H) {
	respond(c, http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload gin.H) {
	respond(c, http.StatusCreated, payload)
}

func respond(c *gin.Context, status int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["success"] = true
	c.JSON(status, payload)
}

// RespondServiceError maps a service error onto its HTTP status. Anything
// that is not an *apierr.Error becomes a generic 500; only the log sees it.
func RespondServiceError(c *gin.Context, log *logger.Logger, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) && apiErr.Status > 0 {
		if apiErr.Status >= http.StatusInternalServerError && log != nil {
			log.Error("Request failed", requestFields(c, err)...)
		}
		RespondError(c, apiErr.Status, apiErr.Code, apiErr.PublicMessage())
		return
	}
	if log != nil {
		log.Error("Unhandled error", requestFields(c, err)...)
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", "Server error")
}

func requestFields(c *gin.Context, err error) []interface{} {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
	}
	return fields
}
