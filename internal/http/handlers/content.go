package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/campusshare-backend/internal/http/middleware"
	"github.com/yungbote/campusshare-backend/internal/http/response"
	"github.com/yungbote/campusshare-backend/internal/services"
)

// multipartSlack covers form fields and boundaries around the file part.
const multipartSlack = 1 << 20

// readUpload opens the "file" part. ok is false once an error response has
// been written. A nil upload with ok set means the part was absent; the
// service reports that as a missing file.
func readUpload(c *gin.Context) (*services.UploadFile, multipart.File, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadBytes+multipartSlack)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusBadRequest, "validation_error", "File exceeds the 100MB limit")
			return nil, nil, false
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, true
		}
		response.RespondError(c, http.StatusBadRequest, "validation_error", "File is required")
		return nil, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "File could not be read")
		return nil, nil, false
	}
	return &services.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, true
}

func listFilter(c *gin.Context) services.ContentFilter {
	return services.ContentFilter{
		Department: c.Query("department"),
		Semester:   atoiOrZero(c.Query("semester")),
		Subject:    c.Query("subject"),
		Year:       atoiOrZero(c.Query("year")),
		ExamType:   c.Query("examType"),
		Page:       atoiOrZero(c.Query("page")),
		Limit:      atoiOrZero(c.Query("limit")),
		SortBy:     c.Query("sortBy"),
		Order:      c.Query("order"),
	}
}

// viewerID is uuid.Nil for anonymous callers.
func viewerID(c *gin.Context) uuid.UUID {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return uuid.Nil
}

func requireContentID(c *gin.Context, label string) (uuid.UUID, bool) {
	id, ok := pathID(c)
	if !ok {
		response.RespondError(c, http.StatusNotFound, "not_found", label+" not found")
		return uuid.Nil, false
	}
	return id, true
}

func likeMessage(label string, liked bool) string {
	if liked {
		return label + " liked"
	}
	return label + " unliked"
}
