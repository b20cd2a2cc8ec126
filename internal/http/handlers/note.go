package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/campusshare-backend/internal/http/middleware"
	"github.com/yungbote/campusshare-backend/internal/http/response"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

type NoteHandler struct {
	log         *logger.Logger
	noteService services.NoteService
}

func NewNoteHandler(log *logger.Logger, noteService services.NoteService) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), noteService: noteService}
}

func (nh *NoteHandler) Upload(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
		return
	}
	file, closer, ok := readUpload(c)
	if !ok {
		return
	}
	if closer != nil {
		defer closer.Close()
	}
	view, err := nh.noteService.Upload(c.Request.Context(), u.ID, services.NoteUpload{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Department:  c.PostForm("department"),
		Semester:    atoiOrZero(c.PostForm("semester")),
		Subject:     c.PostForm("subject"),
		File:        file,
	})
	if err != nil {
		response.RespondServiceError(c, nh.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Note uploaded successfully", "note": view})
}

func (nh *NoteHandler) List(c *gin.Context) {
	notes, page, err := nh.noteService.List(c.Request.Context(), viewerID(c), listFilter(c))
	if err != nil {
		response.RespondServiceError(c, nh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"notes": notes, "pagination": page})
}

func (nh *NoteHandler) Get(c *gin.Context) {
	id, ok := requireContentID(c, "Note")
	if !ok {
		return
	}
	view, err := nh.noteService.Get(c.Request.Context(), viewerID(c), id)
	if err != nil {
		response.RespondServiceError(c, nh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"note": view})
}

func (nh *NoteHandler) Like(c *gin.Context) {
	id, ok := requireContentID(c, "Note")
	if !ok {
		return
	}
	res, err := nh.noteService.ToggleLike(c.Request.Context(), id, viewerID(c))
	if err != nil {
		response.RespondServiceError(c, nh.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":   likeMessage("Note", res.Liked),
		"likeCount": res.LikeCount,
		"isLiked":   res.Liked,
	})
}

func (nh *NoteHandler) Report(c *gin.Context) {
	id, ok := requireContentID(c, "Note")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if err := nh.noteService.Report(c.Request.Context(), id, viewerID(c), req.Reason); err != nil {
		response.RespondServiceError(c, nh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Note reported successfully"})
}

func (nh *NoteHandler) Download(c *gin.Context) {
	id, ok := requireContentID(c, "Note")
	if !ok {
		return
	}
	count, err := nh.noteService.RecordDownload(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, nh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"downloadCount": count})
}

func (nh *NoteHandler) Verify(c *gin.Context) {
	id, ok := requireContentID(c, "Note")
	if !ok {
		return
	}
	view, err := nh.noteService.Verify(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		response.RespondServiceError(c, nh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Note verified successfully", "note": view})
}
