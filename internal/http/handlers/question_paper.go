package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/campusshare-backend/internal/http/middleware"
	"github.com/yungbote/campusshare-backend/internal/http/response"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

type QuestionPaperHandler struct {
	log          *logger.Logger
	paperService services.QuestionPaperService
}

func NewQuestionPaperHandler(log *logger.Logger, paperService services.QuestionPaperService) *QuestionPaperHandler {
	return &QuestionPaperHandler{log: log.With("handler", "QuestionPaperHandler"), paperService: paperService}
}

func (qh *QuestionPaperHandler) Upload(c *gin.Context) {
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
	view, err := qh.paperService.Upload(c.Request.Context(), u.ID, services.QuestionPaperUpload{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Department:  c.PostForm("department"),
		Semester:    atoiOrZero(c.PostForm("semester")),
		Subject:     c.PostForm("subject"),
		Year:        atoiOrZero(c.PostForm("year")),
		ExamType:    c.PostForm("examType"),
		File:        file,
	})
	if err != nil {
		response.RespondServiceError(c, qh.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "Question paper uploaded successfully", "questionPaper": view})
}

func (qh *QuestionPaperHandler) List(c *gin.Context) {
	papers, page, err := qh.paperService.List(c.Request.Context(), viewerID(c), listFilter(c))
	if err != nil {
		response.RespondServiceError(c, qh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"questionPapers": papers, "pagination": page})
}

func (qh *QuestionPaperHandler) Get(c *gin.Context) {
	id, ok := requireContentID(c, "Question paper")
	if !ok {
		return
	}
	view, err := qh.paperService.Get(c.Request.Context(), viewerID(c), id)
	if err != nil {
		response.RespondServiceError(c, qh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"questionPaper": view})
}

func (qh *QuestionPaperHandler) Like(c *gin.Context) {
	id, ok := requireContentID(c, "Question paper")
	if !ok {
		return
	}
	res, err := qh.paperService.ToggleLike(c.Request.Context(), id, viewerID(c))
	if err != nil {
		response.RespondServiceError(c, qh.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":   likeMessage("Question paper", res.Liked),
		"likeCount": res.LikeCount,
		"isLiked":   res.Liked,
	})
}

func (qh *QuestionPaperHandler) Report(c *gin.Context) {
	id, ok := requireContentID(c, "Question paper")
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
	if err := qh.paperService.Report(c.Request.Context(), id, viewerID(c), req.Reason); err != nil {
		response.RespondServiceError(c, qh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Question paper reported successfully"})
}

func (qh *QuestionPaperHandler) Download(c *gin.Context) {
	id, ok := requireContentID(c, "Question paper")
	if !ok {
		return
	}
	count, err := qh.paperService.RecordDownload(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, qh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"downloadCount": count})
}
