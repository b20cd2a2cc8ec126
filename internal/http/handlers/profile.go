package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/campusshare-backend/internal/http/middleware"
	"github.com/yungbote/campusshare-backend/internal/http/response"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/services"
)

type ProfileHandler struct {
	log            *logger.Logger
	profileService services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{log: log.With("handler", "ProfileHandler"), profileService: profileService}
}

func (ph *ProfileHandler) CompleteStudent(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
		return
	}
	var req struct {
		Name       string  `json:"name"`
		RollNumber string  `json:"rollNumber"`
		Department string  `json:"department"`
		Year       flexInt `json:"year"`
		Semester   flexInt `json:"semester"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	updated, err := ph.profileService.CompleteStudentProfile(c.Request.Context(), u.ID, services.StudentProfileInput{
		Name:       req.Name,
		RollNumber: req.RollNumber,
		Department: req.Department,
		Year:       int(req.Year),
		Semester:   int(req.Semester),
	})
	if err != nil {
		response.RespondServiceError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Student profile completed successfully", "user": updated})
}

func (ph *ProfileHandler) CompleteProfessor(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
		return
	}
	var req struct {
		Name        string   `json:"name"`
		CollegeName string   `json:"collegeName"`
		Subjects    []string `json:"subjects"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	updated, err := ph.profileService.CompleteProfessorProfile(c.Request.Context(), u.ID, services.ProfessorProfileInput{
		Name:        req.Name,
		CollegeName: req.CollegeName,
		Subjects:    req.Subjects,
	})
	if err != nil {
		response.RespondServiceError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Professor profile completed successfully", "user": updated})
}

func (ph *ProfileHandler) Get(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
		return
	}
	profile, err := ph.profileService.GetProfile(c.Request.Context(), u.ID)
	if err != nil {
		response.RespondServiceError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"user": profile})
}

// Update ignores any field outside the editable set, so role or email in
// the body never reaches the service.
func (ph *ProfileHandler) Update(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Not authorized, no token")
		return
	}
	var req struct {
		Name        *string   `json:"name"`
		RollNumber  *string   `json:"rollNumber"`
		Department  *string   `json:"department"`
		Year        *flexInt  `json:"year"`
		Semester    *flexInt  `json:"semester"`
		CollegeName *string   `json:"collegeName"`
		Subjects    *[]string `json:"subjects"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	updated, err := ph.profileService.UpdateProfile(c.Request.Context(), u.ID, services.ProfilePatch{
		Name:        req.Name,
		RollNumber:  req.RollNumber,
		Department:  req.Department,
		Year:        req.Year.ptr(),
		Semester:    req.Semester.ptr(),
		CollegeName: req.CollegeName,
		Subjects:    req.Subjects,
	})
	if err != nil {
		response.RespondServiceError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Profile updated successfully", "user": updated})
}
