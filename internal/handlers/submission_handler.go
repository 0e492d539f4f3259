package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/services"
	"github.com/UDLA-2025/assignment-service/internal/utils"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	aiFeedbackService services.AIFeedbackService
	exportService     services.ExportService
}

func NewSubmissionHandler(submissionService services.SubmissionService, aiFeedbackService services.AIFeedbackService, exportService services.ExportService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		aiFeedbackService: aiFeedbackService,
		exportService:     exportService,
	}
}

// GetTeacherSubmissions lists every submission in the caller's courses.
func (h *SubmissionHandler) GetTeacherSubmissions(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := repositories.SubmissionFilters{}
	if raw := c.Query("status"); raw != "" {
		status := models.SubmissionStatus(raw)
		filters.Status = &status
	}
	if v := queryUint(c, "assignment_id"); v != nil {
		filters.AssignmentID = v
	}

	submissions, err := h.submissionService.ListForTeacher(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

func (h *SubmissionHandler) GetSubmissionDetail(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	detail, err := h.submissionService.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Grade sets the final score on a submission.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req validator.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Grading submission", "submission_id", id)

	if err := h.submissionService.Grade(c.Request.Context(), id, userID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "submission graded"})
}

// GenerateAIFeedback runs the AI adapter over a submission. Adapter failures
// surface as 500 with the placeholder feedback in the body.
func (h *SubmissionHandler) GenerateAIFeedback(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Generating AI feedback", "submission_id", id)

	result, err := h.aiFeedbackService.AnalyzeSubmission(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if !result.AnalysisComplete {
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStudentGrades lists the calling student's graded submissions plus
// aggregate statistics.
func (h *SubmissionHandler) GetStudentGrades(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	grades, err := h.submissionService.ListGradesForStudent(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

// GetStudentSubmissionGrade shows one of the caller's submissions with its
// grade and feedback.
func (h *SubmissionHandler) GetStudentSubmissionGrade(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	detail, err := h.submissionService.GetGradeForStudent(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ExportSubmissions streams the caller's submissions as an xlsx workbook.
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting submissions")

	data, filename, err := h.exportService.ExportTeacherSubmissions(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
