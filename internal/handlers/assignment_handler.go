package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/services"
	"github.com/UDLA-2025/assignment-service/internal/utils"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
	submissionService services.SubmissionService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, submissionService services.SubmissionService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
		submissionService: submissionService,
	}
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req validator.AssignmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating assignment", "title", req.Title)

	assignment, err := h.assignmentService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	filters := parseAssignmentFilters(c)

	assignments, total, err := h.assignmentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": assignments,
		"total":       total,
	})
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.assignmentService.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// GetPendingAssignments lists assignments the calling student has not
// submitted yet, due-date ascending.
func (h *AssignmentHandler) GetPendingAssignments(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var typeFilter *models.AssignmentType
	if raw := c.Query("type"); raw != "" {
		t := models.AssignmentType(raw)
		typeFilter = &t
	}

	pending, err := h.assignmentService.ListPendingForStudent(c.Request.Context(), userID, typeFilter)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pending)
}

// Submit records a submission for the calling student.
func (h *AssignmentHandler) Submit(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req validator.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Receiving submission",
		"assignment_id", id,
		"answers", len(req.Answers))

	resp, err := h.submissionService.Submit(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func parseAssignmentFilters(c *gin.Context) repositories.AssignmentFilters {
	filters := repositories.AssignmentFilters{}

	if v := queryUint(c, "course_id"); v != nil {
		filters.CourseID = v
	}
	if v := queryUint(c, "subject_id"); v != nil {
		filters.SubjectID = v
	}
	if v := queryUint(c, "course_subject_id"); v != nil {
		filters.CourseSubjectID = v
	}
	if raw := c.Query("type"); raw != "" {
		t := models.AssignmentType(raw)
		filters.Type = &t
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			filters.Offset = offset
		}
	}

	return filters
}

func queryUint(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(v)
	return &id
}
