package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UDLA-2025/assignment-service/internal/services"
	"github.com/UDLA-2025/assignment-service/internal/utils"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req validator.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating course", "name", req.Name)

	course, err := h.courseService.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetTeacherCourses lists the courses owned by a specific teacher.
func (h *CourseHandler) GetTeacherCourses(c *gin.Context) {
	teacherID := h.parseIDParam(c, "teacher_id")
	if teacherID == 0 {
		return
	}

	courses, err := h.courseService.ListTeacherCourses(c.Request.Context(), teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetStudentCourses lists the courses visible to the calling student.
func (h *CourseHandler) GetStudentCourses(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListStudentCourses(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) CreateSubject(c *gin.Context) {
	var req validator.SubjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	subject, err := h.courseService.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

func (h *CourseHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.courseService.ListSubjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// AddCourseSubject links a subject into a course.
func (h *CourseHandler) AddCourseSubject(c *gin.Context) {
	var req validator.CourseSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Linking subject to course",
		"course_id", req.CourseID,
		"subject_id", req.SubjectID)

	link, err := h.courseService.AddCourseSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}
