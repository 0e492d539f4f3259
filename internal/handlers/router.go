package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/services"
	"github.com/UDLA-2025/assignment-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	courseHandler       *CourseHandler
	assignmentHandler   *AssignmentHandler
	submissionHandler   *SubmissionHandler
	notificationHandler *NotificationHandler
	authMiddleware      *JWTAuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), logger),
		assignmentHandler:   NewAssignmentHandler(serviceManager.Assignment(), serviceManager.Submission(), logger),
		submissionHandler:   NewSubmissionHandler(serviceManager.Submission(), serviceManager.AIFeedback(), serviceManager.Export(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		authMiddleware:      NewJWTAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Auth routes, no token required
	auth := api.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
	}

	// Everything below requires a valid token
	authed := api.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Course and subject routes
		authed.GET("/courses", hm.courseHandler.ListCourses)
		authed.POST("/courses", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.CreateCourse)
		authed.GET("/subjects", hm.courseHandler.ListSubjects)
		authed.POST("/subjects", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.CreateSubject)
		authed.POST("/course-subjects", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.AddCourseSubject)
		authed.GET("/teachers/:teacher_id/courses", hm.courseHandler.GetTeacherCourses)

		// Assignment routes
		assignments := authed.Group("/assignments")
		{
			assignments.GET("", hm.assignmentHandler.ListAssignments)
			assignments.GET("/:id", hm.assignmentHandler.GetAssignment)
			assignments.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.assignmentHandler.CreateAssignment)
			assignments.POST("/:id/submit", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.assignmentHandler.Submit)
		}

		// Teacher-scoped routes
		teacher := authed.Group("/teacher")
		teacher.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			teacher.GET("/submissions", hm.submissionHandler.GetTeacherSubmissions)
			teacher.GET("/submissions/export", hm.submissionHandler.ExportSubmissions)
		}

		// Submission routes
		submissions := authed.Group("/submissions")
		submissions.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			submissions.GET("/:id", hm.submissionHandler.GetSubmissionDetail)
			submissions.POST("/:id/grade", hm.submissionHandler.Grade)
			submissions.POST("/:id/ai_feedback", hm.submissionHandler.GenerateAIFeedback)
		}

		// Student-scoped routes
		student := authed.Group("/student")
		student.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
		{
			student.GET("/courses", hm.courseHandler.GetStudentCourses)
			student.GET("/assignments/pending", hm.assignmentHandler.GetPendingAssignments)
			student.GET("/grades", hm.submissionHandler.GetStudentGrades)
			student.GET("/submissions/:id/grade", hm.submissionHandler.GetStudentSubmissionGrade)
		}

		// Notification routes
		notifications := authed.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.GET("/unread_count", hm.notificationHandler.GetUnreadCount)
			notifications.POST("/create", hm.notificationHandler.CreateNotification)
			notifications.PATCH("/:id/read", hm.notificationHandler.MarkNotificationRead)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "assignment-service",
		})
	})
}
