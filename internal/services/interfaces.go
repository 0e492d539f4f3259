package services

import (
	"context"
	"time"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

// ===== AUTH =====

type RegisterResponse struct {
	UserID uint `json:"user_id"`
}

type UserInfo struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserInfo `json:"user"`
}

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID uint
	Role   models.UserRole
}

type AuthService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error)
	VerifyToken(token string) (*TokenClaims, error)
}

// ===== COURSES =====

type SubjectSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CourseResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	TeacherID   *uint            `json:"teacher_id,omitempty"`
	TeacherName *string          `json:"teacher_name"`
	Subjects    []SubjectSummary `json:"subjects,omitempty"`
}

type CourseService interface {
	CreateCourse(ctx context.Context, req *validator.CourseCreateRequest) (*models.Course, error)
	ListCourses(ctx context.Context) ([]CourseResponse, error)
	ListTeacherCourses(ctx context.Context, teacherID uint) ([]CourseResponse, error)
	// ListStudentCourses returns every course until enrollment exists.
	ListStudentCourses(ctx context.Context, userID uint) ([]CourseResponse, error)

	CreateSubject(ctx context.Context, req *validator.SubjectCreateRequest) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)

	AddCourseSubject(ctx context.Context, req *validator.CourseSubjectRequest) (*models.CourseSubject, error)
}

// ===== ASSIGNMENTS =====

type AssignmentListItem struct {
	ID              uint                  `json:"id"`
	Title           string                `json:"title"`
	Description     *string               `json:"description"`
	DueDate         *time.Time            `json:"due_date"`
	Type            models.AssignmentType `json:"type"`
	CourseSubjectID uint                  `json:"course_subject_id"`
	CreatedAt       time.Time             `json:"created_at"`
	QuestionsCount  int                   `json:"questions_count"`
}

type PendingAssignment struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Description    *string               `json:"description"`
	Type           models.AssignmentType `json:"type"`
	DueDate        *time.Time            `json:"due_date"`
	DaysUntilDue   *int                  `json:"days_until_due"`
	IsOverdue      bool                  `json:"is_overdue"`
	QuestionsCount int                   `json:"questions_count"`
}

type AssignmentService interface {
	Create(ctx context.Context, req *validator.AssignmentCreateRequest) (*models.Assignment, error)
	List(ctx context.Context, filters repositories.AssignmentFilters) ([]AssignmentListItem, int64, error)
	GetDetail(ctx context.Context, id uint) (*models.Assignment, error)
	ListPendingForStudent(ctx context.Context, userID uint, typeFilter *models.AssignmentType) ([]PendingAssignment, error)
}

// ===== SUBMISSIONS =====

type SubmitResponse struct {
	SubmissionID   uint      `json:"submission_id"`
	Confirmation   string    `json:"confirmation"`
	SubmissionDate time.Time `json:"submission_date"`
}

type SubmissionListItem struct {
	ID              uint                    `json:"id"`
	AssignmentTitle string                  `json:"assignment_title"`
	AssignmentType  models.AssignmentType   `json:"assignment_type"`
	StudentID       uint                    `json:"student_id"`
	StudentName     string                  `json:"student_name"`
	SubmissionDate  time.Time               `json:"submission_date"`
	Status          models.SubmissionStatus `json:"status"`
	AIScore         *float64                `json:"ai_score"`
	FinalScore      *float64                `json:"final_score"`
}

type AnswerDetail struct {
	ID              uint                 `json:"id"`
	QuestionID      uint                 `json:"question_id"`
	QuestionText    *string              `json:"question_text"`
	QuestionType    *models.QuestionType `json:"question_type"`
	SelectedOptions []uint               `json:"selected_options"`
	TextAnswer      *string              `json:"text_answer"`
	NumericAnswer   *float64             `json:"numeric_answer"`
	Correct         *bool                `json:"correct"`
	AIComment       *string              `json:"ai_comment"`
}

type SubmissionDetail struct {
	ID              uint                    `json:"id"`
	AssignmentID    uint                    `json:"assignment_id"`
	AssignmentTitle string                  `json:"assignment_title"`
	StudentID       uint                    `json:"student_id"`
	StudentName     *string                 `json:"student_name"`
	SubmissionDate  time.Time               `json:"submission_date"`
	FileURL         *string                 `json:"file_url"`
	AIFeedback      *string                 `json:"ai_feedback"`
	AIScore         *float64                `json:"ai_score"`
	FinalScore      *float64                `json:"final_score"`
	Status          models.SubmissionStatus `json:"status"`
	Answers         []AnswerDetail          `json:"answers"`
}

type GradeItem struct {
	ID              uint                  `json:"id"`
	AssignmentTitle string                `json:"assignment_title"`
	AssignmentType  models.AssignmentType `json:"assignment_type"`
	SubmissionDate  time.Time             `json:"submission_date"`
	FinalScore      *float64              `json:"final_score"`
	AIScore         *float64              `json:"ai_score"`
	Feedback        *string               `json:"feedback"`
}

type GradeStatistics struct {
	Average            float64 `json:"average"`
	TotalAssignments   int     `json:"total_assignments"`
	PendingAssignments int64   `json:"pending_assignments"`
}

type StudentGrades struct {
	Grades     []GradeItem     `json:"grades"`
	Statistics GradeStatistics `json:"statistics"`
}

type StudentGradeDetail struct {
	ID                    uint                    `json:"id"`
	AssignmentTitle       string                  `json:"assignment_title"`
	AssignmentDescription *string                 `json:"assignment_description"`
	SubmissionDate        time.Time               `json:"submission_date"`
	Status                models.SubmissionStatus `json:"status"`
	FinalScore            *float64                `json:"final_score"`
	AIScore               *float64                `json:"ai_score"`
	AIFeedback            *string                 `json:"ai_feedback"`
	Graded                bool                    `json:"graded"`
}

type SubmissionService interface {
	// Submit records a submission for the caller's student profile and fans
	// out confirmation notifications.
	Submit(ctx context.Context, assignmentID, userID uint, req *validator.SubmitRequest) (*SubmitResponse, error)
	// Grade sets the final score; repeated calls overwrite, status never
	// reverts from graded.
	Grade(ctx context.Context, submissionID, userID uint, req *validator.GradeRequest) error
	ListForTeacher(ctx context.Context, userID uint, filters repositories.SubmissionFilters) ([]SubmissionListItem, error)
	GetDetail(ctx context.Context, submissionID uint) (*SubmissionDetail, error)
	ListGradesForStudent(ctx context.Context, userID uint) (*StudentGrades, error)
	GetGradeForStudent(ctx context.Context, submissionID, userID uint) (*StudentGradeDetail, error)
}

// ===== AI FEEDBACK =====

// TextGenerator abstracts the generative model call so a fake can stand in
// during tests.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AIFeedbackResult struct {
	Feedback         string   `json:"ai_feedback"`
	SuggestedScore   *float64 `json:"ai_score"`
	AnalysisComplete bool     `json:"analysis_complete"`
	Error            string   `json:"error,omitempty"`
}

type AIFeedbackService interface {
	// AnalyzeSubmission runs the generator over the submission and persists
	// the feedback and suggested score.
	AnalyzeSubmission(ctx context.Context, submissionID uint) (*AIFeedbackResult, error)
}

// ===== NOTIFICATIONS =====

type NotificationService interface {
	ListForUser(ctx context.Context, userID uint) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID uint) error
	Create(ctx context.Context, req *validator.NotificationCreateRequest) (*models.Notification, error)
}

// ===== EXPORT =====

type ExportService interface {
	// ExportTeacherSubmissions renders the teacher's submissions as an xlsx
	// workbook and returns the bytes plus a suggested filename.
	ExportTeacherSubmissions(ctx context.Context, userID uint) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Course() CourseService
	Assignment() AssignmentService
	Submission() SubmissionService
	AIFeedback() AIFeedbackService
	Notification() NotificationService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
