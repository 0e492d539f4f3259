package validator

import (
	"time"

	"github.com/UDLA-2025/assignment-service/internal/models"
)

// RegisterRequest creates a user plus its role profile.
type RegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=50"`
	Email    string          `json:"email" validate:"required,email,max=100"`
	Password string          `json:"password" validate:"required,min=6,max=128"`
	Role     models.UserRole `json:"role" validate:"required,oneof=teacher student admin"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CourseCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	TeacherID   *uint   `json:"teacher_id"`
}

type SubjectCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type CourseSubjectRequest struct {
	CourseID  uint `json:"course_id" validate:"required"`
	SubjectID uint `json:"subject_id" validate:"required"`
}

type AssignmentCreateRequest struct {
	CourseSubjectID uint                    `json:"course_subject_id" validate:"required"`
	Title           string                  `json:"title" validate:"required,min=1,max=150"`
	Description     *string                 `json:"description" validate:"omitempty,max=5000"`
	DueDate         *time.Time              `json:"due_date"`
	Type            models.AssignmentType   `json:"type" validate:"omitempty,oneof=task quiz exam"`
	FileURL         *string                 `json:"file_url"`
	Questions       []QuestionCreateRequest `json:"questions" validate:"omitempty,dive"`
}

type QuestionCreateRequest struct {
	Text       string                  `json:"text" validate:"required"`
	Type       models.QuestionType     `json:"type" validate:"required,oneof=true_false single_choice multiple_choice short_answer long_answer rating_scale ranking mixed"`
	Required   *bool                   `json:"required"`
	OrderIndex int                     `json:"order_index"`
	Options    []QuestionOptionRequest `json:"options" validate:"omitempty,dive"`
	Scale      *QuestionScaleRequest   `json:"scale"`
}

type QuestionOptionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

type QuestionScaleRequest struct {
	ScaleMin    int      `json:"scale_min"`
	ScaleMax    int      `json:"scale_max"`
	ScaleLabels []string `json:"scale_labels"`
}

// SubmitRequest carries a student submission. Answers may cover any subset of
// the assignment's questions; required-question enforcement is not done here.
type SubmitRequest struct {
	FileURL *string         `json:"file_url"`
	Answers []AnswerRequest `json:"answers" validate:"omitempty,dive"`
}

type AnswerRequest struct {
	QuestionID      uint     `json:"question_id" validate:"required"`
	SelectedOptions []uint   `json:"selected_options"`
	TextAnswer      *string  `json:"text_answer"`
	NumericAnswer   *float64 `json:"numeric_answer"`
}

// GradeRequest sets the final score for a submission. FinalScore is a pointer
// so an omitted field fails validation instead of recording a zero.
type GradeRequest struct {
	FinalScore *float64 `json:"final_score" validate:"required,gte=0,lte=100"`
	AIFeedback *string  `json:"ai_feedback" validate:"omitempty,max=10000"`
}

type NotificationCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required,max=2000"`
}
