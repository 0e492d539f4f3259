package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssignmentType string

const (
	AssignmentTask AssignmentType = "task"
	AssignmentQuiz AssignmentType = "quiz"
	AssignmentExam AssignmentType = "exam"
)

type QuestionType string

const (
	TrueFalse      QuestionType = "true_false"
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
	LongAnswer     QuestionType = "long_answer"
	RatingScale    QuestionType = "rating_scale"
	Ranking        QuestionType = "ranking"
	Mixed          QuestionType = "mixed"
)

type Assignment struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CourseSubjectID uint           `json:"course_subject_id" gorm:"not null;index"`
	Title           string         `json:"title" gorm:"not null;size:150;index" validate:"required,min=1,max=150"`
	Description     *string        `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	DueDate         *time.Time     `json:"due_date" gorm:"index"`
	Type            AssignmentType `json:"type" gorm:"size:20;default:task" validate:"omitempty,oneof=task quiz exam"`
	FileURL         *string        `json:"file_url" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	CourseSubject *CourseSubject `json:"course_subject,omitempty" gorm:"foreignKey:CourseSubjectID"`
	Questions     []Question     `json:"questions,omitempty" gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
	Submissions   []Submission   `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`

	// Computed (not stored)
	QuestionsCount int `json:"questions_count" gorm:"-"`
}

type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	AssignmentID uint         `json:"assignment_id" gorm:"not null;index"`
	Text         string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Type         QuestionType `json:"type" gorm:"not null;size:30" validate:"required,oneof=true_false single_choice multiple_choice short_answer long_answer rating_scale ranking mixed"`
	Required     bool         `json:"required" gorm:"default:true"`
	OrderIndex   int          `json:"order_index" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Assignment *Assignment      `json:"-" gorm:"foreignKey:AssignmentID"`
	Options    []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Scale      *QuestionScale   `json:"scale,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type QuestionOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	OptionText string `json:"option_text" gorm:"type:text;not null" validate:"required"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
}

// QuestionScale holds the bounds and labels for rating_scale questions.
// Labels are an ordered JSON array, one entry per step.
type QuestionScale struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	QuestionID  uint           `json:"question_id" gorm:"uniqueIndex;not null"`
	ScaleMin    int            `json:"scale_min" gorm:"default:1"`
	ScaleMax    int            `json:"scale_max" gorm:"default:5"`
	ScaleLabels datatypes.JSON `json:"scale_labels" gorm:"type:jsonb"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (Question) TableName() string {
	return "questions"
}

func (QuestionOption) TableName() string {
	return "question_options"
}

func (QuestionScale) TableName() string {
	return "question_scale"
}
