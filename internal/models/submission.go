package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionGraded  SubmissionStatus = "graded"
)

// Submission is one student attempt at an assignment. Multiple submissions per
// (assignment, student) pair are allowed; no uniqueness is enforced.
type Submission struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;index"`
	StudentID    uint `json:"student_id" gorm:"not null;index"`

	SubmissionDate time.Time `json:"submission_date" gorm:"autoCreateTime"`
	FileURL        *string   `json:"file_url" gorm:"type:text"`

	// Scoring. AIScore is advisory until a teacher sets FinalScore.
	AIFeedback *string          `json:"ai_feedback" gorm:"type:text"`
	AIScore    *float64         `json:"ai_score"`
	FinalScore *float64         `json:"final_score"`
	Status     SubmissionStatus `json:"status" gorm:"size:20;default:pending;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assignment *Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	Student    *Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Answers    []Answer    `json:"answers,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

// Answer is one response to a single question within a submission. Exactly one
// of SelectedOptions, TextAnswer, NumericAnswer is set, depending on the
// question type.
type Answer struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	SubmissionID uint `json:"submission_id" gorm:"not null;index"`
	QuestionID   uint `json:"question_id" gorm:"not null;index"`

	SelectedOptions datatypes.JSON `json:"selected_options" gorm:"type:jsonb"` // []uint option ids
	TextAnswer      *string        `json:"text_answer" gorm:"type:text"`
	NumericAnswer   *float64       `json:"numeric_answer"`

	Correct   *bool   `json:"correct"`
	AIComment *string `json:"ai_comment" gorm:"type:text"`

	// Relations
	Submission *Submission `json:"-" gorm:"foreignKey:SubmissionID"`
	Question   *Question   `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (Answer) TableName() string {
	return "answers"
}
