package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	// Nullable on purpose: deleting a teacher orphans the course instead of
	// cascading into it.
	TeacherID *uint `json:"teacher_id" gorm:"index;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Teacher        *Teacher        `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	CourseSubjects []CourseSubject `json:"course_subjects,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

type Subject struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	CourseSubjects []CourseSubject `json:"course_subjects,omitempty" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

// CourseSubject links a subject into a course. The pair is unique.
type CourseSubject struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_course_subject"`
	SubjectID uint `json:"subject_id" gorm:"not null;uniqueIndex:idx_course_subject"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Course      *Course      `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Subject     *Subject     `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Assignments []Assignment `json:"assignments,omitempty" gorm:"foreignKey:CourseSubjectID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

func (Subject) TableName() string {
	return "subjects"
}

func (CourseSubject) TableName() string {
	return "course_subjects"
}
