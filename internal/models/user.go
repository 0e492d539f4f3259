package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:50" validate:"required,min=3,max=50"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:100" validate:"required,email,max=100"`
	PasswordHash string   `json:"-" gorm:"not null;type:text"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Teacher       *Teacher       `json:"teacher,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Student       *Student       `json:"student,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Notifications []Notification `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Teacher is the teaching profile attached to a user with the teacher role.
// Created at registration time, one per user.
type Teacher struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:TeacherID"`
}

// Student is the learning profile attached to a user with the student role.
type Student struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	// Relations
	User        *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:StudentID"`
}

func (User) TableName() string {
	return "users"
}

func (Teacher) TableName() string {
	return "teachers"
}

func (Student) TableName() string {
	return "students"
}
