package models

import "time"

type NotificationKind string

const (
	// NotificationGeneric covers manually created notifications.
	NotificationGeneric NotificationKind = "generic"
	// NotificationDueReminder is emitted by the reminder scheduler. At most one
	// per (user, assignment) pair, enforced by idx_notification_dedup.
	NotificationDueReminder NotificationKind = "due_reminder"
	// NotificationSubmissionReceived confirms a submission to the student.
	NotificationSubmissionReceived NotificationKind = "submission_received"
	// NotificationSubmissionToGrade tells a teacher a new submission arrived.
	NotificationSubmissionToGrade NotificationKind = "submission_to_grade"
	// NotificationGraded tells a student their submission was graded.
	NotificationGraded NotificationKind = "graded"
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  uint             `json:"user_id" gorm:"not null;index;uniqueIndex:idx_notification_dedup"`
	Kind    NotificationKind `json:"kind" gorm:"size:30;default:generic;uniqueIndex:idx_notification_dedup"`
	Message string           `json:"message" gorm:"type:text;not null"`

	// AssignmentID is set only for due_reminder rows. Other kinds leave it NULL,
	// and NULLs compare distinct, so the unique index bites only for reminders.
	AssignmentID *uint `json:"assignment_id" gorm:"uniqueIndex:idx_notification_dedup"`

	Read      bool      `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}
