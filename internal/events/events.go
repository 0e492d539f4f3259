package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Topics for the service's outbound events.
const (
	TopicSubmissions   = "assignment.submissions"
	TopicGrades        = "assignment.grades"
	TopicNotifications = "assignment.notifications"
)

// Event types.
const (
	TypeSubmissionReceived = "submission.received"
	TypeSubmissionGraded   = "submission.graded"
	TypeNotificationSent   = "notification.sent"
	TypeReminderBatch      = "reminder.batch_completed"
)

// Event is the envelope for every message this service publishes.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "assignment-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// SubmissionEvent is the payload for submission lifecycle events.
type SubmissionEvent struct {
	SubmissionID uint     `json:"submission_id"`
	AssignmentID uint     `json:"assignment_id"`
	StudentID    uint     `json:"student_id"`
	Status       string   `json:"status"`
	FinalScore   *float64 `json:"final_score,omitempty"`
}

// NotificationEvent is the payload for notification fan-out events.
type NotificationEvent struct {
	NotificationID uint   `json:"notification_id"`
	UserID         uint   `json:"user_id"`
	Kind           string `json:"kind"`
	Message        string `json:"message"`
}

// ReminderBatchEvent summarizes one reminder scheduler tick.
type ReminderBatchEvent struct {
	AssignmentsScanned int `json:"assignments_scanned"`
	RemindersCreated   int `json:"reminders_created"`
}
