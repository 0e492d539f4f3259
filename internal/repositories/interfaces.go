package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/UDLA-2025/assignment-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type AssignmentFilters struct {
	CourseID        *uint                  `json:"course_id"`
	SubjectID       *uint                  `json:"subject_id"`
	CourseSubjectID *uint                  `json:"course_subject_id"`
	Type            *models.AssignmentType `json:"type"`
	Limit           int                    `json:"limit"`
	Offset          int                    `json:"offset"`
}

type SubmissionFilters struct {
	Status       *models.SubmissionStatus `json:"status"`
	AssignmentID *uint                    `json:"assignment_id"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
}

// ===== ENTITY REPOSITORIES =====

// All methods accept an optional transaction handle; nil means the pooled
// connection.

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type TeacherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error)
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error)
	// List returns every known student. There is no enrollment model yet, so
	// reminder recipients come from here.
	List(ctx context.Context, tx *gorm.DB) ([]*models.Student, error)
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.Course, error)
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error)
}

type SubjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)
}

type CourseSubjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *models.CourseSubject) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSubject, error)
	Exists(ctx context.Context, tx *gorm.DB, courseID, subjectID uint) (bool, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSubject, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	// GetByIDWithOwner preloads the CourseSubject -> Course -> Teacher -> User
	// chain used for teacher notifications.
	GetByIDWithOwner(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	List(ctx context.Context, tx *gorm.DB, filters AssignmentFilters) ([]*models.Assignment, int64, error)
	// ListDueBetween returns assignments whose due date falls in [from, to].
	ListDueBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*models.Assignment, error)
}

type QuestionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	// ListByTeacher walks submissions belonging to assignments in the
	// teacher's courses, newest first.
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters SubmissionFilters) ([]*models.Submission, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters SubmissionFilters) ([]*models.Submission, error)
	GetByIDForStudent(ctx context.Context, tx *gorm.DB, id, studentID uint) (*models.Submission, error)
	// StudentIDsByAssignment returns the ids of students that already have a
	// submission for the assignment.
	StudentIDsByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]uint, error)
	AssignmentIDsByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]uint, error)
	CountByStudentAndStatus(ctx context.Context, tx *gorm.DB, studentID uint, status models.SubmissionStatus) (int64, error)
}

type AnswerRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, answers []models.Answer) error
	ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uint) ([]*models.Answer, error)
	Update(ctx context.Context, tx *gorm.DB, answer *models.Answer) error
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Notification, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uint) (*models.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uint) error
	// ExistsReminder reports whether a due_reminder row already exists for the
	// (user, assignment) pair.
	ExistsReminder(ctx context.Context, tx *gorm.DB, userID, assignmentID uint) (bool, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
}

// ===== ERROR HELPERS =====

// IsNotFoundError reports whether err is a record-not-found from the store.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
