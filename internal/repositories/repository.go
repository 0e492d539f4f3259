package repositories

import "context"

// Repository aggregates all entity repositories behind one access point.
type Repository interface {
	// User domain
	User() UserRepository
	Teacher() TeacherRepository
	Student() StudentRepository

	// Course domain
	Course() CourseRepository
	Subject() SubjectRepository
	CourseSubject() CourseSubjectRepository

	// Assignment domain
	Assignment() AssignmentRepository
	Question() QuestionRepository

	// Submission domain
	Submission() SubmissionRepository
	Answer() AnswerRepository

	// Notification domain
	Notification() NotificationRepository

	// Transaction support: fn runs against a Repository bound to one
	// transaction; returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
