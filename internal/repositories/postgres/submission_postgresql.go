package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(submission).Error
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).
		Preload("Assignment").
		Preload("Student").
		Preload("Student.User").
		Preload("Answers").
		Preload("Answers.Question").
		First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Save(submission).Error
}

func (s *SubmissionPostgreSQL) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	db := s.getDB(tx)
	var submissions []*models.Submission

	query := db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN course_subjects ON course_subjects.id = assignments.course_subject_id").
		Joins("JOIN courses ON courses.id = course_subjects.course_id").
		Where("courses.teacher_id = ?", teacherID).
		Where("assignments.deleted_at IS NULL")
	query = s.applyFilters(query, filters)

	if err := query.
		Preload("Assignment").
		Preload("Student").
		Preload("Student.User").
		Order("submissions.submission_date DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	db := s.getDB(tx)
	var submissions []*models.Submission

	query := db.WithContext(ctx).Where("student_id = ?", studentID)
	query = s.applyFilters(query, filters)

	if err := query.
		Preload("Assignment").
		Order("submission_date DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) GetByIDForStudent(ctx context.Context, tx *gorm.DB, id, studentID uint) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Assignment").
		Preload("Answers").
		First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) StudentIDsByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]uint, error) {
	db := s.getDB(tx)
	var ids []uint
	if err := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("assignment_id = ?", assignmentID).
		Distinct().
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SubmissionPostgreSQL) AssignmentIDsByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]uint, error) {
	db := s.getDB(tx)
	var ids []uint
	if err := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ?", studentID).
		Distinct().
		Pluck("assignment_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SubmissionPostgreSQL) CountByStudentAndStatus(ctx context.Context, tx *gorm.DB, studentID uint, status models.SubmissionStatus) (int64, error) {
	db := s.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ? AND status = ?", studentID, status).
		Count(&count).Error
	return count, err
}

func (s *SubmissionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("submissions.status = ?", *filters.Status)
	}
	if filters.AssignmentID != nil {
		query = query.Where("submissions.assignment_id = ?", *filters.AssignmentID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a *AnswerPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	db := a.getDB(tx)
	return db.WithContext(ctx).Create(&answers).Error
}

func (a *AnswerPostgreSQL) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uint) ([]*models.Answer, error) {
	db := a.getDB(tx)
	var answers []*models.Answer
	if err := db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Preload("Question").
		Order("question_id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) Update(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	db := a.getDB(tx)
	return db.WithContext(ctx).Save(answer).Error
}

func (a *AnswerPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}
