package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/UDLA-2025/assignment-service/internal/cache"
	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Create(course).Error
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).
		Preload("CourseSubjects").
		Preload("CourseSubjects.Subject").
		First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Save(course).Error
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Delete(&models.Course{}, id).Error
}

func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Course, error) {
	db := c.getDB(tx)
	var courses []*models.Course
	if err := db.WithContext(ctx).Order("name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error) {
	db := c.getDB(tx)
	var courses []*models.Course
	if err := db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("name ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s *SubjectPostgreSQL) Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(subject).Error
}

func (s *SubjectPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	db := s.getDB(tx)
	var subject models.Subject
	if err := db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	db := s.getDB(tx)
	var subjects []*models.Subject
	if err := db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *SubjectPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

type CourseSubjectPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCourseSubjectPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseSubjectRepository {
	return &CourseSubjectPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (cs *CourseSubjectPostgreSQL) Create(ctx context.Context, tx *gorm.DB, link *models.CourseSubject) error {
	db := cs.getDB(tx)
	return db.WithContext(ctx).Create(link).Error
}

func (cs *CourseSubjectPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSubject, error) {
	db := cs.getDB(tx)
	var link models.CourseSubject
	if err := db.WithContext(ctx).
		Preload("Course").
		Preload("Subject").
		First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (cs *CourseSubjectPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, courseID, subjectID uint) (bool, error) {
	db := cs.getDB(tx)
	cacheKey := fmt.Sprintf("course_subject:%d:%d", courseID, subjectID)
	var exists bool

	err := cs.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := db.WithContext(ctx).
			Model(&models.CourseSubject{}).
			Where("course_id = ? AND subject_id = ?", courseID, subjectID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		return count > 0, nil
	})

	return exists, err
}

func (cs *CourseSubjectPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSubject, error) {
	db := cs.getDB(tx)
	var links []*models.CourseSubject
	if err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("Subject").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (cs *CourseSubjectPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cs.db
}
