package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, req *validator.CourseCreateRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if req.TeacherID != nil {
		if _, err := s.repo.Teacher().GetByID(ctx, nil, *req.TeacherID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("%w: teacher %d", ErrNotFound, *req.TeacherID)
			}
			return nil, fmt.Errorf("failed to get teacher: %w", err)
		}
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}
	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "name", course.Name)
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]CourseResponse, error) {
	courses, err := s.repo.Course().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	result := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		result = append(result, CourseResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			TeacherID:   c.TeacherID,
			TeacherName: s.teacherName(ctx, c.TeacherID),
		})
	}
	return result, nil
}

func (s *courseService) ListTeacherCourses(ctx context.Context, teacherID uint) ([]CourseResponse, error) {
	courses, err := s.repo.Course().ListByTeacher(ctx, nil, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher courses: %w", err)
	}

	result := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		resp := CourseResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		}
		resp.Subjects, err = s.courseSubjects(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *courseService) ListStudentCourses(ctx context.Context, userID uint) ([]CourseResponse, error) {
	if _, err := s.repo.Student().GetByUserID(ctx, nil, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: student profile", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	// No enrollment model: every course is visible to every student.
	courses, err := s.repo.Course().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	result := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		resp := CourseResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			TeacherName: s.teacherName(ctx, c.TeacherID),
		}
		resp.Subjects, err = s.courseSubjects(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *courseService) CreateSubject(ctx context.Context, req *validator.SubjectCreateRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	subject := &models.Subject{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Subject().Create(ctx, nil, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.logger.Info("Subject created", "subject_id", subject.ID, "name", subject.Name)
	return subject, nil
}

func (s *courseService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.repo.Subject().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (s *courseService) AddCourseSubject(ctx context.Context, req *validator.CourseSubjectRequest) (*models.CourseSubject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: course %d", ErrNotFound, req.CourseID)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if _, err := s.repo.Subject().GetByID(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: subject %d", ErrNotFound, req.SubjectID)
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	exists, err := s.repo.CourseSubject().Exists(ctx, nil, req.CourseID, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course subject: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: subject already linked to course", ErrConflict)
	}

	link := &models.CourseSubject{
		CourseID:  req.CourseID,
		SubjectID: req.SubjectID,
	}
	if err := s.repo.CourseSubject().Create(ctx, nil, link); err != nil {
		return nil, fmt.Errorf("failed to link subject: %w", err)
	}

	s.logger.Info("Subject linked to course",
		"course_id", req.CourseID,
		"subject_id", req.SubjectID)
	return link, nil
}

func (s *courseService) teacherName(ctx context.Context, teacherID *uint) *string {
	if teacherID == nil {
		return nil
	}
	teacher, err := s.repo.Teacher().GetByID(ctx, nil, *teacherID)
	if err != nil || teacher.User == nil {
		return nil
	}
	return &teacher.User.Username
}

func (s *courseService) courseSubjects(ctx context.Context, courseID uint) ([]SubjectSummary, error) {
	links, err := s.repo.CourseSubject().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course subjects: %w", err)
	}

	subjects := make([]SubjectSummary, 0, len(links))
	for _, link := range links {
		if link.Subject == nil {
			continue
		}
		subjects = append(subjects, SubjectSummary{
			ID:   link.Subject.ID,
			Name: link.Subject.Name,
		})
	}
	return subjects, nil
}
