package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *assignmentService) Create(ctx context.Context, req *validator.AssignmentCreateRequest) (*models.Assignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.repo.CourseSubject().GetByID(ctx, nil, req.CourseSubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: course subject %d", ErrNotFound, req.CourseSubjectID)
		}
		return nil, fmt.Errorf("failed to get course subject: %w", err)
	}

	assignmentType := req.Type
	if assignmentType == "" {
		assignmentType = models.AssignmentTask
	}

	assignment := &models.Assignment{
		CourseSubjectID: req.CourseSubjectID,
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		Type:            assignmentType,
		FileURL:         req.FileURL,
	}

	for _, q := range req.Questions {
		question, err := buildQuestion(q)
		if err != nil {
			return nil, err
		}
		assignment.Questions = append(assignment.Questions, *question)
	}

	// Questions ride along in one insert through gorm associations.
	if err := s.repo.Assignment().Create(ctx, nil, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info("Assignment created",
		"assignment_id", assignment.ID,
		"title", assignment.Title,
		"questions", len(assignment.Questions))

	return assignment, nil
}

func buildQuestion(req validator.QuestionCreateRequest) (*models.Question, error) {
	required := true
	if req.Required != nil {
		required = *req.Required
	}

	question := &models.Question{
		Text:       req.Text,
		Type:       req.Type,
		Required:   required,
		OrderIndex: req.OrderIndex,
	}

	for _, opt := range req.Options {
		question.Options = append(question.Options, models.QuestionOption{
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
			OrderIndex: opt.OrderIndex,
		})
	}

	if req.Scale != nil {
		if req.Scale.ScaleMax <= req.Scale.ScaleMin {
			return nil, NewValidationError("scale", "scale_max must exceed scale_min", req.Scale)
		}
		labels, err := json.Marshal(req.Scale.ScaleLabels)
		if err != nil {
			return nil, fmt.Errorf("failed to encode scale labels: %w", err)
		}
		question.Scale = &models.QuestionScale{
			ScaleMin:    req.Scale.ScaleMin,
			ScaleMax:    req.Scale.ScaleMax,
			ScaleLabels: datatypes.JSON(labels),
		}
	}

	return question, nil
}

func (s *assignmentService) List(ctx context.Context, filters repositories.AssignmentFilters) ([]AssignmentListItem, int64, error) {
	assignments, total, err := s.repo.Assignment().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	result := make([]AssignmentListItem, 0, len(assignments))
	for _, a := range assignments {
		count, err := s.questionCount(ctx, a)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, AssignmentListItem{
			ID:              a.ID,
			Title:           a.Title,
			Description:     a.Description,
			DueDate:         a.DueDate,
			Type:            a.Type,
			CourseSubjectID: a.CourseSubjectID,
			CreatedAt:       a.CreatedAt,
			QuestionsCount:  count,
		})
	}
	return result, total, nil
}

func (s *assignmentService) GetDetail(ctx context.Context, id uint) (*models.Assignment, error) {
	assignment, err := s.repo.Assignment().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	assignment.QuestionsCount = len(assignment.Questions)
	return assignment, nil
}

func (s *assignmentService) ListPendingForStudent(ctx context.Context, userID uint, typeFilter *models.AssignmentType) ([]PendingAssignment, error) {
	student, err := s.repo.Student().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: student profile", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	submittedIDs, err := s.repo.Submission().AssignmentIDsByStudent(ctx, nil, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitted assignments: %w", err)
	}
	submitted := make(map[uint]bool, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = true
	}

	assignments, _, err := s.repo.Assignment().List(ctx, nil, repositories.AssignmentFilters{Type: typeFilter})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	now := time.Now()
	result := make([]PendingAssignment, 0, len(assignments))
	for _, a := range assignments {
		if submitted[a.ID] {
			continue
		}

		pending := PendingAssignment{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Type:        a.Type,
			DueDate:     a.DueDate,
		}
		if a.DueDate != nil {
			days := int(a.DueDate.Sub(now).Hours() / 24)
			pending.DaysUntilDue = &days
			pending.IsOverdue = a.DueDate.Before(now)
		}
		pending.QuestionsCount, err = s.questionCount(ctx, a)
		if err != nil {
			return nil, err
		}
		result = append(result, pending)
	}
	return result, nil
}

func (s *assignmentService) questionCount(ctx context.Context, a *models.Assignment) (int, error) {
	if len(a.Questions) > 0 {
		return len(a.Questions), nil
	}
	questions, err := s.repo.Question().ListByAssignment(ctx, nil, a.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return len(questions), nil
}
