package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"gorm.io/datatypes"

	"github.com/UDLA-2025/assignment-service/internal/cache"
	"github.com/UDLA-2025/assignment-service/internal/events"
	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

type submissionService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.Validator
	publisher    events.EventPublisher
	cacheManager *cache.CacheManager
}

func NewSubmissionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager) SubmissionService {
	return &submissionService{
		repo:         repo,
		logger:       logger,
		validator:    validator,
		publisher:    publisher,
		cacheManager: cacheManager,
	}
}

func (s *submissionService) Submit(ctx context.Context, assignmentID, userID uint, req *validator.SubmitRequest) (*SubmitResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	student, err := s.repo.Student().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: student profile", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	// Owner chain preloaded for the teacher-side notification.
	assignment, err := s.repo.Assignment().GetByIDWithOwner(ctx, nil, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, assignmentID)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    student.ID,
		FileURL:      req.FileURL,
		Status:       models.SubmissionPending,
	}

	var notifiedUsers []uint
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Submission().Create(ctx, nil, submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}

		answers, err := buildAnswers(submission.ID, req.Answers)
		if err != nil {
			return err
		}
		if err := txRepo.Answer().CreateBatch(ctx, nil, answers); err != nil {
			return fmt.Errorf("failed to create answers: %w", err)
		}

		// Confirmation to the student, always.
		studentNote := &models.Notification{
			UserID:  student.UserID,
			Kind:    models.NotificationSubmissionReceived,
			Message: fmt.Sprintf("Tu entrega de %q fue recibida", assignment.Title),
		}
		if err := txRepo.Notification().Create(ctx, nil, studentNote); err != nil {
			return fmt.Errorf("failed to notify student: %w", err)
		}
		notifiedUsers = append(notifiedUsers, student.UserID)

		// One to the owning teacher when the chain resolves; a broken link is
		// not an error.
		if teacherUserID, ok := ownerUserID(assignment); ok {
			teacherNote := &models.Notification{
				UserID:  teacherUserID,
				Kind:    models.NotificationSubmissionToGrade,
				Message: fmt.Sprintf("Nueva entrega de %q para revisar", assignment.Title),
			}
			if err := txRepo.Notification().Create(ctx, nil, teacherNote); err != nil {
				return fmt.Errorf("failed to notify teacher: %w", err)
			}
			notifiedUsers = append(notifiedUsers, teacherUserID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, uid := range notifiedUsers {
		s.cacheManager.InvalidateNotifications(ctx, uid)
	}

	s.publishSubmissionEvent(ctx, events.TopicSubmissions, events.TypeSubmissionReceived, submission)

	s.logger.Info("Submission received",
		"submission_id", submission.ID,
		"assignment_id", assignmentID,
		"student_id", student.ID,
		"answers", len(req.Answers))

	return &SubmitResponse{
		SubmissionID:   submission.ID,
		Confirmation:   "submission received",
		SubmissionDate: submission.SubmissionDate,
	}, nil
}

// ownerUserID walks Assignment -> CourseSubject -> Course -> Teacher -> User.
func ownerUserID(assignment *models.Assignment) (uint, bool) {
	cs := assignment.CourseSubject
	if cs == nil || cs.Course == nil || cs.Course.Teacher == nil {
		return 0, false
	}
	return cs.Course.Teacher.UserID, true
}

func buildAnswers(submissionID uint, reqs []validator.AnswerRequest) ([]models.Answer, error) {
	answers := make([]models.Answer, 0, len(reqs))
	for _, r := range reqs {
		answer := models.Answer{
			SubmissionID:  submissionID,
			QuestionID:    r.QuestionID,
			TextAnswer:    r.TextAnswer,
			NumericAnswer: r.NumericAnswer,
		}
		if len(r.SelectedOptions) > 0 {
			raw, err := json.Marshal(r.SelectedOptions)
			if err != nil {
				return nil, fmt.Errorf("failed to encode selected options: %w", err)
			}
			answer.SelectedOptions = datatypes.JSON(raw)
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

func (s *submissionService) Grade(ctx context.Context, submissionID, userID uint, req *validator.GradeRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("%w: submission %d", ErrNotFound, submissionID)
		}
		return fmt.Errorf("failed to get submission: %w", err)
	}

	score := *req.FinalScore
	submission.FinalScore = &score
	if req.AIFeedback != nil {
		submission.AIFeedback = req.AIFeedback
	}
	// pending -> graded, never back.
	submission.Status = models.SubmissionGraded

	var studentUserID uint
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Submission().Update(ctx, nil, submission); err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}

		student, err := txRepo.Student().GetByID(ctx, nil, submission.StudentID)
		if err != nil {
			return fmt.Errorf("failed to get student: %w", err)
		}
		studentUserID = student.UserID

		assignment, err := txRepo.Assignment().GetByID(ctx, nil, submission.AssignmentID)
		if err != nil {
			return fmt.Errorf("failed to get assignment: %w", err)
		}

		note := &models.Notification{
			UserID:  student.UserID,
			Kind:    models.NotificationGraded,
			Message: fmt.Sprintf("Tu entrega de %q fue calificada: %.1f", assignment.Title, score),
		}
		return txRepo.Notification().Create(ctx, nil, note)
	})
	if err != nil {
		return err
	}

	s.cacheManager.InvalidateNotifications(ctx, studentUserID)
	s.publishSubmissionEvent(ctx, events.TopicGrades, events.TypeSubmissionGraded, submission)

	s.logger.Info("Submission graded",
		"submission_id", submissionID,
		"final_score", score,
		"grader_user_id", userID)

	return nil
}

func (s *submissionService) ListForTeacher(ctx context.Context, userID uint, filters repositories.SubmissionFilters) ([]SubmissionListItem, error) {
	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: teacher profile", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher profile: %w", err)
	}

	submissions, err := s.repo.Submission().ListByTeacher(ctx, nil, teacher.ID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	result := make([]SubmissionListItem, 0, len(submissions))
	for _, sub := range submissions {
		item := SubmissionListItem{
			ID:             sub.ID,
			StudentID:      sub.StudentID,
			StudentName:    "Unknown",
			SubmissionDate: sub.SubmissionDate,
			Status:         sub.Status,
			AIScore:        sub.AIScore,
			FinalScore:     sub.FinalScore,
		}
		if sub.Assignment != nil {
			item.AssignmentTitle = sub.Assignment.Title
			item.AssignmentType = sub.Assignment.Type
		}
		if sub.Student != nil && sub.Student.User != nil {
			item.StudentName = sub.Student.User.Username
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *submissionService) GetDetail(ctx context.Context, submissionID uint) (*SubmissionDetail, error) {
	sub, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: submission %d", ErrNotFound, submissionID)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	detail := &SubmissionDetail{
		ID:             sub.ID,
		AssignmentID:   sub.AssignmentID,
		StudentID:      sub.StudentID,
		SubmissionDate: sub.SubmissionDate,
		FileURL:        sub.FileURL,
		AIFeedback:     sub.AIFeedback,
		AIScore:        sub.AIScore,
		FinalScore:     sub.FinalScore,
		Status:         sub.Status,
	}
	if sub.Assignment != nil {
		detail.AssignmentTitle = sub.Assignment.Title
	}
	if sub.Student != nil && sub.Student.User != nil {
		detail.StudentName = &sub.Student.User.Username
	}

	for _, answer := range sub.Answers {
		detail.Answers = append(detail.Answers, toAnswerDetail(answer))
	}
	return detail, nil
}

func toAnswerDetail(answer models.Answer) AnswerDetail {
	d := AnswerDetail{
		ID:            answer.ID,
		QuestionID:    answer.QuestionID,
		TextAnswer:    answer.TextAnswer,
		NumericAnswer: answer.NumericAnswer,
		Correct:       answer.Correct,
		AIComment:     answer.AIComment,
	}
	if answer.Question != nil {
		d.QuestionText = &answer.Question.Text
		d.QuestionType = &answer.Question.Type
	}
	if len(answer.SelectedOptions) > 0 {
		// Stored as a JSON array of option ids; a decode failure leaves the
		// field empty rather than failing the whole detail.
		_ = json.Unmarshal(answer.SelectedOptions, &d.SelectedOptions)
	}
	return d
}

func (s *submissionService) ListGradesForStudent(ctx context.Context, userID uint) (*StudentGrades, error) {
	student, err := s.repo.Student().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: student profile", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	graded := models.SubmissionGraded
	submissions, err := s.repo.Submission().ListByStudent(ctx, nil, student.ID, repositories.SubmissionFilters{Status: &graded})
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	grades := make([]GradeItem, 0, len(submissions))
	var total float64
	var count int
	for _, sub := range submissions {
		item := GradeItem{
			ID:             sub.ID,
			SubmissionDate: sub.SubmissionDate,
			FinalScore:     sub.FinalScore,
			AIScore:        sub.AIScore,
			Feedback:       sub.AIFeedback,
		}
		if sub.Assignment != nil {
			item.AssignmentTitle = sub.Assignment.Title
			item.AssignmentType = sub.Assignment.Type
		}
		if sub.FinalScore != nil {
			total += *sub.FinalScore
			count++
		}
		grades = append(grades, item)
	}

	pending, err := s.repo.Submission().CountByStudentAndStatus(ctx, nil, student.ID, models.SubmissionPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending submissions: %w", err)
	}

	stats := GradeStatistics{
		TotalAssignments:   count,
		PendingAssignments: pending,
	}
	if count > 0 {
		stats.Average = roundTo2(total / float64(count))
	}

	return &StudentGrades{Grades: grades, Statistics: stats}, nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *submissionService) GetGradeForStudent(ctx context.Context, submissionID, userID uint) (*StudentGradeDetail, error) {
	student, err := s.repo.Student().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: student profile", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	sub, err := s.repo.Submission().GetByIDForStudent(ctx, nil, submissionID, student.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: submission %d", ErrNotFound, submissionID)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	detail := &StudentGradeDetail{
		ID:             sub.ID,
		SubmissionDate: sub.SubmissionDate,
		Status:         sub.Status,
		FinalScore:     sub.FinalScore,
		AIScore:        sub.AIScore,
		AIFeedback:     sub.AIFeedback,
		Graded:         sub.Status == models.SubmissionGraded,
	}
	if sub.Assignment != nil {
		detail.AssignmentTitle = sub.Assignment.Title
		detail.AssignmentDescription = sub.Assignment.Description
	}
	return detail, nil
}

func (s *submissionService) publishSubmissionEvent(ctx context.Context, topic, eventType string, sub *models.Submission) {
	event := events.NewEvent(eventType, events.SubmissionEvent{
		SubmissionID: sub.ID,
		AssignmentID: sub.AssignmentID,
		StudentID:    sub.StudentID,
		Status:       string(sub.Status),
		FinalScore:   sub.FinalScore,
	})
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("Failed to publish submission event",
			"event_type", eventType,
			"submission_id", sub.ID,
			"error", err)
	}
}
