package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UDLA-2025/assignment-service/internal/events"
	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
)

// ReminderScheduler scans for assignments that are about to be due and leaves
// one reminder notification per (student, assignment) pair. It runs on a fixed
// interval from its own goroutine; every tick commits or rolls back as a unit,
// and a failed tick never takes the process down.
type ReminderScheduler struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher

	interval  time.Duration
	lookahead time.Duration

	// now is swappable in tests.
	now func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewReminderScheduler(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher, interval, lookahead time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
		interval:  interval,
		lookahead: lookahead,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

// Start launches the ticker goroutine. The first scan happens after one full
// interval.
func (s *ReminderScheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("Reminder scheduler started",
			"interval", s.interval,
			"lookahead", s.lookahead)

		for {
			select {
			case <-ticker.C:
				if err := s.Tick(context.Background()); err != nil {
					s.logger.Error("Reminder tick failed", "error", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the ticker goroutine and waits for an in-flight tick.
func (s *ReminderScheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
	s.logger.Info("Reminder scheduler stopped")
}

// Tick runs one due-date scan inside a single transaction. An error rolls the
// whole scan back; the next tick starts clean.
func (s *ReminderScheduler) Tick(ctx context.Context) error {
	now := s.now()
	var scanned, created int

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		assignments, err := txRepo.Assignment().ListDueBetween(ctx, nil, now, now.Add(s.lookahead))
		if err != nil {
			return fmt.Errorf("failed to scan due assignments: %w", err)
		}
		scanned = len(assignments)

		for _, assignment := range assignments {
			n, err := s.remindForAssignment(ctx, txRepo, assignment, now)
			if err != nil {
				return err
			}
			created += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	if created > 0 {
		event := events.NewEvent(events.TypeReminderBatch, events.ReminderBatchEvent{
			AssignmentsScanned: scanned,
			RemindersCreated:   created,
		})
		if err := s.publisher.Publish(ctx, events.TopicNotifications, event); err != nil {
			s.logger.Warn("Failed to publish reminder batch event", "error", err)
		}
	}

	s.logger.Info("Reminder tick completed",
		"assignments_scanned", scanned,
		"reminders_created", created)
	return nil
}

func (s *ReminderScheduler) remindForAssignment(ctx context.Context, txRepo repositories.Repository, assignment *models.Assignment, now time.Time) (int, error) {
	submittedIDs, err := txRepo.Submission().StudentIDsByAssignment(ctx, nil, assignment.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list submitted students: %w", err)
	}
	submitted := make(map[uint]bool, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = true
	}

	// No enrollment model yet: every student is a candidate.
	students, err := txRepo.Student().List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list students: %w", err)
	}

	hoursLeft := int(assignment.DueDate.Sub(now).Hours())
	message := fmt.Sprintf("Recordatorio: La tarea %q vence en %d horas", assignment.Title, hoursLeft)

	created := 0
	for _, student := range students {
		if submitted[student.ID] {
			continue
		}

		exists, err := txRepo.Notification().ExistsReminder(ctx, nil, student.UserID, assignment.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to check reminder: %w", err)
		}
		if exists {
			continue
		}

		assignmentID := assignment.ID
		notification := &models.Notification{
			UserID:       student.UserID,
			Kind:         models.NotificationDueReminder,
			Message:      message,
			AssignmentID: &assignmentID,
		}
		if err := txRepo.Notification().Create(ctx, nil, notification); err != nil {
			return 0, fmt.Errorf("failed to create reminder: %w", err)
		}
		created++
	}
	return created, nil
}
