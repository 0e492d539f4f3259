package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UDLA-2025/assignment-service/internal/cache"
	"github.com/UDLA-2025/assignment-service/internal/events"
	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

type notificationService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.Validator
	publisher    events.EventPublisher
	cacheManager *cache.CacheManager
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager) NotificationService {
	return &notificationService{
		repo:         repo,
		logger:       logger,
		validator:    validator,
		publisher:    publisher,
		cacheManager: cacheManager,
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	notifications, err := s.repo.Notification().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	cacheKey := fmt.Sprintf("unread:%d", userID)
	var count int64

	err := s.cacheManager.Notification.CacheOrExecute(ctx, cacheKey, &count, cache.NotificationCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Notification().CountUnread(ctx, nil, userID)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	// Ownership check doubles as the 404 gate.
	if _, err := s.repo.Notification().GetByIDForUser(ctx, nil, notificationID, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if err := s.repo.Notification().MarkRead(ctx, nil, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	s.cacheManager.InvalidateNotifications(ctx, userID)
	return nil
}

func (s *notificationService) Create(ctx context.Context, req *validator.NotificationCreateRequest) (*models.Notification, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.repo.User().GetByID(ctx, nil, req.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, req.UserID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Kind:    models.NotificationGeneric,
		Message: req.Message,
	}
	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.cacheManager.InvalidateNotifications(ctx, req.UserID)

	event := events.NewEvent(events.TypeNotificationSent, events.NotificationEvent{
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Kind:           string(notification.Kind),
		Message:        notification.Message,
	})
	if err := s.publisher.Publish(ctx, events.TopicNotifications, event); err != nil {
		s.logger.Warn("Failed to publish notification event",
			"notification_id", notification.ID,
			"error", err)
	}

	s.logger.Info("Notification created",
		"notification_id", notification.ID,
		"user_id", notification.UserID)

	return notification, nil
}
