package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UDLA-2025/assignment-service/internal/cache"
	"github.com/UDLA-2025/assignment-service/internal/config"
	"github.com/UDLA-2025/assignment-service/internal/events"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

// serviceManager wires every service to its dependencies and owns their
// lifecycle.
type serviceManager struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.Validator
	publisher    events.EventPublisher
	cacheManager *cache.CacheManager
	generator    TextGenerator
	cfg          *config.Config

	authService         AuthService
	courseService       CourseService
	assignmentService   AssignmentService
	submissionService   SubmissionService
	aiFeedbackService   AIFeedbackService
	notificationService NotificationService
	exportService       ExportService

	initialized bool
	mu          sync.RWMutex
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager, generator TextGenerator, cfg *config.Config) ServiceManager {
	return &serviceManager{
		repo:         repo,
		logger:       logger,
		validator:    validator,
		publisher:    publisher,
		cacheManager: cacheManager,
		generator:    generator,
		cfg:          cfg,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.logger, sm.validator, sm.cfg.JWT)
	sm.courseService = NewCourseService(sm.repo, sm.logger, sm.validator)
	sm.assignmentService = NewAssignmentService(sm.repo, sm.logger, sm.validator)
	sm.submissionService = NewSubmissionService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.cacheManager)
	sm.aiFeedbackService = NewAIFeedbackService(sm.repo, sm.logger, sm.generator)
	sm.notificationService = NewNotificationService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.cacheManager)
	sm.exportService = NewExportService(sm.repo, sm.logger, sm.submissionService)

	sm.initialized = true
	sm.logger.Info("Service manager initialized")
	return nil
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("Shutting down service manager")
	if err := sm.publisher.Close(); err != nil {
		sm.logger.Warn("Failed to close event publisher", "error", err)
	}

	sm.initialized = false
	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Course() CourseService {
	sm.mustBeInitialized()
	return sm.courseService
}

func (sm *serviceManager) Assignment() AssignmentService {
	sm.mustBeInitialized()
	return sm.assignmentService
}

func (sm *serviceManager) Submission() SubmissionService {
	sm.mustBeInitialized()
	return sm.submissionService
}

func (sm *serviceManager) AIFeedback() AIFeedbackService {
	sm.mustBeInitialized()
	return sm.aiFeedbackService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mustBeInitialized()
	return sm.notificationService
}

func (sm *serviceManager) Export() ExportService {
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}
