package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/events"
)

// NotificationEventService surfaces survey outcomes by publishing events.
// Publishing never blocks or fails the caller; errors are only logged.
type NotificationEventService interface {
	Notifier
	NotifyReset(ctx context.Context, sessionID string)
}

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	now            func() time.Time
}

func NewNotificationEventService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *notificationEventService) NotifySuccess(ctx context.Context, sessionID, responseID, message string) {
	s.logger.Info("Survey submitted", "session_id", sessionID, "response_id", responseID)
	s.publish(ctx, events.NewSubmissionSucceededEvent(sessionID, responseID, message, s.now()))
}

func (s *notificationEventService) NotifyError(ctx context.Context, sessionID, message string, cause error) {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	s.logger.Warn("Survey submission failed", "session_id", sessionID, "reason", reason)
	s.publish(ctx, events.NewSubmissionFailedEvent(sessionID, message, reason, s.now()))
}

func (s *notificationEventService) NotifyReset(ctx context.Context, sessionID string) {
	s.publish(ctx, events.NewSessionResetEvent(sessionID, s.now()))
}

func (s *notificationEventService) publish(ctx context.Context, event *events.SurveyEvent) {
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish survey event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}
