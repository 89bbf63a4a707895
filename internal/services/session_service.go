package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/metrics"
	"github.com/SAP-F-2025/survey-service/internal/models"
)

const sessionKeyPrefix = "survey:session:"

// SessionService manages one FormController per respondent session. Every
// mutation is mirrored into the session cache so another instance, or this one
// after a restart, can pick the session up again.
type SessionService interface {
	Create(ctx context.Context) (*Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	View(ctx context.Context, id string) (*StepView, error)
	SetField(ctx context.Context, id, field string, value models.Value) (*Snapshot, error)
	SetFields(ctx context.Context, id string, values map[string]models.Value) (*Snapshot, error)
	Advance(ctx context.Context, id string) (*StepResult, *Snapshot, error)
	Retreat(ctx context.Context, id string) (*StepResult, *Snapshot, error)
	Submit(ctx context.Context, id string) (*SubmitResult, *Snapshot, error)
	Reset(ctx context.Context, id string) (*Snapshot, error)
	Delete(ctx context.Context, id string) error
	Receipt(ctx context.Context, id string) ([]byte, error)
}

type SessionConfig struct {
	TTL time.Duration
}

type sessionEntry struct {
	controller *FormController
	lastSeen   time.Time
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	cache     cache.CacheService
	submitter Submitter
	notifier  NotificationEventService
	receipts  ReceiptService
	metrics   *metrics.SurveyMetrics
	logger    *ServiceLogger
	ttl       time.Duration
	now       func() time.Time
}

func NewSessionService(
	cacheService cache.CacheService,
	submitter Submitter,
	notifier NotificationEventService,
	receipts ReceiptService,
	surveyMetrics *metrics.SurveyMetrics,
	logger *slog.Logger,
	config SessionConfig,
) SessionService {
	return &sessionService{
		sessions:  make(map[string]*sessionEntry),
		cache:     cacheService,
		submitter: submitter,
		notifier:  notifier,
		receipts:  receipts,
		metrics:   surveyMetrics,
		logger:    NewServiceLogger(logger, LogConfig{Service: "survey-service", Component: "sessions"}),
		ttl:       config.TTL,
		now:       time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	id := uuid.NewString()
	controller := NewFormController(id, s.submitter, s.notifier)

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{controller: controller, lastSeen: s.now()}
	count := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(count)

	snap := s.persist(ctx, controller)
	s.logger.LogOperation(ctx, "create_session", id, time.Since(start), nil)
	return snap, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*Snapshot, error) {
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, err
	}
	snap := controller.Snapshot()
	return &snap, nil
}

func (s *sessionService) View(ctx context.Context, id string) (*StepView, error) {
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, err
	}
	view := controller.View()
	return &view, nil
}

func (s *sessionService) SetField(ctx context.Context, id, field string, value models.Value) (*Snapshot, error) {
	start := time.Now()
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := controller.SetField(field, value); err != nil {
		s.logger.LogOperation(ctx, "set_field", id, time.Since(start), err)
		return nil, err
	}
	return s.persist(ctx, controller), nil
}

func (s *sessionService) SetFields(ctx context.Context, id string, values map[string]models.Value) (*Snapshot, error) {
	start := time.Now()
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := controller.SetFields(values); err != nil {
		s.logger.LogOperation(ctx, "set_fields", id, time.Since(start), err)
		return nil, err
	}
	return s.persist(ctx, controller), nil
}

func (s *sessionService) Advance(ctx context.Context, id string) (*StepResult, *Snapshot, error) {
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	result := controller.Advance()
	s.metrics.ObserveNavigation("advance", result.Moved)
	if len(result.Errors) > 0 {
		s.logger.LogValidationError(ctx, "advance", id, result.Step, result.Errors)
	}
	return &result, s.persist(ctx, controller), nil
}

func (s *sessionService) Retreat(ctx context.Context, id string) (*StepResult, *Snapshot, error) {
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	result := controller.Retreat()
	s.metrics.ObserveNavigation("retreat", result.Moved)
	return &result, s.persist(ctx, controller), nil
}

func (s *sessionService) Submit(ctx context.Context, id string) (*SubmitResult, *Snapshot, error) {
	start := time.Now()
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result, err := controller.Submit(ctx)
	if err != nil {
		s.logger.LogOperation(ctx, "submit", id, time.Since(start), err)
		return nil, nil, err
	}

	elapsed := time.Since(start)
	s.metrics.ObserveSubmission(string(result.Outcome), elapsed.Seconds())
	s.logger.LogSubmission(ctx, id, result, elapsed)
	var panicErr *PanicError
	if errors.As(result.Cause, &panicErr) {
		s.logger.LogRecovery(ctx, "submit", id, panicErr.Value, panicErr.Stack)
	}

	// Deleted while the request was in flight: do not write it back.
	if !s.live(id, controller) {
		snap := controller.Snapshot()
		return &result, &snap, nil
	}
	return &result, s.persist(ctx, controller), nil
}

func (s *sessionService) Reset(ctx context.Context, id string) (*Snapshot, error) {
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, err
	}
	controller.Reset()
	s.notifier.NotifyReset(ctx, id)
	return s.persist(ctx, controller), nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.controller(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(count)

	if err := s.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// Receipt exports the record that was sent for a submitted session.
func (s *sessionService) Receipt(ctx context.Context, id string) ([]byte, error) {
	controller, err := s.controller(ctx, id)
	if err != nil {
		return nil, err
	}
	snap := controller.Snapshot()
	if !snap.Submitted || snap.Record == nil {
		return nil, fmt.Errorf("%w: session %s has not been submitted", ErrConflict, id)
	}
	return s.receipts.Export(ctx, snap)
}

// Sweep drops in-memory sessions idle for longer than the TTL. Sessions with a
// submission in flight are kept. The cache copy expires on its own.
func (s *sessionService) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	removed := 0
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) < s.ttl || entry.controller.Submitting() {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	return removed
}

// RunJanitor calls Sweep every interval until ctx is done.
func RunJanitor(ctx context.Context, sessions SessionService, interval time.Duration) {
	sweeper, ok := sessions.(interface{ Sweep(time.Time) int })
	if !ok || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sweeper.Sweep(now)
		}
	}
}

// controller finds a live controller, falling back to the cache.
func (s *sessionService) controller(ctx context.Context, id string) (*FormController, error) {
	s.mu.Lock()
	if entry, ok := s.sessions[id]; ok {
		entry.lastSeen = s.now()
		s.mu.Unlock()
		return entry.controller, nil
	}
	s.mu.Unlock()

	var snap Snapshot
	if err := s.cache.Get(ctx, sessionKey(id), &snap); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	snap.SessionID = id
	restored := RestoreFormController(snap, s.submitter, s.notifier)

	s.mu.Lock()
	defer s.mu.Unlock()
	// another request may have restored it first
	if entry, ok := s.sessions[id]; ok {
		entry.lastSeen = s.now()
		return entry.controller, nil
	}
	s.sessions[id] = &sessionEntry{controller: restored, lastSeen: s.now()}
	s.metrics.SetActiveSessions(len(s.sessions))
	return restored, nil
}

// live reports whether controller is still the one registered for id.
func (s *sessionService) live(id string, controller *FormController) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	return ok && entry.controller == controller
}

// persist mirrors the controller into the cache. The in-memory controller is
// authoritative, so a cache failure is logged and not returned.
func (s *sessionService) persist(ctx context.Context, controller *FormController) *Snapshot {
	snap := controller.Snapshot()
	if err := s.cache.Set(ctx, sessionKey(snap.SessionID), snap, s.ttl); err != nil {
		s.logger.logger.WarnContext(ctx, "Failed to mirror session to cache",
			"session_id", snap.SessionID, "error", err)
	}
	return &snap
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
