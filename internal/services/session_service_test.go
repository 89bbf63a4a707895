package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/survey-service/internal/cache"
	"github.com/SAP-F-2025/survey-service/internal/metrics"
	"github.com/SAP-F-2025/survey-service/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSessionService(store cache.CacheService, sub Submitter) (*sessionService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewSessionService(
		store,
		sub,
		notifier,
		NewReceiptService(discardLogger()),
		metrics.NewSurveyMetrics(prometheus.NewRegistry()),
		discardLogger(),
		SessionConfig{TTL: time.Hour},
	)
	return svc.(*sessionService), notifier
}

func walkToFinalStep(t *testing.T, svc SessionService, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.SetFields(ctx, id, filledAnswers())
	require.NoError(t, err)
	for i := models.FirstStep; i < models.LastStep; i++ {
		result, _, err := svc.Advance(ctx, id)
		require.NoError(t, err)
		require.True(t, result.Moved)
	}
}

func TestSessionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	sub := newFakeSubmitter("R-55")
	svc, notifier := newTestSessionService(cache.NewMemoryCache(), sub)

	snap, err := svc.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, snap.SessionID)
	id := snap.SessionID

	walkToFinalStep(t, svc, id)

	result, after, err := svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSucceeded, result.Outcome)
	assert.True(t, after.Submitted)
	assert.Equal(t, "R-55", after.ResponseID)

	snap, err = svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentStep)
	assert.False(t, snap.Submitted)

	kinds := []string{}
	for _, n := range notifier.Sent() {
		kinds = append(kinds, n.kind)
	}
	assert.Equal(t, []string{"success", "reset"}, kinds)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_UnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(cache.NewMemoryCache(), newFakeSubmitter("R"))

	_, err := svc.Get(ctx, "missing")
	assert.True(t, IsNotFound(err))

	_, _, err = svc.Advance(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrSessionNotFound)
}

func TestSessionService_RestoresFromRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := cache.NewRedisCache(client, discardLogger())

	first, _ := newTestSessionService(store, newFakeSubmitter("R"))
	snap, err := first.Create(ctx)
	require.NoError(t, err)
	id := snap.SessionID

	_, err = first.SetField(ctx, id, models.FieldAge, models.Text("25-30"))
	require.NoError(t, err)
	_, _, err = first.Advance(ctx, id)
	require.NoError(t, err)

	// a second instance sharing the cache picks the session up
	second, _ := newTestSessionService(store, newFakeSubmitter("R"))
	got, err := second.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, 1, got.CurrentStep)
	assert.Equal(t, "25-30", got.Answers[models.FieldAge].Text)
	assert.Equal(t, []string{"gender", "education", "occupation"}, got.FieldErrors.Fields())
	assert.Equal(t, "gender", got.FocusField)
	assert.True(t, mr.Exists(sessionKey(id)))
}

func TestSessionService_SubmitNotOnFinalStep(t *testing.T) {
	ctx := context.Background()
	sub := newFakeSubmitter("R")
	svc, _ := newTestSessionService(cache.NewMemoryCache(), sub)
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	_, _, err = svc.Submit(ctx, snap.SessionID)

	assert.ErrorIs(t, err, ErrNotOnFinalStep)
	assert.Equal(t, 0, sub.Calls())
}

func TestSessionService_SetFieldErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(cache.NewMemoryCache(), newFakeSubmitter("R"))
	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.SetField(ctx, snap.SessionID, "unknown", models.Text("x"))
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = svc.SetField(ctx, snap.SessionID, models.FieldAge, models.Choices("a", "b"))
	assert.ErrorIs(t, err, ErrFieldKindMismatch)
}

func TestSessionService_Receipt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(cache.NewMemoryCache(), newFakeSubmitter("R-9"))
	snap, err := svc.Create(ctx)
	require.NoError(t, err)
	id := snap.SessionID

	_, err = svc.Receipt(ctx, id)
	assert.True(t, IsConflict(err))

	walkToFinalStep(t, svc, id)
	_, _, err = svc.Submit(ctx, id)
	require.NoError(t, err)

	data, err := svc.Receipt(ctx, id)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(receiptSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Confirmation", rows[0][0])
	assert.Equal(t, "R-9", rows[1][0])
	assert.Equal(t, "Age", rows[0][1])
	assert.Equal(t, "25-30", rows[1][1])
}

func TestSessionService_ReceiptShowsSentRecord(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	svc, _ := newTestSessionService(store, newFakeSubmitter("R-1"))
	snap, err := svc.Create(ctx)
	require.NoError(t, err)
	id := snap.SessionID

	walkToFinalStep(t, svc, id)
	_, _, err = svc.Submit(ctx, id)
	require.NoError(t, err)
	_, err = svc.SetField(ctx, id, models.FieldEducation, models.Text("EDITED"))
	require.NoError(t, err)

	readRow := func(data []byte) []string {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(receiptSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "Education", rows[0][3])
		return rows[1]
	}

	data, err := svc.Receipt(ctx, id)
	require.NoError(t, err)
	row := readRow(data)
	assert.Equal(t, "R-1", row[0])
	assert.Equal(t, "MBBS", row[3])

	// another instance restoring from the cache exports the same record
	other, _ := newTestSessionService(store, newFakeSubmitter("R-1"))
	data, err = other.Receipt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "MBBS", readRow(data)[3])
}

func TestSessionService_DeleteDuringSubmit(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	sub := newFakeSubmitter("R-1")
	sub.block = true
	svc, _ := newTestSessionService(store, sub)
	snap, err := svc.Create(ctx)
	require.NoError(t, err)
	id := snap.SessionID
	walkToFinalStep(t, svc, id)

	done := make(chan *SubmitResult, 1)
	go func() {
		result, _, err := svc.Submit(ctx, id)
		assert.NoError(t, err)
		done <- result
	}()

	select {
	case <-sub.started:
	case <-time.After(2 * time.Second):
		t.Fatal("submission never reached the submitter")
	}
	require.NoError(t, svc.Delete(ctx, id))
	close(sub.release)

	result := <-done
	assert.Equal(t, OutcomeSucceeded, result.Outcome)

	var cached Snapshot
	assert.ErrorIs(t, store.Get(ctx, sessionKey(id), &cached), cache.ErrCacheMiss)
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_SubmitPanicIsLogged(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	sub := newFakeSubmitter("R-1")
	sub.shouldPanic = true
	svc := NewSessionService(
		cache.NewMemoryCache(),
		sub,
		&recordingNotifier{},
		NewReceiptService(discardLogger()),
		nil,
		slog.New(slog.NewJSONHandler(&buf, nil)),
		SessionConfig{TTL: time.Hour},
	)
	snap, err := svc.Create(ctx)
	require.NoError(t, err)
	walkToFinalStep(t, svc, snap.SessionID)

	result, _, err := svc.Submit(ctx, snap.SessionID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Contains(t, buf.String(), `"msg":"Panic recovered"`)
	assert.Contains(t, buf.String(), `"panic_value":"boom"`)
}

func TestSessionService_Sweep(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(cache.NewMemoryCache(), newFakeSubmitter("R"))
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale, err := svc.Create(ctx)
	require.NoError(t, err)
	now = now.Add(50 * time.Minute)
	fresh, err := svc.Create(ctx)
	require.NoError(t, err)

	removed := svc.Sweep(now.Add(20 * time.Minute))

	assert.Equal(t, 1, removed)
	svc.mu.RLock()
	_, staleLive := svc.sessions[stale.SessionID]
	_, freshLive := svc.sessions[fresh.SessionID]
	svc.mu.RUnlock()
	assert.False(t, staleLive)
	assert.True(t, freshLive)

	// the swept session is still recoverable from the cache
	_, err = svc.Get(ctx, stale.SessionID)
	assert.NoError(t, err)
}
