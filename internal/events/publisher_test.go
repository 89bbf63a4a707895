package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	event := NewSubmissionSucceededEvent("sess-1", "R-42", "Saved", time.Now())
	require.NoError(t, publisher.Publish(ctx, event))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, EventSubmissionSucceeded, published[0].Type)
	assert.Equal(t, "survey-service", published[0].Source)

	data, ok := published[0].Data.(SubmissionSucceededEvent)
	require.True(t, ok)
	assert.Equal(t, "R-42", data.ResponseID)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestMockEventPublisher_Err(t *testing.T) {
	publisher := NewMockEventPublisher(nil)
	publisher.Err = errors.New("broker down")

	err := publisher.Publish(context.Background(), NewSessionResetEvent("sess-1", time.Now()))
	assert.EqualError(t, err, "broker down")
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestNewMessage(t *testing.T) {
	event := NewSubmissionFailedEvent("sess-2", "server unreachable", "status 500", time.Now())

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.ID, msg.UUID)
	assert.Equal(t, string(EventSubmissionFailed), msg.Metadata.Get("event_type"))
	assert.Equal(t, "1.0", msg.Metadata.Get("version"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, "survey.submission.failed", decoded["type"])
}

func TestGenerateEventID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateEventID(), GenerateEventID())
}
