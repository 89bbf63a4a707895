package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of survey notification events
type EventType string

const (
	// Submission events
	EventSubmissionSucceeded EventType = "survey.submission.succeeded"
	EventSubmissionFailed    EventType = "survey.submission.failed"

	// Session events
	EventSessionReset EventType = "survey.session.reset"
)

const (
	eventSource  = "survey-service"
	eventVersion = "1.0"
)

// SurveyEvent is the envelope for every event published by the service
type SurveyEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type SubmissionSucceededEvent struct {
	SessionID   string    `json:"session_id"`
	ResponseID  string    `json:"response_id"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SubmissionFailedEvent struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Reason    string    `json:"reason"`
	FailedAt  time.Time `json:"failed_at"`
}

type SessionResetEvent struct {
	SessionID string    `json:"session_id"`
	ResetAt   time.Time `json:"reset_at"`
}

// Event factory functions

func NewSubmissionSucceededEvent(sessionID, responseID, message string, at time.Time) *SurveyEvent {
	return newEvent(EventSubmissionSucceeded, SubmissionSucceededEvent{
		SessionID:   sessionID,
		ResponseID:  responseID,
		Message:     message,
		SubmittedAt: at,
	})
}

func NewSubmissionFailedEvent(sessionID, message, reason string, at time.Time) *SurveyEvent {
	return newEvent(EventSubmissionFailed, SubmissionFailedEvent{
		SessionID: sessionID,
		Message:   message,
		Reason:    reason,
		FailedAt:  at,
	})
}

func NewSessionResetEvent(sessionID string, at time.Time) *SurveyEvent {
	return newEvent(EventSessionReset, SessionResetEvent{
		SessionID: sessionID,
		ResetAt:   at,
	})
}

func newEvent(eventType EventType, data interface{}) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// GenerateEventID returns a unique event id
func GenerateEventID() string {
	return uuid.NewString()
}
