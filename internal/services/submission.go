package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
)

// SubmissionPhase is the lifecycle of one submission attempt.
//
//	idle -> submitting -> succeeded | failed
//
// succeeded and failed may start a new attempt; submitting may not.
type SubmissionPhase string

const (
	PhaseIdle       SubmissionPhase = "idle"
	PhaseSubmitting SubmissionPhase = "submitting"
	PhaseSucceeded  SubmissionPhase = "succeeded"
	PhaseFailed     SubmissionPhase = "failed"
)

// SubmitOutcome tells the caller what a Submit call did.
type SubmitOutcome string

const (
	// OutcomeDropped means another submission was in flight and nothing was sent
	OutcomeDropped   SubmitOutcome = "dropped"
	OutcomeInvalid   SubmitOutcome = "invalid"
	OutcomeSucceeded SubmitOutcome = "succeeded"
	OutcomeFailed    SubmitOutcome = "failed"
)

// Submission Record columns that do not come from the field schema
const (
	ColumnSessionID   = "session_id"
	ColumnSubmittedAt = "submitted_at"
)

// Submitter delivers a Submission Record to the remote endpoint. *sheets.Client
// satisfies it.
type Submitter interface {
	Submit(ctx context.Context, record models.SubmissionRecord) (*models.SubmitResponse, error)
}

// Notifier surfaces submission outcomes to the user. Calls are fire-and-forget.
type Notifier interface {
	NotifySuccess(ctx context.Context, sessionID, responseID, message string)
	NotifyError(ctx context.Context, sessionID, message string, cause error)
}

type SubmitResult struct {
	Outcome    SubmitOutcome    `json:"outcome"`
	ResponseID string           `json:"response_id,omitempty"`
	Message    string           `json:"message,omitempty"`
	Errors     ValidationErrors `json:"errors,omitempty"`
	FocusField string           `json:"focus_field,omitempty"`
	Cause      error            `json:"-"`
}

// submissionGuard is the single-flight flag of a controller. It is only touched
// with the controller mutex held.
type submissionGuard struct {
	phase SubmissionPhase
}

func (g *submissionGuard) inFlight() bool {
	return g.phase == PhaseSubmitting
}

// acquire moves to submitting. It reports false when an attempt is already running.
func (g *submissionGuard) acquire() bool {
	if g.inFlight() {
		return false
	}
	g.phase = PhaseSubmitting
	return true
}

func (g *submissionGuard) release(succeeded bool) {
	if succeeded {
		g.phase = PhaseSucceeded
		return
	}
	g.phase = PhaseFailed
}

// BuildSubmissionRecord flattens the answers into the outbound payload. Every
// schema field gets a column; fields hidden by their controlling answer are blank.
func BuildSubmissionRecord(sessionID string, answers models.AnswerMap, at time.Time) models.SubmissionRecord {
	fields := models.Fields()
	record := make(models.SubmissionRecord, len(fields)+2)
	for _, f := range fields {
		if !f.Visible(answers) {
			record[f.Column] = ""
			continue
		}
		record[f.Column] = answers.Get(f.ID).Flatten()
	}
	record[ColumnSessionID] = sessionID
	record[ColumnSubmittedAt] = at.UTC().Format(time.RFC3339)
	return record
}
