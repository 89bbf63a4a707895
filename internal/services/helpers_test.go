package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/survey-service/internal/models"
)

// filledAnswers is a complete, valid fill with both conditional branches taken.
func filledAnswers() map[string]models.Value {
	return map[string]models.Value{
		models.FieldAge:        models.Text("25-30"),
		models.FieldGender:     models.Text("female"),
		models.FieldEducation:  models.Text("MBBS"),
		models.FieldOccupation: models.Text("Student"),

		models.FieldWorkStudyChange:      models.Text("yes"),
		models.FieldSocialLifeImpact:     models.Text("very_negative"),
		models.FieldWorkedFromHomeBefore: models.Text("no"),
		models.FieldDailyRoutineImpact:   models.Choices("significant", "other"),
		models.FieldDailyRoutineOther:    models.Text("  night shifts  "),

		models.FieldVaccinated:           models.Text("yes"),
		models.FieldPreventivePractice:   models.Text("always"),
		models.FieldVaccineEffectiveness: models.Text("strongly_agree"),
		models.FieldVaccineType:          models.Text("covishield"),
		models.FieldCovidTested:          models.Text("yes"),
		models.FieldTestType:             models.Text("rt_pcr"),
		models.FieldDoseCount:            models.Text("2"),

		models.FieldMentalHealthImpact:     models.Text("moderate_negative"),
		models.FieldAnxietyLevel:           models.Text("sometimes"),
		models.FieldSoughtHelp:             models.Text("no"),
		models.FieldHealthcareAccessible:   models.Text("yes"),
		models.FieldFacedShortage:          models.Text("no"),
		models.FieldHealthcareSatisfaction: models.Text("4"),

		models.FieldIncomeImpact:        models.Text("not_much"),
		models.FieldFinancialDifficulty: models.Text("yes"),
		models.FieldSpendingHabit:       models.Text("decreased"),

		models.FieldOpenExperience: models.Text("It was hard."),
		models.FieldInfoSource:     models.Text("News"),
	}
}

// fillToFinalStep answers everything and walks the controller to the last step.
func fillToFinalStep(t *testing.T, c *FormController) {
	t.Helper()
	require.NoError(t, c.SetFields(filledAnswers()))
	for step := models.FirstStep; step < models.LastStep; step++ {
		result := c.Advance()
		require.Empty(t, result.Errors, "step %d", step)
	}
	require.Equal(t, models.LastStep, c.Snapshot().CurrentStep)
}

// fakeSubmitter records every call. When block is set each call waits for a
// value on release after signalling started.
type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	records []models.SubmissionRecord
	ctxErrs []error

	resp        *models.SubmitResponse
	err         error
	shouldPanic bool

	block   bool
	started chan struct{}
	release chan struct{}
}

func newFakeSubmitter(responseID string) *fakeSubmitter {
	return &fakeSubmitter{
		resp:    &models.SubmitResponse{Success: true, Message: "Saved", ResponseID: responseID},
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (f *fakeSubmitter) Submit(ctx context.Context, record models.SubmissionRecord) (*models.SubmitResponse, error) {
	f.mu.Lock()
	f.calls++
	f.records = append(f.records, record)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()

	if f.block {
		f.started <- struct{}{}
		<-f.release
	}
	if f.shouldPanic {
		panic("boom")
	}
	return f.resp, f.err
}

func (f *fakeSubmitter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type notification struct {
	kind       string
	sessionID  string
	responseID string
	message    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) NotifySuccess(ctx context.Context, sessionID, responseID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{kind: "success", sessionID: sessionID, responseID: responseID, message: message})
}

func (n *recordingNotifier) NotifyError(ctx context.Context, sessionID, message string, cause error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{kind: "error", sessionID: sessionID, message: message})
}

func (n *recordingNotifier) NotifyReset(ctx context.Context, sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{kind: "reset", sessionID: sessionID})
}

func (n *recordingNotifier) Sent() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}
