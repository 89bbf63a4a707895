package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime/debug"
	"sync"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
)

// FormController owns the state of one survey fill: the current step, the
// answers, the errors of the last validation and the submission lifecycle.
// All methods are safe for concurrent use.
type FormController struct {
	mu sync.Mutex

	id             string
	currentStep    int
	answers        models.AnswerMap
	errors         ValidationErrors
	focusField     string
	guard          submissionGuard
	submitted      bool
	lastResponseID string
	// sentRecord is the payload of the successful submission of this fill
	sentRecord models.SubmissionRecord
	// fill counts resets so a reply for an abandoned fill is not applied to the new one
	fill int

	submitter Submitter
	notifier  Notifier
	now       func() time.Time
}

// StepResult describes the outcome of a navigation attempt.
type StepResult struct {
	Step       int              `json:"step"`
	Moved      bool             `json:"moved"`
	Errors     ValidationErrors `json:"errors,omitempty"`
	FocusField string           `json:"focus_field,omitempty"`
}

// Snapshot is the serializable state of a controller.
type Snapshot struct {
	SessionID   string           `json:"session_id"`
	CurrentStep int              `json:"current_step"`
	StepCount   int              `json:"step_count"`
	Answers     models.AnswerMap `json:"answers"`
	Errors      models.ErrorMap  `json:"errors"`
	FieldErrors ValidationErrors `json:"field_errors"`
	FocusField  string           `json:"focus_field,omitempty"`
	Phase       SubmissionPhase  `json:"phase"`
	Submitting  bool             `json:"submitting"`
	Submitted   bool             `json:"submitted"`
	ResponseID  string           `json:"response_id,omitempty"`
	// Record is what was sent to the sheet, set once the fill is submitted
	Record models.SubmissionRecord `json:"record,omitempty"`
}

func NewFormController(id string, submitter Submitter, notifier Notifier) *FormController {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &FormController{
		id:          id,
		currentStep: models.FirstStep,
		answers:     models.InitialAnswers(),
		errors:      ValidationErrors{},
		guard:       submissionGuard{phase: PhaseIdle},
		submitter:   submitter,
		notifier:    notifier,
		now:         time.Now,
	}
}

// RestoreFormController rebuilds a controller from a snapshot. Unknown answer
// keys are ignored, out-of-range steps are clamped, and an attempt that was in
// flight when the snapshot was taken is treated as failed.
func RestoreFormController(snap Snapshot, submitter Submitter, notifier Notifier) *FormController {
	c := NewFormController(snap.SessionID, submitter, notifier)

	c.currentStep = clampStep(snap.CurrentStep)
	for key, value := range snap.Answers {
		def, ok := models.LookupField(key)
		if !ok {
			continue
		}
		if normalized, err := normalizeValue(def, value); err == nil {
			c.answers[key] = normalized
		}
	}
	if snap.FieldErrors != nil {
		c.errors = append(ValidationErrors{}, snap.FieldErrors...)
	}
	c.focusField = snap.FocusField
	c.submitted = snap.Submitted
	c.lastResponseID = snap.ResponseID
	if snap.Submitted {
		c.sentRecord = maps.Clone(snap.Record)
	}

	switch snap.Phase {
	case PhaseSucceeded, PhaseFailed:
		c.guard.phase = snap.Phase
	case PhaseSubmitting:
		c.guard.phase = PhaseFailed
	}
	return c
}

func (c *FormController) ID() string {
	return c.id
}

// SetField overwrites one answer. It never validates.
func (c *FormController) SetField(key string, value models.Value) error {
	def, ok := models.LookupField(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	normalized, err := normalizeValue(def, value)
	if err != nil {
		return fmt.Errorf("%w: %s", err, key)
	}

	c.mu.Lock()
	c.answers[key] = normalized
	c.mu.Unlock()
	return nil
}

// SetFields applies several answers at once. Nothing is written unless every
// key and value is acceptable.
func (c *FormController) SetFields(values map[string]models.Value) error {
	normalized := make(map[string]models.Value, len(values))
	for key, value := range values {
		def, ok := models.LookupField(key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		v, err := normalizeValue(def, value)
		if err != nil {
			return fmt.Errorf("%w: %s", err, key)
		}
		normalized[key] = v
	}

	c.mu.Lock()
	for key, v := range normalized {
		c.answers[key] = v
	}
	c.mu.Unlock()
	return nil
}

// Advance validates the current step and moves forward when it is clean.
func (c *FormController) Advance() StepResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if errs := c.validateCurrentStep(); len(errs) > 0 {
		return StepResult{Step: c.currentStep, Errors: errs, FocusField: c.focusField}
	}

	previous := c.currentStep
	c.currentStep = clampStep(c.currentStep + 1)
	return StepResult{Step: c.currentStep, Moved: c.currentStep != previous}
}

// Retreat moves back one step and drops any errors. It never validates.
func (c *FormController) Retreat() StepResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearErrors()
	previous := c.currentStep
	c.currentStep = clampStep(c.currentStep - 1)
	return StepResult{Step: c.currentStep, Moved: c.currentStep != previous}
}

// Submit validates the final step and sends the Submission Record. At most one
// attempt runs at a time; a call made while one is in flight returns
// OutcomeDropped without touching the network. The request runs to completion
// even if ctx is cancelled.
func (c *FormController) Submit(ctx context.Context) (SubmitResult, error) {
	c.mu.Lock()
	if c.guard.inFlight() {
		c.mu.Unlock()
		return SubmitResult{Outcome: OutcomeDropped}, nil
	}
	if c.currentStep != models.LastStep {
		c.mu.Unlock()
		return SubmitResult{}, ErrNotOnFinalStep
	}
	if c.submitted {
		c.mu.Unlock()
		return SubmitResult{}, ErrAlreadySubmitted
	}
	if errs := c.validateCurrentStep(); len(errs) > 0 {
		focus := c.focusField
		c.mu.Unlock()
		return SubmitResult{Outcome: OutcomeInvalid, Errors: errs, FocusField: focus}, nil
	}
	c.guard.acquire()
	fill := c.fill
	record := BuildSubmissionRecord(c.id, c.answers, c.now())
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	resp, err := c.send(ctx, record)

	c.mu.Lock()
	if err != nil {
		c.guard.release(false)
		c.mu.Unlock()

		c.notifier.NotifyError(ctx, c.id, MsgServerUnreachable, err)
		return SubmitResult{
			Outcome: OutcomeFailed,
			Message: MsgServerUnreachable,
			Cause:   fmt.Errorf("%w: %w", ErrServerUnreachable, err),
		}, nil
	}
	c.guard.release(true)
	if fill == c.fill {
		c.submitted = true
		c.lastResponseID = resp.ResponseID
		c.sentRecord = record
	}
	c.mu.Unlock()

	c.notifier.NotifySuccess(ctx, c.id, resp.ResponseID, resp.Message)
	return SubmitResult{Outcome: OutcomeSucceeded, ResponseID: resp.ResponseID, Message: resp.Message}, nil
}

// PanicError is the failure cause reported when the submitter panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("submitter panicked: %v", e.Value)
}

// send calls the submitter and turns a panic or an empty reply into an error so
// the guard is always released.
func (c *FormController) send(ctx context.Context, record models.SubmissionRecord) (resp *models.SubmitResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	resp, err = c.submitter.Submit(ctx, record)
	if err == nil && (resp == nil || !resp.Success) {
		err = errors.New("submitter returned no success response")
	}
	return resp, err
}

// Reset starts a new fill. The submission phase is left alone so an attempt
// still in flight keeps blocking duplicates.
func (c *FormController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fill++
	c.answers = models.InitialAnswers()
	c.clearErrors()
	c.currentStep = models.FirstStep
	c.submitted = false
	c.lastResponseID = ""
	c.sentRecord = nil
}

func (c *FormController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		SessionID:   c.id,
		CurrentStep: c.currentStep,
		StepCount:   models.StepCount(),
		Answers:     c.answers.Clone(),
		Errors:      models.ErrorMap(c.errors.ToMap()),
		FieldErrors: append(ValidationErrors{}, c.errors...),
		FocusField:  c.focusField,
		Phase:       c.guard.phase,
		Submitting:  c.guard.inFlight(),
		Submitted:   c.submitted,
		ResponseID:  c.lastResponseID,
		Record:      maps.Clone(c.sentRecord),
	}
}

// View renders the current step.
func (c *FormController) View() StepView {
	c.mu.Lock()
	defer c.mu.Unlock()

	section := sectionFor(c.currentStep)
	return StepView{
		SessionID:  c.id,
		Step:       section.descriptor,
		StepCount:  models.StepCount(),
		IsFirst:    c.currentStep == models.FirstStep,
		IsLast:     c.currentStep == models.LastStep,
		Fields:     section.render(c.answers, c.errors),
		FocusField: c.focusField,
		Submitting: c.guard.inFlight(),
		Submitted:  c.submitted,
		ResponseID: c.lastResponseID,
	}
}

// Submitting reports whether an attempt is in flight.
func (c *FormController) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guard.inFlight()
}

// validateCurrentStep replaces the stored errors. Must hold c.mu.
func (c *FormController) validateCurrentStep() ValidationErrors {
	errs := sectionFor(c.currentStep).validate(c.answers)
	c.errors = errs
	c.focusField = errs.First()
	return errs
}

func (c *FormController) clearErrors() {
	c.errors = ValidationErrors{}
	c.focusField = ""
}

type nopNotifier struct{}

func (nopNotifier) NotifySuccess(context.Context, string, string, string) {}
func (nopNotifier) NotifyError(context.Context, string, string, error)    {}

func clampStep(step int) int {
	if step < models.FirstStep {
		return models.FirstStep
	}
	if step > models.LastStep {
		return models.LastStep
	}
	return step
}

// normalizeValue fits a value to the field kind: a scalar given to a
// multi-select becomes a one-element set, a set given to a scalar is rejected.
func normalizeValue(def models.FieldDefinition, value models.Value) (models.Value, error) {
	if def.Kind.IsMulti() {
		if value.Multi {
			return models.Choices(value.Choices...), nil
		}
		return models.Choices(value.Text), nil
	}
	if value.Multi {
		return models.Value{}, ErrFieldKindMismatch
	}
	return value, nil
}
