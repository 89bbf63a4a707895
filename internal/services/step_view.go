package services

import (
	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/validator"
)

// stepSection keeps what a step shows next to how it is validated.
type stepSection struct {
	descriptor models.StepDescriptor
	fields     []models.FieldDefinition
	validate   validator.StepValidator
}

// sections is keyed by step id and built once from the schema and the validator registry.
var sections = buildSections()

func buildSections() map[int]stepSection {
	out := make(map[int]stepSection, models.StepCount())
	for _, d := range models.Steps() {
		validate, ok := validator.StepValidatorFor(d.ID)
		if !ok {
			panic("services: no validator registered for step " + d.Title)
		}
		out[d.ID] = stepSection{
			descriptor: d,
			fields:     models.StepFields(d.ID),
			validate:   validate,
		}
	}
	return out
}

func sectionFor(step int) stepSection {
	return sections[step]
}

// FieldView is one rendered field with its current value and error.
type FieldView struct {
	models.FieldDefinition
	Value models.Value `json:"value"`
	Error string       `json:"error,omitempty"`
}

// StepView is everything needed to draw the current page.
type StepView struct {
	SessionID  string                `json:"session_id"`
	Step       models.StepDescriptor `json:"step"`
	StepCount  int                   `json:"step_count"`
	IsFirst    bool                  `json:"is_first"`
	IsLast     bool                  `json:"is_last"`
	Fields     []FieldView           `json:"fields"`
	FocusField string                `json:"focus_field,omitempty"`
	Submitting bool                  `json:"submitting"`
	Submitted  bool                  `json:"submitted"`
	ResponseID string                `json:"response_id,omitempty"`
}

// render builds the view of a step. Fields hidden by their controlling answer
// are left out.
func (s stepSection) render(answers models.AnswerMap, errs ValidationErrors) []FieldView {
	messages := errs.ToMap()
	views := make([]FieldView, 0, len(s.fields))
	for _, f := range s.fields {
		if !f.Visible(answers) {
			continue
		}
		views = append(views, FieldView{
			FieldDefinition: f,
			Value:           answers.Get(f.ID).Clone(),
			Error:           messages[f.ID],
		})
	}
	return views
}
