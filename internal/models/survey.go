package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type FieldKind string

const (
	FieldSelect      FieldKind = "select"
	FieldRadio       FieldKind = "radio"
	FieldText        FieldKind = "text"
	FieldTextarea    FieldKind = "textarea"
	FieldMultiSelect FieldKind = "multi_select"
)

// IsMulti reports whether values of this kind are sets of choices.
func (k FieldKind) IsMulti() bool {
	return k == FieldMultiSelect
}

// IsFreeText reports whether the field holds user-typed text that is trimmed before checks.
func (k FieldKind) IsFreeText() bool {
	return k == FieldText || k == FieldTextarea
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StepDescriptor is one of the ordered survey sections.
type StepDescriptor struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Condition makes a field visible only when another field holds a given choice.
type Condition struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// Met reports whether the controlling field currently holds the expected choice.
// For multi-select controllers the choice only needs to be one of the selections.
func (c *Condition) Met(answers AnswerMap) bool {
	if c == nil {
		return true
	}
	return answers.Get(c.Field).Has(c.Equals)
}

type FieldDefinition struct {
	ID          string     `json:"id"`
	Step        int        `json:"step"`
	Label       string     `json:"label"`
	Kind        FieldKind  `json:"kind"`
	Required    bool       `json:"required"`
	Placeholder string     `json:"placeholder,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	VisibleWhen *Condition `json:"visible_when,omitempty"`
	Column      string     `json:"column"`
}

// Value is a single answer: either a scalar string or a set of selected choices.
type Value struct {
	Text    string
	Choices []string
	Multi   bool
}

func Text(s string) Value {
	return Value{Text: s}
}

// Choices builds a multi-select value, dropping blanks and duplicates while keeping order.
func Choices(items ...string) Value {
	v := Value{Multi: true, Choices: []string{}}
	for _, item := range items {
		if item == "" || v.Has(item) {
			continue
		}
		v.Choices = append(v.Choices, item)
	}
	return v
}

// IsEmpty reports whether the value holds nothing. Scalars are checked verbatim.
func (v Value) IsEmpty() bool {
	if v.Multi {
		return len(v.Choices) == 0
	}
	return v.Text == ""
}

// IsBlank is IsEmpty with surrounding whitespace ignored.
func (v Value) IsBlank() bool {
	if v.Multi {
		return len(v.Choices) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// Has reports whether the value is, or contains, the given choice.
func (v Value) Has(choice string) bool {
	if !v.Multi {
		return v.Text == choice
	}
	for _, c := range v.Choices {
		if c == choice {
			return true
		}
	}
	return false
}

// Flatten renders the value for the submission payload.
func (v Value) Flatten() string {
	if v.Multi {
		return strings.Join(v.Choices, ", ")
	}
	return strings.TrimSpace(v.Text)
}

func (v Value) Clone() Value {
	if !v.Multi {
		return v
	}
	out := Value{Multi: true, Choices: make([]string, len(v.Choices))}
	copy(out.Choices, v.Choices)
	return out
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Multi {
		if v.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Choices)
	}
	return json.Marshal(v.Text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Value{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("choices must be a list of strings: %w", err)
		}
		*v = Choices(items...)
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("value must be a string or a list of strings: %w", err)
		}
		*v = Text(s)
		return nil
	}
}

// AnswerMap holds the respondent's current value for every schema field.
type AnswerMap map[string]Value

// Get returns the value for a field, or an empty scalar for keys outside the map.
func (a AnswerMap) Get(field string) Value {
	return a[field]
}

func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v.Clone()
	}
	return out
}

// ErrorMap is the field id -> message view of a step's validation errors.
type ErrorMap map[string]string

// SubmissionRecord is the flat payload posted to the sheet endpoint.
type SubmissionRecord map[string]string

// SubmitResponse is the decoded reply of the sheet endpoint.
type SubmitResponse struct {
	Success    Flag   `json:"success"`
	Message    string `json:"message"`
	ResponseID string `json:"responseId" validate:"required_if=Success true"`
}

// Flag decodes a success discriminator sent either as a boolean or as 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1", `"true"`, `"1"`, `"success"`:
		*f = true
	case "false", "0", `"false"`, `"0"`, `"error"`, "null":
		*f = false
	default:
		return fmt.Errorf("invalid success flag %s", data)
	}
	return nil
}
