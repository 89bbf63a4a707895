package validator

import (
	"github.com/SAP-F-2025/survey-service/internal/models"
)

const (
	msgRequired         = "Required."
	msgRequiredFeedback = "This field is required."
	msgAgeRequired      = "Please select your age group."
	msgGenderRequired   = "Please select your gender."
	msgEducation        = "Education is required."
	msgOccupation       = "Occupation is required."
	msgRoutineOther     = "Please specify how your routine changed."
)

const (
	ruleRequired   = "required"
	ruleRequiredIf = "required_if"
)

// StepValidator inspects the answers relevant to one step and reports field errors
// in the order the fields are declared. It never mutates the answers.
type StepValidator func(answers models.AnswerMap) ValidationErrors

// stepValidators is the step id -> validator registry. Read-only after init.
var stepValidators = map[int]StepValidator{
	1: validateDemographics,
	2: validateDailyLife,
	3: validateVaccination,
	4: validateWellbeing,
	5: validateEconomic,
	6: validateFeedback,
}

// StepValidatorFor returns the validator registered for a step.
func StepValidatorFor(step int) (StepValidator, bool) {
	fn, ok := stepValidators[step]
	return fn, ok
}

// ValidateStep runs the validator of a step. Unknown steps yield no errors.
func ValidateStep(step int, answers models.AnswerMap) ValidationErrors {
	fn, ok := stepValidators[step]
	if !ok {
		return ValidationErrors{}
	}
	return fn(answers)
}

// checker accumulates errors for one validator run
type checker struct {
	answers models.AnswerMap
	errs    ValidationErrors
}

func newChecker(answers models.AnswerMap) *checker {
	return &checker{answers: answers, errs: ValidationErrors{}}
}

// selected requires a non-empty selection (or a non-empty set for multi-selects)
func (c *checker) selected(field, message string) {
	if c.answers.Get(field).IsEmpty() {
		c.errs = c.errs.Add(field, message, ruleRequired)
	}
}

// text requires free text that is non-empty after trimming
func (c *checker) text(field, message string) {
	if c.answers.Get(field).IsBlank() {
		c.errs = c.errs.Add(field, message, ruleRequired)
	}
}

// selectedWhen requires a selection only while its controlling field holds the given choice
func (c *checker) selectedWhen(field, controller, choice, message string) {
	if c.answers.Get(controller).Has(choice) && c.answers.Get(field).IsEmpty() {
		c.errs = c.errs.Add(field, message, ruleRequiredIf)
	}
}

// textWhen is selectedWhen for free-text fields
func (c *checker) textWhen(field, controller, choice, message string) {
	if c.answers.Get(controller).Has(choice) && c.answers.Get(field).IsBlank() {
		c.errs = c.errs.Add(field, message, ruleRequiredIf)
	}
}

func validateDemographics(answers models.AnswerMap) ValidationErrors {
	c := newChecker(answers)
	c.selected(models.FieldAge, msgAgeRequired)
	c.selected(models.FieldGender, msgGenderRequired)
	c.text(models.FieldEducation, msgEducation)
	c.text(models.FieldOccupation, msgOccupation)
	return c.errs
}

func validateDailyLife(answers models.AnswerMap) ValidationErrors {
	c := newChecker(answers)
	c.selected(models.FieldWorkStudyChange, msgRequired)
	c.selected(models.FieldSocialLifeImpact, msgRequired)
	c.selected(models.FieldWorkedFromHomeBefore, msgRequired)
	c.selected(models.FieldDailyRoutineImpact, msgRequired)
	c.textWhen(models.FieldDailyRoutineOther, models.FieldDailyRoutineImpact, models.ChoiceOther, msgRoutineOther)
	return c.errs
}

func validateVaccination(answers models.AnswerMap) ValidationErrors {
	c := newChecker(answers)
	c.selected(models.FieldVaccinated, msgRequired)
	c.selected(models.FieldPreventivePractice, msgRequired)
	c.selected(models.FieldVaccineEffectiveness, msgRequired)
	c.selectedWhen(models.FieldVaccineType, models.FieldVaccinated, models.ChoiceYes, msgRequired)
	c.selected(models.FieldCovidTested, msgRequired)
	c.selectedWhen(models.FieldTestType, models.FieldCovidTested, models.ChoiceYes, msgRequired)
	c.selected(models.FieldDoseCount, msgRequired)
	return c.errs
}

func validateWellbeing(answers models.AnswerMap) ValidationErrors {
	c := newChecker(answers)
	c.selected(models.FieldMentalHealthImpact, msgRequired)
	c.selected(models.FieldAnxietyLevel, msgRequired)
	c.selected(models.FieldSoughtHelp, msgRequired)
	c.selected(models.FieldHealthcareAccessible, msgRequired)
	c.selected(models.FieldFacedShortage, msgRequired)
	c.selected(models.FieldHealthcareSatisfaction, msgRequired)
	return c.errs
}

func validateEconomic(answers models.AnswerMap) ValidationErrors {
	c := newChecker(answers)
	c.selected(models.FieldFinancialDifficulty, msgRequired)
	c.selected(models.FieldSpendingHabit, msgRequired)
	return c.errs
}

func validateFeedback(answers models.AnswerMap) ValidationErrors {
	c := newChecker(answers)
	c.text(models.FieldOpenExperience, msgRequiredFeedback)
	c.text(models.FieldInfoSource, msgRequiredFeedback)
	return c.errs
}
