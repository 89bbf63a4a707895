package validator

import (
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeAnswers() models.AnswerMap {
	answers := models.InitialAnswers()
	set := map[string]models.Value{
		models.FieldAge:                    models.Text("25-30"),
		models.FieldGender:                 models.Text("female"),
		models.FieldEducation:              models.Text("MBBS"),
		models.FieldOccupation:             models.Text("Student"),
		models.FieldWorkStudyChange:        models.Text("yes"),
		models.FieldSocialLifeImpact:       models.Text("somewhat_negative"),
		models.FieldWorkedFromHomeBefore:   models.Text("no"),
		models.FieldDailyRoutineImpact:     models.Choices("significant", "other"),
		models.FieldDailyRoutineOther:      models.Text("Night shifts at the ward"),
		models.FieldVaccinated:             models.Text("yes"),
		models.FieldPreventivePractice:     models.Text("always"),
		models.FieldVaccineEffectiveness:   models.Text("strongly_agree"),
		models.FieldVaccineType:            models.Text("covishield"),
		models.FieldCovidTested:            models.Text("yes"),
		models.FieldTestType:               models.Text("rt_pcr"),
		models.FieldDoseCount:              models.Text("2"),
		models.FieldMentalHealthImpact:     models.Text("moderate_negative"),
		models.FieldAnxietyLevel:           models.Text("sometimes"),
		models.FieldSoughtHelp:             models.Text("no"),
		models.FieldHealthcareAccessible:   models.Text("partially"),
		models.FieldFacedShortage:          models.Text("yes"),
		models.FieldHealthcareSatisfaction: models.Text("3"),
		models.FieldIncomeImpact:           models.Text("not_much"),
		models.FieldFinancialDifficulty:    models.Text("no"),
		models.FieldSpendingHabit:          models.Text("decreased"),
		models.FieldOpenExperience:         models.Text("Long hours, but we managed."),
		models.FieldInfoSource:             models.Text("Doctors"),
	}
	for k, v := range set {
		answers[k] = v
	}
	return answers
}

func TestValidateStep_CompleteAnswersPass(t *testing.T) {
	answers := completeAnswers()
	for step := models.FirstStep; step <= models.LastStep; step++ {
		errs := ValidateStep(step, answers)
		assert.Empty(t, errs, "step %d", step)
	}
}

func TestValidateStep_EachRequiredFieldReportedAlone(t *testing.T) {
	for _, field := range models.Fields() {
		if !field.Required {
			continue
		}
		t.Run(field.ID, func(t *testing.T) {
			answers := completeAnswers()
			answers[field.ID] = field.EmptyValue()

			errs := ValidateStep(field.Step, answers)

			require.Len(t, errs, 1)
			assert.Equal(t, field.ID, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestValidateStep_OptionalFieldNeverReported(t *testing.T) {
	answers := completeAnswers()
	answers[models.FieldIncomeImpact] = models.Text("")

	assert.Empty(t, ValidateStep(5, answers))
}

func TestValidateStep_WhitespaceOnlyText(t *testing.T) {
	answers := completeAnswers()
	answers[models.FieldEducation] = models.Text("   ")
	answers[models.FieldInfoSource] = models.Text("\t")

	errs := ValidateStep(1, answers)
	require.Len(t, errs, 1)
	assert.Equal(t, "Education is required.", errs.ToMap()[models.FieldEducation])

	errs = ValidateStep(6, answers)
	require.Len(t, errs, 1)
	assert.Equal(t, models.FieldInfoSource, errs.First())
}

func TestValidateStep_VaccineTypeConditional(t *testing.T) {
	answers := completeAnswers()
	answers[models.FieldVaccineType] = models.Text("")

	answers[models.FieldVaccinated] = models.Text("no")
	assert.False(t, ValidateStep(3, answers).Has(models.FieldVaccineType))

	answers[models.FieldVaccinated] = models.Text("yes")
	errs := ValidateStep(3, answers)
	assert.True(t, errs.Has(models.FieldVaccineType))
	assert.Equal(t, "required_if", errs[0].Rule)
}

func TestValidateStep_TestTypeConditional(t *testing.T) {
	answers := completeAnswers()
	answers[models.FieldTestType] = models.Text("")

	answers[models.FieldCovidTested] = models.Text("no")
	assert.Empty(t, ValidateStep(3, answers))

	answers[models.FieldCovidTested] = models.Text("yes")
	assert.Equal(t, []string{models.FieldTestType}, ValidateStep(3, answers).Fields())
}

func TestValidateStep_RoutineOtherConditional(t *testing.T) {
	answers := completeAnswers()
	answers[models.FieldDailyRoutineOther] = models.Text("  ")

	answers[models.FieldDailyRoutineImpact] = models.Choices("somewhat")
	assert.Empty(t, ValidateStep(2, answers))

	answers[models.FieldDailyRoutineImpact] = models.Choices("somewhat", "other")
	assert.Equal(t, []string{models.FieldDailyRoutineOther}, ValidateStep(2, answers).Fields())
}

func TestValidateStep_FirstDeclaredFirst(t *testing.T) {
	errs := ValidateStep(1, models.InitialAnswers())

	assert.Equal(t, []string{
		models.FieldAge, models.FieldGender, models.FieldEducation, models.FieldOccupation,
	}, errs.Fields())
	assert.Equal(t, models.FieldAge, errs.First())
}

func TestValidateStep_DoesNotMutateAnswers(t *testing.T) {
	answers := completeAnswers()
	answers[models.FieldAge] = models.Text("")
	before := answers.Clone()

	for step := models.FirstStep; step <= models.LastStep; step++ {
		ValidateStep(step, answers)
	}

	assert.Equal(t, before, answers)
}

func TestValidateStep_FreshResultEachCall(t *testing.T) {
	answers := models.InitialAnswers()

	first := ValidateStep(1, answers)
	first[0].Message = "changed"
	second := ValidateStep(1, answers)

	assert.Equal(t, "Please select your age group.", second[0].Message)
}

func TestValidateStep_UnknownStep(t *testing.T) {
	assert.Empty(t, ValidateStep(0, models.InitialAnswers()))
	assert.Empty(t, ValidateStep(7, models.InitialAnswers()))

	_, ok := StepValidatorFor(7)
	assert.False(t, ok)
}
