package models

// Process-wide survey definition. Built once at package init and never mutated;
// callers get copies from the accessor functions.

const (
	FieldAge        = "age"
	FieldGender     = "gender"
	FieldEducation  = "education"
	FieldOccupation = "occupation"

	FieldWorkStudyChange      = "workStudyChange"
	FieldSocialLifeImpact     = "socialLifeImpact"
	FieldWorkedFromHomeBefore = "workedFromHomeBefore"
	FieldDailyRoutineImpact   = "dailyRoutineImpact"
	FieldDailyRoutineOther    = "dailyRoutineOther"

	FieldVaccinated           = "vaccinated"
	FieldPreventivePractice   = "preventivePractice"
	FieldVaccineEffectiveness = "vaccineEffectiveness"
	FieldVaccineType          = "vaccineType"
	FieldCovidTested          = "covidTested"
	FieldTestType             = "testType"
	FieldDoseCount            = "doseCount"

	FieldMentalHealthImpact     = "mentalHealthImpact"
	FieldAnxietyLevel           = "anxietyLevel"
	FieldSoughtHelp             = "soughtHelp"
	FieldHealthcareAccessible   = "healthcareAccessible"
	FieldFacedShortage          = "facedShortage"
	FieldHealthcareSatisfaction = "healthcareSatisfaction"

	FieldIncomeImpact        = "incomeImpact"
	FieldFinancialDifficulty = "financialDifficulty"
	FieldSpendingHabit       = "spendingHabit"

	FieldOpenExperience = "openExperience"
	FieldInfoSource     = "infoSource"
)

const (
	ChoiceYes   = "yes"
	ChoiceOther = "other"
)

const (
	FirstStep = 1
	LastStep  = 6
)

var steps = []StepDescriptor{
	{ID: 1, Title: "Demographic Information", Subtitle: "Basic personal details"},
	{ID: 2, Title: "Impact on Daily Life", Subtitle: "Work, routine & social life"},
	{ID: 3, Title: "Vaccination & Prevention", Subtitle: "Health & safety measures"},
	{ID: 4, Title: "Mental Health & Well-being", Subtitle: "Psychological impact"},
	{ID: 5, Title: "Economic Impact", Subtitle: "Income & financial stability"},
	{ID: 6, Title: "Open Ended Feedback", Subtitle: "Your personal experience"},
}

var (
	yesNo = []Option{
		{Value: "yes", Label: "Yes"},
		{Value: "no", Label: "No"},
	}
	ageOptions = []Option{
		{Value: "18-24", Label: "18–24"},
		{Value: "25-30", Label: "25–30"},
		{Value: "30-40", Label: "30–40"},
		{Value: "40+", Label: "40 or older"},
	}
	genderOptions = []Option{
		{Value: "male", Label: "Male"},
		{Value: "female", Label: "Female"},
		{Value: "other", Label: "Other"},
	}
	socialImpactOptions = []Option{
		{Value: "very_negative", Label: "Very negatively"},
		{Value: "somewhat_negative", Label: "Somewhat negatively"},
		{Value: "no_change", Label: "Not much"},
		{Value: "positive", Label: "Positively"},
	}
	routineImpactOptions = []Option{
		{Value: "significant", Label: "Significantly"},
		{Value: "somewhat", Label: "Somewhat"},
		{Value: "no_change", Label: "Not changed"},
		{Value: ChoiceOther, Label: "Other"},
	}
	preventiveOptions = []Option{
		{Value: "always", Label: "Always"},
		{Value: "sometimes", Label: "Sometimes"},
		{Value: "rarely", Label: "Rarely"},
		{Value: "never", Label: "Never"},
	}
	effectivenessOptions = []Option{
		{Value: "strongly_agree", Label: "Strongly agree"},
		{Value: "somewhat_agree", Label: "Somewhat agree"},
		{Value: "neutral", Label: "Neutral"},
		{Value: "disagree", Label: "Disagree"},
	}
	vaccineTypeOptions = []Option{
		{Value: "covishield", Label: "Covishield"},
		{Value: "covaxin", Label: "CO-Vaccine"},
		{Value: ChoiceOther, Label: "Other"},
	}
	testTypeOptions = []Option{
		{Value: "rt_pcr", Label: "RT-PCR"},
		{Value: "rat", Label: "RAT (Rapid Antigen Test)"},
		{Value: "blood", Label: "Blood Test"},
		{Value: ChoiceOther, Label: "Other"},
	}
	doseCountOptions = []Option{
		{Value: "1", Label: "1"},
		{Value: "2", Label: "2"},
		{Value: "3", Label: "3"},
		{Value: "0", Label: "No doses"},
	}
	mentalImpactOptions = []Option{
		{Value: "high_negative", Label: "Significant negative impact"},
		{Value: "moderate_negative", Label: "Moderate negative impact"},
		{Value: "low", Label: "Little to no impact"},
		{Value: "positive", Label: "Positive impact"},
	}
	anxietyOptions = []Option{
		{Value: "often", Label: "Often"},
		{Value: "sometimes", Label: "Sometimes"},
		{Value: "rarely", Label: "Rarely"},
		{Value: "never", Label: "Not at all"},
	}
	accessibleOptions = []Option{
		{Value: "yes", Label: "Yes"},
		{Value: "partially", Label: "Partially"},
		{Value: "no", Label: "No"},
	}
	satisfactionOptions = []Option{
		{Value: "5", Label: "Very Satisfied"},
		{Value: "4", Label: "Satisfied"},
		{Value: "3", Label: "Neutral"},
		{Value: "2", Label: "Unsatisfied"},
		{Value: "1", Label: "Very Unsatisfied"},
	}
	incomeImpactOptions = []Option{
		{Value: "yes", Label: "Yes"},
		{Value: "not_much", Label: "Not much"},
		{Value: "not_at_all", Label: "Not at all"},
	}
	spendingOptions = []Option{
		{Value: "increased", Label: "Increased"},
		{Value: "decreased", Label: "Decreased"},
		{Value: "unchanged", Label: "No change"},
	}
)

var fields = []FieldDefinition{
	// Step 1
	{ID: FieldAge, Step: 1, Label: "Age", Kind: FieldSelect, Required: true, Placeholder: "Select age group", Options: ageOptions, Column: "age"},
	{ID: FieldGender, Step: 1, Label: "Gender", Kind: FieldSelect, Required: true, Placeholder: "Select gender", Options: genderOptions, Column: "gender"},
	{ID: FieldEducation, Step: 1, Label: "Education", Kind: FieldText, Required: true, Placeholder: "Your highest education", Column: "education"},
	{ID: FieldOccupation, Step: 1, Label: "Occupation", Kind: FieldText, Required: true, Placeholder: "Your current occupation", Column: "occupation"},

	// Step 2
	{ID: FieldWorkStudyChange, Step: 2, Label: "Have you experienced any changes in work or studies?", Kind: FieldRadio, Required: true, Options: yesNo, Column: "work_study_change"},
	{ID: FieldSocialLifeImpact, Step: 2, Label: "How has COVID-19 impacted your social life?", Kind: FieldRadio, Required: true, Options: socialImpactOptions, Column: "social_life_impact"},
	{ID: FieldWorkedFromHomeBefore, Step: 2, Label: "Did you work or study from home before COVID-19?", Kind: FieldRadio, Required: true, Options: yesNo, Column: "worked_from_home_before"},
	{ID: FieldDailyRoutineImpact, Step: 2, Label: "How has COVID-19 affected your daily routine?", Kind: FieldMultiSelect, Required: true, Placeholder: "Select all that apply", Options: routineImpactOptions, Column: "daily_routine_impact"},
	{ID: FieldDailyRoutineOther, Step: 2, Label: "Please specify", Kind: FieldTextarea, Required: true, Placeholder: "Describe how your routine changed",
		VisibleWhen: &Condition{Field: FieldDailyRoutineImpact, Equals: ChoiceOther}, Column: "daily_routine_other"},

	// Step 3
	{ID: FieldVaccinated, Step: 3, Label: "Have you received COVID-19 vaccine?", Kind: FieldRadio, Required: true, Options: yesNo, Column: "vaccinated"},
	{ID: FieldPreventivePractice, Step: 3, Label: "Do you practice social distancing and wear masks in public?", Kind: FieldRadio, Required: true, Options: preventiveOptions, Column: "preventive_practice"},
	{ID: FieldVaccineEffectiveness, Step: 3, Label: "Do you think COVID-19 vaccine is effective in preventing severe illness?", Kind: FieldRadio, Required: true, Options: effectivenessOptions, Column: "vaccine_effectiveness"},
	{ID: FieldVaccineType, Step: 3, Label: "Which COVID-19 vaccine did you receive?", Kind: FieldSelect, Required: true, Placeholder: "Select vaccine", Options: vaccineTypeOptions,
		VisibleWhen: &Condition{Field: FieldVaccinated, Equals: ChoiceYes}, Column: "vaccine_type"},
	{ID: FieldCovidTested, Step: 3, Label: "Have you been tested for COVID-19?", Kind: FieldRadio, Required: true, Options: yesNo, Column: "covid_tested"},
	{ID: FieldTestType, Step: 3, Label: "What test did you undergo?", Kind: FieldSelect, Required: true, Placeholder: "Select test type", Options: testTypeOptions,
		VisibleWhen: &Condition{Field: FieldCovidTested, Equals: ChoiceYes}, Column: "test_type"},
	{ID: FieldDoseCount, Step: 3, Label: "How many doses have you taken?", Kind: FieldRadio, Required: true, Options: doseCountOptions, Column: "dose_count"},

	// Step 4
	{ID: FieldMentalHealthImpact, Step: 4, Label: "How has COVID-19 affected your mental health?", Kind: FieldRadio, Required: true, Options: mentalImpactOptions, Column: "mental_health_impact"},
	{ID: FieldAnxietyLevel, Step: 4, Label: "Have you experienced anxiety or stress related to COVID-19?", Kind: FieldRadio, Required: true, Options: anxietyOptions, Column: "anxiety_level"},
	{ID: FieldSoughtHelp, Step: 4, Label: "Have you sought professional help for mental health concerns?", Kind: FieldRadio, Required: true, Options: yesNo, Column: "sought_help"},
	{ID: FieldHealthcareAccessible, Step: 4, Label: "Was healthcare easily accessible to you during the pandemic?", Kind: FieldRadio, Required: true, Options: accessibleOptions, Column: "healthcare_accessible"},
	{ID: FieldFacedShortage, Step: 4, Label: "Did you face a shortage of medicines, beds or oxygen?", Kind: FieldRadio, Required: true, Options: yesNo, Column: "faced_shortage"},
	{ID: FieldHealthcareSatisfaction, Step: 4, Label: "How satisfied were you with the healthcare you received?", Kind: FieldRadio, Required: true, Options: satisfactionOptions, Column: "healthcare_satisfaction"},

	// Step 5
	{ID: FieldIncomeImpact, Step: 5, Label: "Has COVID-19 affected your income or employment?", Kind: FieldRadio, Options: incomeImpactOptions, Column: "income_impact"},
	{ID: FieldFinancialDifficulty, Step: 5, Label: "Have you experienced financial difficulties due to COVID-19?", Kind: FieldRadio, Required: true, Options: yesNo, Column: "financial_difficulty"},
	{ID: FieldSpendingHabit, Step: 5, Label: "How have your spending habits changed?", Kind: FieldRadio, Required: true, Options: spendingOptions, Column: "spending_habit"},

	// Step 6
	{ID: FieldOpenExperience, Step: 6, Label: "Describe your experience during the pandemic", Kind: FieldTextarea, Required: true, Placeholder: "Share your experience", Column: "open_experience"},
	{ID: FieldInfoSource, Step: 6, Label: "Where did you mainly get COVID-19 information from?", Kind: FieldText, Required: true, Placeholder: "News, social media, doctors...", Column: "info_source"},
}

var fieldIndex = func() map[string]FieldDefinition {
	idx := make(map[string]FieldDefinition, len(fields))
	for _, f := range fields {
		idx[f.ID] = f
	}
	return idx
}()

// Steps returns the ordered step descriptors.
func Steps() []StepDescriptor {
	out := make([]StepDescriptor, len(steps))
	copy(out, steps)
	return out
}

func StepCount() int {
	return len(steps)
}

// Step returns the descriptor for a step id.
func Step(id int) (StepDescriptor, bool) {
	if id < FirstStep || id > len(steps) {
		return StepDescriptor{}, false
	}
	return steps[id-1], true
}

// Fields returns every field definition in declaration order.
func Fields() []FieldDefinition {
	out := make([]FieldDefinition, len(fields))
	copy(out, fields)
	return out
}

// StepFields returns the fields rendered on a step, in declaration order.
func StepFields(step int) []FieldDefinition {
	var out []FieldDefinition
	for _, f := range fields {
		if f.Step == step {
			out = append(out, f)
		}
	}
	return out
}

// LookupField returns the definition of a field id.
func LookupField(id string) (FieldDefinition, bool) {
	f, ok := fieldIndex[id]
	return f, ok
}

// EmptyValue is the initial value of a field: "" for scalars, the empty set for multi-selects.
func (f FieldDefinition) EmptyValue() Value {
	if f.Kind.IsMulti() {
		return Choices()
	}
	return Text("")
}

// Visible reports whether the field is currently shown, validated and submitted.
func (f FieldDefinition) Visible(answers AnswerMap) bool {
	return f.VisibleWhen.Met(answers)
}

// InitialAnswers returns a fresh answer map with an empty value for every field.
func InitialAnswers() AnswerMap {
	answers := make(AnswerMap, len(fields))
	for _, f := range fields {
		answers[f.ID] = f.EmptyValue()
	}
	return answers
}
