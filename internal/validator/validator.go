package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation for request payloads and remote
// responses with the per-step survey rules
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	// Survey field id validation
	validate.RegisterValidation("survey_field", validateSurveyField)

	// Step number validation
	validate.RegisterValidation("survey_step", validateSurveyStep)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateSurveyField(fl validator.FieldLevel) bool {
	_, ok := models.LookupField(fl.Field().String())
	return ok
}

func validateSurveyStep(fl validator.FieldLevel) bool {
	_, ok := models.Step(int(fl.Field().Int()))
	return ok
}
