package validator

import (
	"testing"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldRequest struct {
	Field string `json:"field" validate:"required,survey_field"`
	Step  int    `json:"step" validate:"survey_step"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateStruct(&fieldRequest{Field: models.FieldVaccineType, Step: 3}))

	err := v.ValidateStruct(&fieldRequest{Field: "favouriteColour", Step: 9})
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, []string{"field", "step"}, errs.Fields())
	assert.Equal(t, "survey_field", errs[0].Rule)
	assert.Equal(t, "must be a known survey field", errs[0].Message)
}

func TestValidator_SubmitResponseRequiresIDOnSuccess(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateStruct(&models.SubmitResponse{Success: true, ResponseID: "R-1"}))
	assert.NoError(t, v.ValidateStruct(&models.SubmitResponse{Success: false, Message: "sheet locked"}))

	err := v.ValidateStruct(&models.SubmitResponse{Success: true})
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "responseId", errs.First())
}
