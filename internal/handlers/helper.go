package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-service/internal/validator"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// parseStepParam reads a step number path parameter. It writes the 400 itself
// and returns 0 when the value is not a known step.
func parseStepParam(c *gin.Context, v *validator.Validator, param string) int {
	step, err := strconv.Atoi(c.Param(param))
	if err == nil {
		err = v.ValidateStruct(&stepParam{Step: step})
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return step
}

// bindJSON decodes the body and runs struct validation. It writes the 400
// itself and reports false on failure.
func bindJSON(c *gin.Context, v *validator.Validator, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	if err := v.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err,
		})
		return false
	}
	return true
}
