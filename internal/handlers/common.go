package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationFailure is the body of a 422: the Error Map plus the field to focus
type ValidationFailure struct {
	Errors     models.ErrorMap    `json:"errors"`
	FocusField string             `json:"focus_field"`
	Session    *services.Snapshot `json:"session,omitempty"`
}

// ===== REQUEST STRUCTURES =====

// SetFieldRequest carries one answer. value is a string or an array of strings.
type SetFieldRequest struct {
	Value models.Value `json:"value"`
}

// SetAnswersRequest carries several answers keyed by field id
type SetAnswersRequest struct {
	Answers map[string]models.Value `json:"answers" validate:"required,min=1,dive,keys,survey_field,endkeys"`
}

type fieldParam struct {
	Field string `json:"field" validate:"required,survey_field"`
}

type stepParam struct {
	Step int `json:"step" validate:"survey_step"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

func (h *BaseHandler) contextFields(c *gin.Context, additionalFields ...interface{}) []interface{} {
	fields := []interface{}{
		"request_id", utils.RequestIDFromContext(c.Request.Context()),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if sessionID := c.Param("id"); sessionID != "" {
		fields = append(fields, "session_id", sessionID)
	}
	return append(fields, additionalFields...)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	h.logger.Debug(message, h.contextFields(c, additionalFields...)...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.logger.LogError(err, message, h.contextFields(c, additionalFields...)...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.logger.Warn(message, h.contextFields(c, additionalFields...)...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if statusCode >= http.StatusInternalServerError && err != nil {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// handleServiceError maps service errors to HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, validationErrors)
		return
	}

	switch {
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Survey session not found", err)
	case errors.Is(err, services.ErrUnknownField):
		h.RespondWithError(c, http.StatusBadRequest, "Unknown survey field", err)
	case errors.Is(err, services.ErrFieldKindMismatch):
		h.RespondWithError(c, http.StatusBadRequest, "Value does not match field kind", err)
	case errors.Is(err, services.ErrNotOnFinalStep):
		h.RespondWithError(c, http.StatusConflict, "Submission is only allowed on the final step", err)
	case errors.Is(err, services.ErrAlreadySubmitted):
		h.RespondWithError(c, http.StatusConflict, "Survey already submitted", err)
	case errors.Is(err, services.ErrSubmissionInFlight):
		h.RespondWithError(c, http.StatusConflict, "Submission already in progress", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Request conflicts with the survey state", err)
	case services.IsRemoteFailure(err):
		h.RespondWithError(c, http.StatusBadGateway, services.MsgServerUnreachable, err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
