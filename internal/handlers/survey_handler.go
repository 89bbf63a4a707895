package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/SAP-F-2025/survey-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SurveyHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

func NewSurveyHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StepSchema is one step of the survey definition with its fields
type StepSchema struct {
	models.StepDescriptor
	Fields []models.FieldDefinition `json:"fields"`
}

// NavigationResponse is returned by advance and retreat
type NavigationResponse struct {
	Result  *services.StepResult `json:"result"`
	Session *services.Snapshot   `json:"session"`
}

// SubmitResponse is returned by a successful submit
type SubmitResponse struct {
	ResponseID string             `json:"response_id"`
	Message    string             `json:"message,omitempty"`
	Session    *services.Snapshot `json:"session"`
}

// ListSteps returns the whole survey definition
// @Summary List survey steps
// @Tags survey
// @Produce json
// @Success 200 {array} StepSchema
// @Router /steps [get]
func (h *SurveyHandler) ListSteps(c *gin.Context) {
	steps := models.Steps()
	out := make([]StepSchema, 0, len(steps))
	for _, step := range steps {
		out = append(out, StepSchema{StepDescriptor: step, Fields: models.StepFields(step.ID)})
	}
	c.JSON(http.StatusOK, out)
}

// GetStep returns one step of the survey definition
// @Summary Get survey step
// @Tags survey
// @Produce json
// @Param step path int true "Step number"
// @Success 200 {object} StepSchema
// @Failure 400 {object} ErrorResponse
// @Router /steps/{step} [get]
func (h *SurveyHandler) GetStep(c *gin.Context) {
	step := parseStepParam(c, h.validator, "step")
	if step == 0 {
		return
	}
	descriptor, _ := models.Step(step)
	c.JSON(http.StatusOK, StepSchema{StepDescriptor: descriptor, Fields: models.StepFields(step)})
}

// CreateSession starts a new survey fill
// @Summary Create session
// @Tags sessions
// @Produce json
// @Success 201 {object} services.Snapshot
// @Router /sessions [post]
func (h *SurveyHandler) CreateSession(c *gin.Context) {
	snap, err := h.sessionService.Create(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.LogRequest(c, "Survey session created", "session_id", snap.SessionID)
	c.JSON(http.StatusCreated, snap)
}

// GetSession returns the full state of a session
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.Snapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SurveyHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	snap, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetStepView renders the current step of a session
// @Summary Get current step view
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.StepView
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/step [get]
func (h *SurveyHandler) GetStepView(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	view, err := h.sessionService.View(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetField overwrites one answer
// @Summary Set field
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param field path string true "Field ID"
// @Param body body SetFieldRequest true "Field value"
// @Success 200 {object} services.Snapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/fields/{field} [put]
func (h *SurveyHandler) SetField(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	field := fieldParam{Field: c.Param("field")}
	if err := h.validator.ValidateStruct(&field); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unknown survey field", err, err)
		return
	}

	var req SetFieldRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	snap, err := h.sessionService.SetField(c.Request.Context(), id, field.Field, req.Value)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SetAnswers overwrites several answers at once
// @Summary Set answers
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body SetAnswersRequest true "Answers keyed by field ID"
// @Success 200 {object} services.Snapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/answers [patch]
func (h *SurveyHandler) SetAnswers(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req SetAnswersRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	snap, err := h.sessionService.SetFields(c.Request.Context(), id, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Advance validates the current step and moves forward
// @Summary Advance
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} NavigationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse{details=ValidationFailure}
// @Router /sessions/{id}/advance [post]
func (h *SurveyHandler) Advance(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	result, snap, err := h.sessionService.Advance(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if len(result.Errors) > 0 {
		h.respondValidation(c, result.Errors, result.FocusField, snap)
		return
	}
	c.JSON(http.StatusOK, NavigationResponse{Result: result, Session: snap})
}

// Retreat moves back one step
// @Summary Retreat
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} NavigationResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/retreat [post]
func (h *SurveyHandler) Retreat(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	result, snap, err := h.sessionService.Retreat(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, NavigationResponse{Result: result, Session: snap})
}

// Submit sends the survey to the sheet endpoint
// @Summary Submit
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SubmitResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse{details=ValidationFailure}
// @Failure 502 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	result, snap, err := h.sessionService.Submit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	switch result.Outcome {
	case services.OutcomeDropped:
		h.handleServiceError(c, services.ErrSubmissionInFlight)
	case services.OutcomeInvalid:
		h.respondValidation(c, result.Errors, result.FocusField, snap)
	case services.OutcomeFailed:
		h.RespondWithError(c, http.StatusBadGateway, result.Message, result.Cause)
	default:
		c.JSON(http.StatusOK, SubmitResponse{
			ResponseID: result.ResponseID,
			Message:    result.Message,
			Session:    snap,
		})
	}
}

// Reset clears the session for another response
// @Summary Reset
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.Snapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/reset [post]
func (h *SurveyHandler) Reset(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	snap, err := h.sessionService.Reset(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DownloadReceipt returns the submitted answers as an xlsx file
// @Summary Download receipt
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/receipt.xlsx [get]
func (h *SurveyHandler) DownloadReceipt(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	data, err := h.sessionService.Receipt(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="survey-receipt.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// DeleteSession discards a session
// @Summary Delete session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SurveyHandler) DeleteSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	if err := h.sessionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SurveyHandler) respondValidation(c *gin.Context, errs services.ValidationErrors, focus string, snap *services.Snapshot) {
	h.RespondWithError(c, http.StatusUnprocessableEntity, "Validation failed", errs, ValidationFailure{
		Errors:     models.ErrorMap(errs.ToMap()),
		FocusField: focus,
		Session:    snap,
	})
}
