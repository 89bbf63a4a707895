package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/SAP-F-2025/survey-service/internal/validator"
)

type HandlerManager struct {
	surveyHandler  *SurveyHandler
	metricsHandler http.Handler
	logger         utils.Logger
}

// NewHandlerManager wires the handlers. metricsHandler may be nil, in which
// case /metrics is not mounted.
func NewHandlerManager(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
	metricsHandler http.Handler,
) *HandlerManager {
	return &HandlerManager{
		surveyHandler:  NewSurveyHandler(sessionService, validator, logger),
		metricsHandler: metricsHandler,
		logger:         logger,
	}
}

// NewRouter builds a gin engine with the standard middleware and all routes
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
	)
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "survey-service",
		})
	})

	if hm.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(hm.metricsHandler))
	}

	v1 := router.Group("/api/v1")
	{
		// Survey definition
		steps := v1.Group("/steps")
		{
			steps.GET("", hm.surveyHandler.ListSteps)
			steps.GET("/:step", hm.surveyHandler.GetStep)
		}

		// Respondent sessions
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.surveyHandler.CreateSession)
			sessions.GET("/:id", hm.surveyHandler.GetSession)
			sessions.DELETE("/:id", hm.surveyHandler.DeleteSession)
			sessions.GET("/:id/step", hm.surveyHandler.GetStepView)

			// Answers
			sessions.PUT("/:id/fields/:field", hm.surveyHandler.SetField)
			sessions.PATCH("/:id/answers", hm.surveyHandler.SetAnswers)

			// Navigation
			sessions.POST("/:id/advance", hm.surveyHandler.Advance)
			sessions.POST("/:id/retreat", hm.surveyHandler.Retreat)

			// Submission
			sessions.POST("/:id/submit", hm.surveyHandler.Submit)
			sessions.POST("/:id/reset", hm.surveyHandler.Reset)
			sessions.GET("/:id/receipt.xlsx", hm.surveyHandler.DownloadReceipt)
		}
	}
}
