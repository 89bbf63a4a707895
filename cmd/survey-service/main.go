package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SAP-F-2025/survey-service/internal/config"
	"github.com/SAP-F-2025/survey-service/internal/handlers"
	"github.com/SAP-F-2025/survey-service/internal/metrics"
	"github.com/SAP-F-2025/survey-service/internal/services"
	"github.com/SAP-F-2025/survey-service/internal/sheets"
	"github.com/SAP-F-2025/survey-service/internal/utils"
	"github.com/SAP-F-2025/survey-service/internal/validator"
	"github.com/SAP-F-2025/survey-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("production").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)
	logger.Info("starting survey-service",
		"env", cfg.Environment,
		"port", cfg.Port,
		"session_store", cfg.SessionStore,
	)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionCache, closeCache, err := pkg.NewSessionCache(ctx, cfg, slogger)
	if err != nil {
		logger.Error("failed to initialise session store", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	v := validator.New()
	sheetClient, err := sheets.New(sheets.Config{
		URL:       cfg.SheetAPIURL,
		Timeout:   cfg.SheetTimeout,
		Logger:    slogger,
		Validator: v,
	})
	if err != nil {
		logger.Error("failed to create sheet client", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessions := services.NewSessionService(
		sessionCache,
		sheetClient,
		services.NewNotificationEventService(publisher, slogger),
		services.NewReceiptService(slogger),
		metrics.NewSurveyMetrics(reg),
		slogger,
		services.SessionConfig{TTL: cfg.SessionTTL},
	)
	go services.RunJanitor(ctx, sessions, time.Minute)

	hm := handlers.NewHandlerManager(sessions, v, logger, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Submissions may run without a deadline, so writes are only bounded when
	// the sheet call is.
	var writeTimeout time.Duration
	if cfg.SheetTimeout > 0 {
		writeTimeout = cfg.SheetTimeout + 15*time.Second
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           hm.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
}
