package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/utils"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, sessionID string, duration time.Duration, err error) {
	level := slog.LevelDebug
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsBadRequest(err):
			level = slog.LevelWarn
			status = "bad_request"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	if level == slog.LevelError {
		if pc, file, line, ok := runtime.Caller(1); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				attrs = append(attrs,
					slog.String("caller_func", fn.Name()),
					slog.String("caller_file", file),
					slog.Int("caller_line", line),
				)
			}
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// ===== VALIDATION LOGGING =====

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation, sessionID string, step int, validationErrors ValidationErrors) {
	l.logger.LogAttrs(ctx, slog.LevelInfo, "Step validation halted navigation",
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.Int("step", step),
		slog.Any("fields", validationErrors.Fields()),
		slog.String("focus_field", validationErrors.First()),
	)
}

// ===== SUBMISSION LOGGING =====

func (l *ServiceLogger) LogSubmission(ctx context.Context, sessionID string, result SubmitResult, duration time.Duration) {
	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.String("session_id", sessionID),
		slog.String("outcome", string(result.Outcome)),
		slog.Duration("duration", duration),
	}

	switch result.Outcome {
	case OutcomeSucceeded:
		attrs = append(attrs, slog.String("response_id", result.ResponseID))
	case OutcomeFailed:
		level = slog.LevelError
		if result.Cause != nil {
			attrs = append(attrs, slog.String("error", result.Cause.Error()))
		}
	case OutcomeDropped, OutcomeInvalid:
		level = slog.LevelWarn
	}

	l.logger.LogAttrs(ctx, level, "Survey submission finished", attrs...)
}

// ===== ERROR RECOVERY LOGGING =====

func (l *ServiceLogger) LogRecovery(ctx context.Context, operation, sessionID string, recovered interface{}, stack []byte) {
	l.logger.LogAttrs(ctx, slog.LevelError, "Panic recovered",
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.Any("panic_value", recovered),
		slog.String("stack_trace", string(stack)),
	)
}
