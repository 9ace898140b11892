package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeDatabase    ErrorType = "database"
	ErrorTypeExternal    ErrorType = "external_api"
	ErrorTypeInternal    ErrorType = "internal"
	ErrorTypePermission  ErrorType = "permission"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeUnsupported ErrorType = "unsupported"
)

// AppError is an application error with a type, a stable code, a user-facing
// message and structured context for logging
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]any
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code, or the wrapped error
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds a key/value to the error's log fields
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []any {
	fields := []any{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// caller returns file:line of the function that built the error
func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip + 1)
	return fmt.Sprintf("%s:%d", file, line)
}

func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message, Source: caller(1)}
}

func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message, Internal: err, Source: caller(1)}
}

// Handler logs errors at a level chosen by their type
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeUnsupported, ErrorTypeNotFound:
		h.logger.WarnContext(ctx, "Validation error", appErr.LogFields()...)
	case ErrorTypePermission:
		h.logger.WarnContext(ctx, "Permission error", appErr.LogFields()...)
	case ErrorTypeRateLimit:
		h.logger.WarnContext(ctx, "Rate limit error", appErr.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeExternal, ErrorTypeInternal, ErrorTypeTimeout:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", appErr.LogFields()...)
	}
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Sentinels for errors.Is; compare by type and code
var (
	ErrUserNotFound = New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found")
	ErrNotFound     = New(ErrorTypeNotFound, "NOT_FOUND", "Record not found")
	ErrUnauthorized = New(ErrorTypePermission, "UNAUTHORIZED", "Invalid or missing token")
)

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: "VALIDATION", Message: message, Source: caller(1)}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{Type: ErrorTypeDatabase, Code: "DB_ERROR", Message: "Database operation failed", Internal: err, Source: caller(1)}
}

func NewExternalAPIError(err error, api string) *AppError {
	return (&AppError{
		Type: ErrorTypeExternal, Code: "EXTERNAL_API", Message: fmt.Sprintf("%s API error", api),
		Internal: err, Source: caller(1),
	}).WithContext("api", api)
}

// NewRateLimitError marks an external API refusal that is worth retrying later
func NewRateLimitError(err error, api string) *AppError {
	return (&AppError{
		Type: ErrorTypeRateLimit, Code: "RATE_LIMIT", Message: fmt.Sprintf("%s API rate limit exceeded", api),
		Internal: err, Source: caller(1),
	}).WithContext("api", api)
}

// NewUnsupportedMetricError is returned when no threshold table exists for a metric
func NewUnsupportedMetricError(metric string) *AppError {
	return (&AppError{
		Type: ErrorTypeUnsupported, Code: "UNSUPPORTED_METRIC", Message: fmt.Sprintf("metric %q cannot be classified", metric),
		Source: caller(1),
	}).WithContext("metric_type", metric)
}

func NewNotFoundError(entity string) *AppError {
	return (&AppError{
		Type: ErrorTypeNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf("%s not found", entity),
		Source: caller(1),
	}).WithContext("entity", entity)
}

func NewTimeoutError(err error, operation string) *AppError {
	return (&AppError{
		Type: ErrorTypeTimeout, Code: "TIMEOUT", Message: fmt.Sprintf("%s operation timed out", operation),
		Internal: err, Source: caller(1),
	}).WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Code: "INTERNAL", Message: "Internal server error", Internal: err, Source: caller(1)}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}
