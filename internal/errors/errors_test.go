package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database: Database operation failed (internal: connection refused)", err.Error())
	assert.Contains(t, err.Source, "errors_test.go")

	wrapped := fmt.Errorf("failed to save reading: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeDatabase))
	assert.False(t, IsType(wrapped, ErrorTypeValidation))
	assert.False(t, IsType(cause, ErrorTypeDatabase))
}

func TestAppError_IsMatchesTypeAndCode(t *testing.T) {
	err := NewNotFoundError("medication")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, "not_found: medication not found", err.Error())
}

func TestAppError_ContextInLogFields(t *testing.T) {
	err := NewRateLimitError(errors.New("429"), "gemini").WithContext("attempt", 3)

	fields := err.LogFields()
	assert.Contains(t, fields, "internal_error")
	assert.Contains(t, fields, "api")
	assert.Contains(t, fields, "gemini")
	assert.Contains(t, fields, 3)
	assert.Equal(t, "gemini API rate limit exceeded", err.Message)
}

func TestHandler_LogsByType(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	err := h.LogAndReturn(context.Background(), NewValidationError("glucose value must be positive"))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "glucose value must be positive")

	buf.Reset()
	h.Handle(context.Background(), NewExternalAPIError(errors.New("timeout"), "openai"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "Critical error")

	buf.Reset()
	h.Handle(context.Background(), errors.New("plain"))
	assert.Contains(t, buf.String(), "Unhandled error")

	buf.Reset()
	h.Handle(context.Background(), nil)
	assert.Empty(t, buf.String())
}

func TestTimeoutAndInternalErrors(t *testing.T) {
	timeout := NewTimeoutError(context.DeadlineExceeded, "gemini request")
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)
	assert.True(t, IsType(timeout, ErrorTypeTimeout))
	assert.Equal(t, "gemini request operation timed out", timeout.Message)

	internal := NewInternalError(errors.New("nil pointer"))
	assert.True(t, IsType(internal, ErrorTypeInternal))
	assert.NotErrorIs(t, internal, ErrUnauthorized)
}
