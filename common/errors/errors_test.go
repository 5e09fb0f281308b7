package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"weak password", WeakPassword([]string{"x"}), http.StatusBadRequest},
		{"missing field", MissingField("username"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("Missing authorization token"), http.StatusUnauthorized},
		{"invalid token", InvalidToken(), http.StatusUnauthorized},
		{"access denied", AccessDenied(), http.StatusForbidden},
		{"session not found", SessionNotFound(), http.StatusNotFound},
		{"conflict", Conflict(fmt.Errorf("dup"), "taken"), http.StatusConflict},
		{"no credentials", NoCredentials(), http.StatusUnprocessableEntity},
		{"reset not confirmed", ResetNotConfirmed(), http.StatusUnprocessableEntity},
		{"email", EmailError(fmt.Errorf("dial")), http.StatusBadGateway},
		{"timeout", Timeout(context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"database", DatabaseError(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("usecase: %w", SessionNotFound())

	assert.True(t, stderrors.Is(wrapped, SessionNotFound()))
	assert.False(t, stderrors.Is(wrapped, NoCredentials()))
	assert.True(t, HasCode(wrapped, ErrCodeSessionNotFound))
}

func TestToAppErrorWrapsPlainErrors(t *testing.T) {
	appErr := ToAppError(fmt.Errorf("plain"))

	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestToAppErrorMapsDeadline(t *testing.T) {
	appErr := ToAppError(fmt.Errorf("query users: %w", context.DeadlineExceeded))

	assert.Equal(t, ErrCodeTimeout, appErr.Code)
	assert.True(t, stderrors.Is(appErr, context.DeadlineExceeded))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("smtp: 421")
	err := EmailError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "smtp: 421")
}
