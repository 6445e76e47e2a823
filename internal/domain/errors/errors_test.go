package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRemoteError(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, CodeRemoteError},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusNotFound, CodeRemoteNotFound},
		{http.StatusConflict, CodeRemoteError},
		{http.StatusInternalServerError, CodeRemoteServerError},
		{http.StatusBadGateway, CodeRemoteServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewRemoteError(tt.status, `{"message":"nope"}`)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, tt.status, err.Details["status"])
			assert.Equal(t, `{"message":"nope"}`, err.Details["body"])
			assert.Contains(t, err.Error(), fmt.Sprintf("HTTP %d", tt.status))
		})
	}
}

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("calling remote: %w", NewRemoteError(http.StatusNotFound, "missing"))

	assert.True(t, stderrors.Is(err, ErrRemoteNotFound))
	assert.False(t, stderrors.Is(err, ErrRemoteServerError))
}

func TestAs(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	wrapped := fmt.Errorf("tool package_show: %w", NewNetworkError("request failed", cause))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNetworkFailure, appErr.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, http.StatusBadGateway, StatusOf(wrapped))

	_, ok = As(cause)
	assert.False(t, ok)
	assert.Equal(t, 0, StatusOf(cause))
}

func TestWithDetail_DoesNotShareMap(t *testing.T) {
	base := NewUnknownToolError("nope")
	extended := base.WithDetail("server", "ckan")

	assert.Equal(t, "ckan", extended.Details["server"])
	_, ok := base.Details["server"]
	assert.False(t, ok)
}
