package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Status(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Authentication, http.StatusUnauthorized},
		{Authorization, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{UpstreamParse, http.StatusBadGateway},
		{UpstreamService, http.StatusBadGateway},
		{Persistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.Status(), "kind %s", tt.kind)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("row not found")
	err := Wrap(NotFound, "portfolio missing", cause)

	assert.ErrorIs(t, err, cause)

	var apiErr *Error
	require.True(t, errors.As(fmt.Errorf("handler: %w", err), &apiErr))
	assert.Equal(t, NotFound, apiErr.Kind)
}

func TestWrite_ClassifiedError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, New(Authorization, "not yours"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AuthorizationError", body["error"])
	assert.Equal(t, "not yours", body["message"])
}

func TestWrite_UnclassifiedErrorIsOpaque500(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, fmt.Errorf("secret database path exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotContains(t, rec.Body.String(), "secret")
}
