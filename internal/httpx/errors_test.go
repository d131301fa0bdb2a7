package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
		{ErrDuplicate, http.StatusBadRequest},
		{ErrInsufficientStock, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code, "error %v", tc.err)

		var body Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.False(t, body.Success)
	}
}

func TestRespondErrorWrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("billing: %w", ErrInsufficientStock))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondErrorInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: connection refused"))

	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Internal server error", body.Message)
	require.Equal(t, "pq: connection refused", body.Error)
}
