package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"campusbarter/apperr"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.NotFound, http.StatusNotFound},
		{apperr.InvalidInput, http.StatusBadRequest},
		{apperr.InvalidState, http.StatusBadRequest},
		{apperr.PermissionDenied, http.StatusForbidden},
		{apperr.Conflict, http.StatusConflict},
		{apperr.InvalidCredential, http.StatusUnauthorized},
		{apperr.Internal, http.StatusInternalServerError},
		{apperr.CorruptState, http.StatusInternalServerError},
		{apperr.StorageError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForKind(tt.kind))
		})
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	token, err := bearerToken(r)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)

	for name, header := range map[string]string{
		"missing":      "",
		"no scheme":    "abc123",
		"wrong scheme": "Basic abc123",
		"empty token":  "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			_, err := bearerToken(r)
			assert.Equal(t, apperr.InvalidCredential, apperr.KindOf(err))
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	s := &Server{}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/items", nil)
	s.writeError(w, r, apperr.E(apperr.CorruptState, "exchange references a missing user"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "missing user", "internal detail must not leak")

	w = httptest.NewRecorder()
	s.writeError(w, r, apperr.E(apperr.InvalidInput, "title is required"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")
}
