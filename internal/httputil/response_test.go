package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/get", nil)
	return c, w
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) FailureResponse {
	t.Helper()
	var resp FailureResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleFailureGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"MissingInput", apperrors.ErrMissingInput, "Missing phone or client_id"},
		{"NotFound", apperrors.ErrNotFound, "Could not retrieve caller details"},
		{"UpstreamAuth", apperrors.Wrap(apperrors.ErrUpstreamAuth, "token exchange"), "Upstream authentication failed"},
		{"InvalidInput", apperrors.Wrap(apperrors.ErrInvalidInput, "phone: bad format"), "phone: bad format: invalid input"},
		{"Unknown", apperrors.New("boom"), "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			HandleFailureGin(c, tt.err, logger)

			assert.Equal(t, http.StatusOK, w.Code)
			resp := decodeFailure(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expected, resp.Error)
		})
	}

	t.Run("NilErrorWritesNothing", func(t *testing.T) {
		c, w := newTestContext(t)

		HandleFailureGin(c, nil, logger)

		assert.Empty(t, w.Body.Bytes())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, w := newTestContext(t)

	HandleBadRequestGin(c, apperrors.New("unexpected EOF"), logger)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeFailure(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "unexpected EOF", resp.Error)
}
