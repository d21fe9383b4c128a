package logger_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfelinto/orderms/pkg/logger"
)

func TestNewLoggerMiddleware(t *testing.T) {
	t.Run("passes the response through unchanged", func(t *testing.T) {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := logger.NewLoggerMiddleware(log)(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				_, _ = w.Write([]byte("short and stout"))
			}))

		req := httptest.NewRequest(http.MethodGet, "/anything", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", rec.Body.String())
	})

	t.Run("logs method, path and status", func(t *testing.T) {
		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := logger.NewLoggerMiddleware(log)(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))

		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		line := buf.String()
		require.NotEmpty(t, line)
		assert.Contains(t, line, `"method":"GET"`)
		assert.Contains(t, line, `"path":"/missing"`)
		assert.Contains(t, line, `"status":404`)
	})
}
