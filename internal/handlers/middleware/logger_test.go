package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Records the key/value pairs of every Info call
type recordingLogger struct {
	args []any
}

func (l *recordingLogger) Info(msg string, args ...any) {
	l.args = append(l.args, args...)
}

func (l *recordingLogger) field(key string) (any, bool) {
	for i := 0; i+1 < len(l.args); i += 2 {
		if l.args[i] == key {
			return l.args[i+1], true
		}
	}
	return nil, false
}

func TestLoggerMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	t.Run("logs status and response size", func(t *testing.T) {
		log := &recordingLogger{}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/videos", nil)

		LoggerMiddleware(log)(handler).ServeHTTP(w, r)

		status, ok := log.field("status")
		require.True(t, ok)
		require.Equal(t, http.StatusCreated, status)

		size, ok := log.field("size")
		require.True(t, ok)
		require.Equal(t, len("created"), size)
	})

	t.Run("logs declared request size on uploads", func(t *testing.T) {
		log := &recordingLogger{}
		w := httptest.NewRecorder()
		body := strings.NewReader("fake video bytes")
		r := httptest.NewRequest(http.MethodPost, "/videos", body)

		LoggerMiddleware(log)(handler).ServeHTTP(w, r)

		declared, ok := log.field("request_size")
		require.True(t, ok)
		require.Equal(t, int64(body.Size()), declared)
	})

	t.Run("no request size without a body", func(t *testing.T) {
		log := &recordingLogger{}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/videos", nil)

		LoggerMiddleware(log)(handler).ServeHTTP(w, r)

		_, ok := log.field("request_size")
		require.False(t, ok)
	})
}
