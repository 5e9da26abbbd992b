package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"expense-tracker/internal/logger"
)

func TestRequestIDAttachesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLog := logger.FromContext(r.Context())
		ctxLog.Info().Msg("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/owners", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	RequestID(log)(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID header = %q, want req-123", got)
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) {
		t.Errorf("log line missing request id: %s", out)
	}
	if !strings.Contains(out, "handled") {
		t.Errorf("handler log line not written through context logger: %s", out)
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/api/owners", nil)
	rec := httptest.NewRecorder()
	RequestID(zerolog.Nop())(inner).ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID header generated")
	}
}
