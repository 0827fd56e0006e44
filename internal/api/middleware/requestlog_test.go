package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pysugar/account-tabs/internal/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_PropagatesIncomingID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var seen string
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set(RequestIDHeader, "abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc123" {
		t.Fatalf("expected request id in context, got %q", seen)
	}
	if rec.Header().Get(RequestIDHeader) != "abc123" {
		t.Fatalf("expected request id echoed, got %q", rec.Header().Get(RequestIDHeader))
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["path"] != "/api/accounts" {
		t.Fatalf("unexpected log fields: %+v", fields)
	}
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	h := RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rec.Header().Get(RequestIDHeader); len(got) != 8 {
		t.Fatalf("expected generated 8-char id, got %q", got)
	}
}
