package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	withRequestID(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	id := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("response request ID %q is not a UUID", id)
	}
	if seen != id {
		t.Errorf("context request ID = %q, header = %q", seen, id)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	incoming := uuid.NewString()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	withRequestID(next).ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != incoming {
		t.Errorf("request ID = %q, want %q", got, incoming)
	}
}

func TestRequestIDReplacesGarbage(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w := httptest.NewRecorder()
	withRequestID(next).ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got == "<script>" {
		t.Error("invalid incoming request ID should be replaced")
	}
}

func TestNewServerRoutes(t *testing.T) {
	srv := NewServer("8080", NewHandler(&mockBuilder{}, time.Minute))
	if srv.Addr != ":8080" {
		t.Errorf("Addr = %q", srv.Addr)
	}

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}

	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST healthz status = %d, want 405", w.Code)
	}
}
