package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mtlprog/hindsight/internal/domain"
	"github.com/mtlprog/hindsight/internal/horizon"
)

// HistoryBuilder builds the value history of an account.
type HistoryBuilder interface {
	Build(ctx context.Context, account string) (domain.History, error)
}

// Handler provides HTTP endpoints for the history API.
type Handler struct {
	builder HistoryBuilder
	cache   *historyCache
	group   singleflight.Group
}

// NewHandler creates a new API handler. A zero cacheTTL disables caching.
func NewHandler(builder HistoryBuilder, cacheTTL time.Duration) *Handler {
	return &Handler{
		builder: builder,
		cache:   newHistoryCache(cacheTTL),
	}
}

// GetHistory handles GET /api/v1/history/{account}.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	account := r.PathValue("account")
	if !domain.IsValidAccountID(account) {
		writeError(w, http.StatusBadRequest, "invalid account address")
		return
	}

	if cached, ok := h.cache.get(account); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, cached)
		return
	}

	// Concurrent requests for one account share a single build. The build is
	// detached from any one caller's cancellation.
	v, err, _ := h.group.Do(account, func() (any, error) {
		history, err := h.builder.Build(context.WithoutCancel(r.Context()), account)
		if err != nil {
			return nil, err
		}
		h.cache.set(account, history)
		return history, nil
	})
	if err != nil {
		if errors.Is(err, horizon.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		slog.Error("failed to build history", "account", account, "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusBadGateway, "failed to build history")
		return
	}

	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, v.(domain.History))
}

// Prime stores a history built elsewhere so the next request is served from cache.
func (h *Handler) Prime(_ context.Context, history domain.History) error {
	h.cache.set(history.Account, history)
	return nil
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
