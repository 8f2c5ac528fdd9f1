// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/warfroggy/clashlens/internal/adapters/repository"
)

// History query bounds.
const (
	defaultHistoryDays = 30
	maxHistoryDays     = 90
)

// HistoryHandler handles timeline read requests.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /api/v1/player/{tag}/history requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"

	tag, err := NormalizeTag(chi.URLParam(r, "tag"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_tag", WrapKind(op, ErrInvalidTag, err))
		return
	}

	days, err := parseDays(r.URL.Query().Get("days"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	history, err := h.deps.History(r.Context(), tag, days)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	writeSuccess(w, http.StatusOK, history, map[string]any{
		"playerTag": tag,
		"days":      days,
	})
}

// parseDays interprets the days query parameter, defaulting and clamping
// to the supported window.
func parseDays(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultHistoryDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, errors.New("days must be a positive integer")
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}
	return days, nil
}

// isNotFound reports whether the error chain carries the store's
// not-found kind.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
