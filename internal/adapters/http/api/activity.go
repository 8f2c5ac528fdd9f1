// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ActivityHandler handles activity score requests.
type ActivityHandler struct {
	deps Dependencies
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps Dependencies) *ActivityHandler {
	return &ActivityHandler{deps: deps}
}

// HandleGetActivity handles GET /api/v1/player/{tag}/activity requests.
func (h *ActivityHandler) HandleGetActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_activity"

	tag, err := NormalizeTag(chi.URLParam(r, "tag"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_tag", WrapKind(op, ErrInvalidTag, err))
		return
	}

	activity, err := h.deps.Activity(r.Context(), tag)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	writeSuccess(w, http.StatusOK, activity, map[string]any{"playerTag": tag})
}
