// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/pkg/metrics"
)

// SnapshotHandler handles snapshot ingest requests.
type SnapshotHandler struct {
	deps Dependencies
}

// NewSnapshotHandler creates a new snapshot ingest handler.
func NewSnapshotHandler(deps Dependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// snapshotRequest mirrors the OpenAPI schema for POST /snapshots/{tag}.
// Clients may post either a bare JSON array of rows or an object with a
// "snapshots" field.
type snapshotRequest struct {
	Snapshots []model.RawSnapshot `json:"snapshots"`
}

type ingestResponse struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// HandlePostSnapshots handles POST /api/v1/snapshots/{tag} requests.
//
// Rows without an ID get a server-assigned one. Duplicate IDs are
// acknowledged without re-ingesting. Rows the queue cannot absorb are
// reported as rejected and their IDs released so a retry can succeed.
func (h *SnapshotHandler) HandlePostSnapshots(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_snapshots"

	tag, err := NormalizeTag(chi.URLParam(r, "tag"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_tag", WrapKind(op, ErrInvalidTag, err))
		return
	}

	rows, err := decodeSnapshotBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var resp ingestResponse
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}

		// Idempotency check - mark as seen first. The deduper owns the
		// decision and records the duplicate metric itself.
		if h.deps.SeenAndRecord(r.Context(), rows[i].ID) {
			resp.Duplicates++
			continue
		}

		if ok := h.deps.Enqueue(r.Context(), tag, rows[i]); !ok {
			// Rollback the "seen" status since enqueue failed
			h.deps.Unrecord(r.Context(), rows[i].ID)
			metrics.RecordSnapshotRejected()
			resp.Rejected++
			continue
		}
		resp.Accepted++
	}

	if resp.Rejected > 0 && resp.Accepted == 0 && resp.Duplicates == 0 {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}

	status := http.StatusAccepted
	if resp.Accepted == 0 {
		status = http.StatusOK
	}
	writeSuccess(w, status, resp, map[string]any{"playerTag": tag})
}

func decodeSnapshotBody(r *http.Request) ([]model.RawSnapshot, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	trimmed := raw
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\n' || trimmed[0] == '\t' || trimmed[0] == '\r') {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []model.RawSnapshot
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	var req snapshotRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return req.Snapshots, nil
}
