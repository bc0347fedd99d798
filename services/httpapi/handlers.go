package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dueboard/lib/deadline"
	"dueboard/lib/timezone"
	"dueboard/services/deadlines"

	"github.com/go-chi/chi/v5"
)

// Handler holds the API route handlers.
type Handler struct {
	engine *deadlines.Service
}

func NewHandler(engine *deadlines.Service) *Handler {
	return &Handler{engine: engine}
}

// GetData handles GET /api/data.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	col, err := h.engine.GetData(r.Context())
	if err != nil {
		slog.Error("get data failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, col)
}

// GetBadge handles GET /api/badge.
func (h *Handler) GetBadge(w http.ResponseWriter, r *http.Request) {
	count, err := h.engine.BadgeCount(r.Context(), timezone.Now())
	if err != nil {
		slog.Error("badge count failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// ToggleDone handles POST /api/items/{id}/done.
func (h *Handler) ToggleDone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}

	var req struct {
		Done bool `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json body"))
		return
	}

	err := h.engine.ToggleDone(r.Context(), id, req.Done)
	if err != nil {
		if errors.Is(err, deadlines.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("toggle done failed", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"done": req.Done})
}

// UpdateSettings handles PATCH /api/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch deadlines.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json body"))
		return
	}

	settings, err := h.engine.UpdateSettings(r.Context(), patch)
	if err != nil {
		if patch.Validate() != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("update settings failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// ClearData handles DELETE /api/data.
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	err := h.engine.ClearAll(r.Context())
	if err != nil {
		slog.Error("clear data failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeliverScrape handles POST /api/scrape, the delivery endpoint for
// externally run extractors. The payload is an items envelope:
// {"items": [record, ...]}.
func (h *Handler) DeliverScrape(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req struct {
		Items []deadline.Record `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json body"))
		return
	}

	err := h.engine.Ingest(r.Context(), req.Items)
	if err != nil {
		if errors.Is(err, deadlines.ErrInvalidRecord) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("scrape delivery failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"ingested": len(req.Items)})
}
