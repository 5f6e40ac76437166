package api

import (
	"database/sql"
	"net/http"

	"github.com/erazmer/lekarna/internal/model"
	"github.com/erazmer/lekarna/internal/store"
)

// AdminHandler exposes the audit trail and runtime settings (admin only).
type AdminHandler struct {
	DB *sql.DB
}

type thresholdRequest struct {
	Threshold int `json:"threshold"`
}

// AuditLog handles GET /api/admin/audit. Filter by actor, or by
// entity_type plus entity_id.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	actor := q.Get("actor")
	entityType := q.Get("entity_type")
	entityID := q.Get("entity_id")

	var entries []model.AuditEntry
	var err error
	switch {
	case actor != "":
		entries, err = store.ListAuditByActor(r.Context(), h.DB, actor)
	case entityType != "" && entityID != "":
		entries, err = store.ListAuditByEntity(r.Context(), h.DB, entityType, entityID)
	default:
		jsonError(w, http.StatusBadRequest, "actor or entity_type+entity_id required")
		return
	}
	if err != nil {
		storeError(w, err)
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// GetThreshold handles GET /api/admin/settings/low-stock-threshold.
func (h *AdminHandler) GetThreshold(w http.ResponseWriter, r *http.Request) {
	threshold, err := store.LowStockThreshold(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, thresholdRequest{Threshold: threshold})
}

// SetThreshold handles PUT /api/admin/settings/low-stock-threshold.
func (h *AdminHandler) SetThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Threshold < 1 {
		jsonError(w, http.StatusBadRequest, "threshold must be positive")
		return
	}

	if err := store.SetLowStockThreshold(r.Context(), h.DB, req.Threshold); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, thresholdRequest{Threshold: req.Threshold})
}
