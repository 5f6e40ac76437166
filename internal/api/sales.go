package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/erazmer/lekarna/internal/model"
	"github.com/erazmer/lekarna/internal/receipt"
	"github.com/erazmer/lekarna/internal/store"
)

// SalesHandler handles sale endpoints.
type SalesHandler struct {
	DB *sql.DB
}

type saleRequest struct {
	Lines []store.SaleLineInput `json:"lines"`
}

// validateSaleRequest rejects empty and non-positive lines at the boundary,
// before any store work.
func validateSaleRequest(req saleRequest) error {
	if len(req.Lines) == 0 {
		return fmt.Errorf("at least one line required")
	}
	for _, l := range req.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("product_id required on every line")
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive")
		}
	}
	return nil
}

// Create handles POST /api/sales.
func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateSaleRequest(req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	sale, err := store.CreateSale(r.Context(), h.DB, req.Lines, claims.Email)
	if err != nil {
		if errors.Is(err, model.ErrLedgerWrite) && sale != nil {
			// The sale is committed; only the audit write failed. Say so
			// instead of masking it as a failed sale.
			jsonResponse(w, http.StatusInternalServerError, map[string]any{
				"error": "sale committed but audit log write failed",
				"sale":  sale,
			})
			return
		}
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, sale)
}

// Draft handles POST /api/sales/draft. It prices the requested lines
// without reserving or consuming anything.
func (h *SalesHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateSaleRequest(req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := store.PriceDraft(r.Context(), h.DB, req.Lines)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, draft)
}

// List handles GET /api/sales. Admins see every sale; pharmacists only
// their own.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	performedBy := claims.Email
	if claims.Role == model.RoleAdmin {
		performedBy = r.URL.Query().Get("performed_by")
	}

	limit, offset := parsePage(r)
	sales, total, err := store.ListSales(r.Context(), h.DB, performedBy, limit, offset)
	if err != nil {
		storeError(w, err)
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	jsonResponse(w, http.StatusOK, pagePayload(sales, total, limit, offset))
}

// Get handles GET /api/sales/{id}.
func (h *SalesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sale, err := store.GetSale(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	if claims.Role != model.RoleAdmin && sale.PerformedBy != claims.Email {
		jsonError(w, http.StatusForbidden, "not your sale")
		return
	}

	jsonResponse(w, http.StatusOK, sale)
}

// Receipt handles GET /api/sales/{id}/receipt.
func (h *SalesHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	sale, err := store.GetSale(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if claims.Role != model.RoleAdmin && sale.PerformedBy != claims.Email {
		jsonError(w, http.StatusForbidden, "not your sale")
		return
	}

	doc, err := receipt.Render(sale)
	if err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType:  model.EntitySale,
		EntityID:    sale.ID,
		Action:      model.ActionReceipt,
		Details:     "Receipt generated",
		PerformedBy: claims.Email,
	}) {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(doc)
}
