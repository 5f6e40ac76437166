package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/erazmer/lekarna/internal/imaging"
	"github.com/erazmer/lekarna/internal/model"
	"github.com/erazmer/lekarna/internal/store"
)

// ProductsHandler handles catalog and stock endpoints.
type ProductsHandler struct {
	DB *sql.DB
}

type stockUpdateRequest struct {
	StockChange int    `json:"stock_change"`
	Reason      string `json:"reason"`
}

// parsePage extracts page/size query parameters with sane bounds.
func parsePage(r *http.Request) (limit, offset int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return size, page * size
}

// pagePayload wraps a page of results with its total count.
func pagePayload(items any, total, limit, offset int) map[string]any {
	return map[string]any{
		"items": items,
		"total": total,
		"page":  offset / limit,
		"size":  limit,
	}
}

// recordAudit appends an audit entry for an already-applied change. On
// failure it reports the ledger problem to the client and returns false;
// the caller must not send another response.
func recordAudit(w http.ResponseWriter, r *http.Request, db *sql.DB, e model.AuditEntry) bool {
	if err := store.AppendAudit(r.Context(), db, e); err != nil {
		storeError(w, err)
		return false
	}
	return true
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProductFilter{
		NameContains: q.Get("name"),
		Category:     q.Get("category"),
		Status:       q.Get("status"),
	}
	if v := q.Get("stock_below"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid stock_below")
			return
		}
		filter.StockBelow = &n
	}
	if v := q.Get("stock_above"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid stock_above")
			return
		}
		filter.StockAbove = &n
	}

	limit, offset := parsePage(r)
	products, total, err := store.SearchProducts(r.Context(), h.DB, filter, limit, offset)
	if err != nil {
		storeError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	jsonResponse(w, http.StatusOK, pagePayload(products, total, limit, offset))
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var in model.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if in.Price.IsNegative() {
		jsonError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	if in.Stock < 0 {
		jsonError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	p, err := store.CreateProduct(r.Context(), h.DB, in)
	if err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType:  model.EntityProduct,
		EntityID:    p.ID,
		Action:      model.ActionCreate,
		Details:     fmt.Sprintf("Created: %s", p.Name),
		PerformedBy: claims.Email,
	}) {
		return
	}

	jsonResponse(w, http.StatusCreated, p)
}

// Get handles GET /api/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := store.GetProduct(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

// Update handles PUT /api/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id := r.PathValue("id")

	var in model.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if in.Price.IsNegative() {
		jsonError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	if in.Stock < 0 {
		jsonError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	before, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}

	p, err := store.UpdateProduct(r.Context(), h.DB, id, in)
	if err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType: model.EntityProduct,
		EntityID:   p.ID,
		Action:     model.ActionUpdate,
		Details: fmt.Sprintf("Before: name %s, stock %d, status %s; After: name %s, stock %d, status %s",
			before.Name, before.Stock, before.Status, p.Name, p.Stock, p.Status),
		PerformedBy: claims.Email,
	}) {
		return
	}

	jsonResponse(w, http.StatusOK, p)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	p, err := store.DeleteProduct(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}

	// The row is gone; the audit entry preserves what was deleted.
	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType:  model.EntityProduct,
		EntityID:    p.ID,
		Action:      model.ActionDelete,
		Details:     fmt.Sprintf("Deleted: %s", p.Name),
		PerformedBy: claims.Email,
	}) {
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// UpdateStock handles PATCH /api/products/{id}/stock.
func (h *ProductsHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id := r.PathValue("id")

	var req stockUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StockChange == 0 {
		jsonError(w, http.StatusBadRequest, "stock_change must be non-zero")
		return
	}
	if req.Reason == "" {
		jsonError(w, http.StatusBadRequest, "reason required")
		return
	}

	p, err := store.AdjustStock(r.Context(), h.DB, id, req.StockChange)
	if err != nil {
		storeError(w, err)
		return
	}

	if !recordAudit(w, r, h.DB, model.AuditEntry{
		EntityType: model.EntityProduct,
		EntityID:   p.ID,
		Action:     model.ActionStockUpdate,
		Details: fmt.Sprintf("Stock: %d -> %d, Reason: %s",
			p.Stock-req.StockChange, p.Stock, req.Reason),
		PerformedBy: claims.Email,
	}) {
		return
	}

	jsonResponse(w, http.StatusOK, p)
}

// Categories handles GET /api/products/categories.
func (h *ProductsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.Categories())
}

// UploadImage handles PUT /api/products/{id}/image.
func (h *ProductsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetProductImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/products/{id}/image.
func (h *ProductsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetProductImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
