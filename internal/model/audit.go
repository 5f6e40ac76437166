package model

import "time"

// AuditEntry is one immutable record of who did what to which entity.
// The audit log is append-only; no code path updates or deletes entries.
type AuditEntry struct {
	ID          int64     `json:"id"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	Action      string    `json:"action"`
	Details     string    `json:"details,omitempty"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// Audited entity types.
const (
	EntityProduct = "PRODUCT"
	EntitySale    = "SALE"
	EntityUser    = "USER"
)

// Audit actions.
const (
	ActionCreate      = "CREATE"
	ActionUpdate      = "UPDATE"
	ActionDelete      = "DELETE"
	ActionStockUpdate = "STOCK_UPDATE"
	ActionReceipt     = "RECEIPT"
)
