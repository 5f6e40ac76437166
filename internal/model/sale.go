package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a committed sale. Identity is assigned at commit time;
// a draft sale has none.
type Sale struct {
	ID          string          `json:"id"`
	PerformedBy string          `json:"performed_by"`
	SaleDate    time.Time       `json:"sale_date"`
	Total       decimal.Decimal `json:"total"`
	Lines       []SaleLine      `json:"lines"`
}

// SaleLine is one line of a sale. ProductName and UnitPrice are snapshots
// taken at commit time and never change afterwards, regardless of later
// product edits or deletion.
type SaleLine struct {
	ID          int64           `json:"id,omitempty"`
	SaleID      string          `json:"sale_id,omitempty"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal returns quantity times the snapshotted unit price.
func (l SaleLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DraftSale is a priced-but-uncommitted sale. It is never persisted and
// pricing it never mutates stock; availability is valid only at the moment
// of the check.
type DraftSale struct {
	Total decimal.Decimal `json:"total"`
	Lines []SaleLine      `json:"lines"`
}
