package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazmer/lekarna/internal/model"
)

// SaleLineInput is one requested line of a sale: a product and a quantity.
type SaleLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PriceDraft prices a prospective sale without committing it. Each line is
// resolved against the catalog, its current price snapshotted and its stock
// sufficiency checked. Nothing is persisted and no stock is reserved: the
// result is valid only at the moment of the check and a later CreateSale
// re-validates everything.
func PriceDraft(ctx context.Context, db *sql.DB, lines []SaleLineInput) (*model.DraftSale, error) {
	draft := &model.DraftSale{Total: decimal.Zero}

	for _, line := range lines {
		p, err := GetProduct(ctx, db, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Stock < line.Quantity {
			return nil, fmt.Errorf("%s: have %d, need %d: %w", p.Name, p.Stock, line.Quantity, model.ErrInsufficientStock)
		}

		l := model.SaleLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
		}
		draft.Lines = append(draft.Lines, l)
		draft.Total = draft.Total.Add(l.LineTotal())
	}

	return draft, nil
}

// CreateSale commits a multi-line sale. Every per-line stock consumption,
// the sale row and its line snapshots happen in one transaction: if any line
// fails, earlier decrements are rolled back and nothing is recorded.
//
// The audit append runs after the transaction commits, as a separate step.
// If it fails the sale stands and the error wraps ErrLedgerWrite so the
// caller can retry the audit write rather than the sale.
func CreateSale(ctx context.Context, db *sql.DB, lines []SaleLineInput, actor string) (*model.Sale, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("sale needs at least one line")
	}

	threshold, err := LowStockThreshold(ctx, db)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	saleID := uuid.NewString()
	total := decimal.Zero
	var saleLines []model.SaleLine

	for _, line := range lines {
		p, err := consumeStockTx(ctx, tx, line.ProductID, line.Quantity, threshold)
		if err != nil {
			return nil, err
		}

		l := model.SaleLine{
			SaleID:      saleID,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
		}
		saleLines = append(saleLines, l)
		total = total.Add(l.LineTotal())
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sales (id, performed_by, total) VALUES (?, ?, ?)`,
		saleID, actor, total.String(),
	); err != nil {
		return nil, fmt.Errorf("recording sale: %w", err)
	}

	for _, l := range saleLines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price)
			 VALUES (?, ?, ?, ?, ?)`,
			l.SaleID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice.String(),
		); err != nil {
			return nil, fmt.Errorf("recording sale line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	sale, err := GetSale(ctx, db, saleID)
	if err != nil {
		return nil, err
	}

	err = AppendAudit(ctx, db, model.AuditEntry{
		EntityType:  model.EntitySale,
		EntityID:    saleID,
		Action:      model.ActionCreate,
		Details:     fmt.Sprintf("Sale of %d lines, total %s", len(saleLines), total.String()),
		PerformedBy: actor,
	})
	if err != nil {
		return sale, err
	}

	return sale, nil
}

// GetSale returns a sale with its lines in insertion order.
func GetSale(ctx context.Context, db *sql.DB, id string) (*model.Sale, error) {
	s := &model.Sale{}
	var total string
	err := db.QueryRowContext(ctx,
		`SELECT id, performed_by, sale_date, total FROM sales WHERE id = ?`, id,
	).Scan(&s.ID, &s.PerformedBy, &s.SaleDate, &total)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale: %w", err)
	}
	s.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parsing sale total %q: %w", total, err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, sale_id, product_id, product_name, quantity, unit_price
		 FROM sale_items WHERE sale_id = ? ORDER BY id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.SaleLine
		var unitPrice string
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.ProductName, &l.Quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scanning sale line: %w", err)
		}
		l.UnitPrice, err = decimal.NewFromString(unitPrice)
		if err != nil {
			return nil, fmt.Errorf("parsing unit price %q: %w", unitPrice, err)
		}
		s.Lines = append(s.Lines, l)
	}
	return s, rows.Err()
}

// ListSales returns a page of sales, newest first, plus the total count.
// With a non-empty performedBy only that actor's sales are returned.
func ListSales(ctx context.Context, db *sql.DB, performedBy string, limit, offset int) ([]model.Sale, int, error) {
	where := ``
	var args []any
	if performedBy != "" {
		where = ` WHERE performed_by = ?`
		args = append(args, performedBy)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sales: %w", err)
	}

	query := `SELECT id, performed_by, sale_date, total FROM sales` + where +
		` ORDER BY sale_date DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var s model.Sale
		var amount string
		if err := rows.Scan(&s.ID, &s.PerformedBy, &s.SaleDate, &amount); err != nil {
			return nil, 0, fmt.Errorf("scanning sale: %w", err)
		}
		s.Total, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, 0, fmt.Errorf("parsing sale total %q: %w", amount, err)
		}
		sales = append(sales, s)
	}
	return sales, total, rows.Err()
}
