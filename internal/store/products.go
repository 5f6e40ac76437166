package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazmer/lekarna/internal/model"
)

// validateInput checks the closed category set and the date invariants.
// Runs before any mutation so a failure leaves state untouched.
func validateInput(in model.ProductInput) error {
	if !model.ValidCategory(in.Category) {
		return fmt.Errorf("category %q: %w", in.Category, model.ErrInvalidCategory)
	}
	return model.ValidateDates(in.ManufacturingDate, in.ExpirationDate)
}

// CreateProduct validates the input, derives the status from the initial
// stock and persists a new product.
func CreateProduct(ctx context.Context, db *sql.DB, in model.ProductInput) (*model.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	threshold, err := LowStockThreshold(ctx, db)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	status := model.StatusForStock(in.Stock, threshold)

	_, err = db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, stock, category, status, manufacturing_date, expiration_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Name, in.Description, in.Price.String(), in.Stock, in.Category, status,
		in.ManufacturingDate, in.ExpirationDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sql.DB, id string) (*model.Product, error) {
	return getProduct(ctx, db, id)
}

func getProduct(ctx context.Context, q querier, id string) (*model.Product, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, name, description, price, stock, category, status,
		        manufacturing_date, expiration_date, image_mime, created_at, updated_at
		 FROM products WHERE id = ?`, id,
	)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// scanProduct scans one product row. The scan argument lets it work for both
// *sql.Row and *sql.Rows.
func scanProduct(scan func(...any) error) (*model.Product, error) {
	p := &model.Product{}
	var description, imageMime sql.NullString
	var price string
	if err := scan(&p.ID, &p.Name, &description, &price, &p.Stock, &p.Category, &p.Status,
		&p.ManufacturingDate, &p.ExpirationDate, &imageMime, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parsing price %q: %w", price, err)
	}
	p.Price = parsed
	p.Description = description.String
	p.ImageMime = imageMime.String
	return p, nil
}

// UpdateProduct validates the input, recomputes the status from the new
// stock value and persists the changes.
func UpdateProduct(ctx context.Context, db *sql.DB, id string, in model.ProductInput) (*model.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	threshold, err := LowStockThreshold(ctx, db)
	if err != nil {
		return nil, err
	}
	status := model.StatusForStock(in.Stock, threshold)

	result, err := db.ExecContext(ctx,
		`UPDATE products
		 SET name = ?, description = ?, price = ?, stock = ?, category = ?, status = ?,
		     manufacturing_date = ?, expiration_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.Description, in.Price.String(), in.Stock, in.Category, status,
		in.ManufacturingDate, in.ExpirationDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}

	return GetProduct(ctx, db, id)
}

// DeleteProduct removes a product and returns its prior state so the caller
// can record the deleted name in the audit log.
func DeleteProduct(ctx context.Context, db *sql.DB, id string) (*model.Product, error) {
	p, err := GetProduct(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting product: %w", err)
	}

	return p, nil
}

// AdjustStock applies a signed delta to a product's stock inside a single
// transaction. The delta may be negative for corrections; the result must
// stay non-negative.
func AdjustStock(ctx context.Context, db *sql.DB, id string, delta int) (*model.Product, error) {
	threshold, err := LowStockThreshold(ctx, db)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Conditional update so the non-negative check and the decrement are one
	// atomic statement; the leading write also takes the SQLite write lock
	// before anything is read.
	result, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND stock + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return nil, fmt.Errorf("adjusting stock: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		p, err := getProduct(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("adjusting %s by %d from %d: %w", p.Name, delta, p.Stock, model.ErrNegativeStock)
	}

	p, err := syncStatus(ctx, tx, id, threshold)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing adjustment: %w", err)
	}

	return p, nil
}

// ConsumeStock removes quantity units from a product's stock for a sale.
// Like AdjustStock with a negative delta, but shortfall is reported as
// ErrInsufficientStock so "not enough to sell" stays distinguishable from
// an arbitrary bad adjustment.
func ConsumeStock(ctx context.Context, db *sql.DB, id string, quantity int) (*model.Product, error) {
	threshold, err := LowStockThreshold(ctx, db)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := consumeStockTx(ctx, tx, id, quantity, threshold)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing consumption: %w", err)
	}

	return p, nil
}

// consumeStockTx performs one validated consumption inside an open
// transaction. Sale commits run several of these in one transaction so a
// mid-batch failure rolls every line back. The decrement is a single
// conditional UPDATE: sufficiency check and write cannot be interleaved by
// a concurrent consumer.
func consumeStockTx(ctx context.Context, tx *sql.Tx, id string, quantity int, threshold int) (*model.Product, error) {
	result, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND stock >= ?`,
		quantity, id, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("consuming stock: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		p, err := getProduct(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: have %d, need %d: %w", p.Name, p.Stock, quantity, model.ErrInsufficientStock)
	}

	return syncStatus(ctx, tx, id, threshold)
}

// syncStatus recomputes and stores the status derived from the current
// stock, so a persisted product can never disagree with the classifier.
// Returns the product in its updated state.
func syncStatus(ctx context.Context, q querier, id string, threshold int) (*model.Product, error) {
	p, err := getProduct(ctx, q, id)
	if err != nil {
		return nil, err
	}

	status := model.StatusForStock(p.Stock, threshold)
	if status != p.Status {
		if _, err := q.ExecContext(ctx,
			`UPDATE products SET status = ? WHERE id = ?`, status, id,
		); err != nil {
			return nil, fmt.Errorf("updating status: %w", err)
		}
		p.Status = status
	}
	return p, nil
}

// ProductFilter narrows a product search. Zero values mean "no constraint".
type ProductFilter struct {
	NameContains string
	Category     string
	Status       string
	StockBelow   *int
	StockAbove   *int
}

// SearchProducts returns a page of products matching the filter plus the
// total match count. Results are ordered by name.
func SearchProducts(ctx context.Context, db *sql.DB, filter ProductFilter, limit, offset int) ([]model.Product, int, error) {
	if filter.Category != "" && !model.ValidCategory(filter.Category) {
		return nil, 0, fmt.Errorf("category %q: %w", filter.Category, model.ErrInvalidCategory)
	}
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return nil, 0, fmt.Errorf("status %q: %w", filter.Status, model.ErrInvalidStatus)
	}

	where := ` WHERE 1=1`
	var args []any

	if filter.NameContains != "" {
		where += ` AND name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+filter.NameContains+"%")
	}
	if filter.Category != "" {
		where += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		where += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.StockBelow != nil {
		where += ` AND stock < ?`
		args = append(args, *filter.StockBelow)
	}
	if filter.StockAbove != nil {
		where += ` AND stock > ?`
		args = append(args, *filter.StockAbove)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := `SELECT id, name, description, price, stock, category, status,
	                 manufacturing_date, expiration_date, image_mime, created_at, updated_at
	          FROM products` + where + ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

// SetProductImage stores a product's processed photo.
func SetProductImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE products SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting product image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetProductImage returns a product's photo data and MIME type.
func GetProductImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM products WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting product image: %w", err)
	}
	return image, mime.String, nil
}
