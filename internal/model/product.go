package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product with a tracked stock count.
// Status is derived from stock and never set directly by callers.
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	Category          string          `json:"category"`
	Status            string          `json:"status"`
	ManufacturingDate string          `json:"manufacturing_date"`
	ExpirationDate    string          `json:"expiration_date"`
	ImageMime         string          `json:"image_mime,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductInput carries the caller-supplied fields for creating or updating
// a product. Status is absent on purpose: it is always recomputed from Stock.
type ProductInput struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	Category          string          `json:"category"`
	ManufacturingDate string          `json:"manufacturing_date"`
	ExpirationDate    string          `json:"expiration_date"`
}

// Product statuses.
const (
	StatusOutOfStock = "out_of_stock"
	StatusLowStock   = "low_stock"
	StatusAvailable  = "available"
)

// Product categories.
const (
	CategoryMedication = "medication"
	CategoryAntibiotic = "antibiotic"
	CategoryVitamin    = "vitamin"
	CategoryFirstAid   = "first_aid"
	CategoryHygiene    = "hygiene"
	CategoryEquipment  = "equipment"
)

// DefaultLowStockThreshold is the stock count below which a product is
// classified low_stock. Overridable at runtime through the settings store.
const DefaultLowStockThreshold = 10

// DateFormat is the wire and storage format for product dates.
const DateFormat = "2006-01-02"

// Categories lists the known categories in a stable order.
func Categories() []string {
	return []string{
		CategoryMedication,
		CategoryAntibiotic,
		CategoryVitamin,
		CategoryFirstAid,
		CategoryHygiene,
		CategoryEquipment,
	}
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryMedication, CategoryAntibiotic, CategoryVitamin,
		CategoryFirstAid, CategoryHygiene, CategoryEquipment:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOutOfStock, StatusLowStock, StatusAvailable:
		return true
	}
	return false
}

// StatusForStock derives the availability status from a stock count.
// Pure and total: 0 is out_of_stock, anything below threshold is low_stock,
// threshold and above is available.
func StatusForStock(stock, threshold int) string {
	if stock == 0 {
		return StatusOutOfStock
	}
	if stock < threshold {
		return StatusLowStock
	}
	return StatusAvailable
}

// ValidateDates checks that expiration is not before manufacturing and not
// before today. Returns ErrInvalidDates (wrapped) on violation.
func ValidateDates(manufacturing, expiration string) error {
	mfg, err := time.Parse(DateFormat, manufacturing)
	if err != nil {
		return fmt.Errorf("manufacturing date %q: %w", manufacturing, ErrInvalidDates)
	}
	exp, err := time.Parse(DateFormat, expiration)
	if err != nil {
		return fmt.Errorf("expiration date %q: %w", expiration, ErrInvalidDates)
	}
	if exp.Before(mfg) {
		return fmt.Errorf("expiration before manufacturing: %w", ErrInvalidDates)
	}
	today, _ := time.Parse(DateFormat, time.Now().Format(DateFormat))
	if exp.Before(today) {
		return fmt.Errorf("expiration in the past: %w", ErrInvalidDates)
	}
	return nil
}
