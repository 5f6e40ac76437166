package model

import "errors"

// Sentinel errors for the inventory and sale engine. Stores wrap these with
// context; callers match them with errors.Is.
var (
	// ErrNotFound is returned when an id has no matching record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDates is returned when a product's expiration date precedes
	// its manufacturing date or lies in the past.
	ErrInvalidDates = errors.New("invalid product dates")

	// ErrInsufficientStock is returned when a sale requests more units than
	// are available.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNegativeStock is returned when a stock adjustment would drive the
	// count below zero.
	ErrNegativeStock = errors.New("stock cannot become negative")

	// ErrInvalidCategory is returned for a category outside the known set.
	ErrInvalidCategory = errors.New("unknown category")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("unknown status")

	// ErrLedgerWrite is returned when an audit log append did not durably
	// succeed. The primary mutation may already be committed; callers must
	// retry the audit write, not the mutation.
	ErrLedgerWrite = errors.New("audit log write failed")
)
