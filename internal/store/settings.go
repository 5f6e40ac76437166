package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/erazmer/lekarna/internal/model"
)

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	// Try to generate and insert first (safe against races).
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}

// LowStockThreshold returns the configured low-stock threshold, falling back
// to the default when none is set.
func LowStockThreshold(ctx context.Context, db *sql.DB) (int, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'low_stock_threshold'`,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return model.DefaultLowStockThreshold, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying low_stock_threshold: %w", err)
	}

	threshold, err := strconv.Atoi(value)
	if err != nil || threshold < 1 {
		return 0, fmt.Errorf("invalid low_stock_threshold %q", value)
	}
	return threshold, nil
}

// SetLowStockThreshold stores a new low-stock threshold.
func SetLowStockThreshold(ctx context.Context, db *sql.DB, threshold int) error {
	if threshold < 1 {
		return fmt.Errorf("threshold must be positive")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('low_stock_threshold', ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(threshold),
	)
	if err != nil {
		return fmt.Errorf("storing low_stock_threshold: %w", err)
	}
	return nil
}
