package model

import (
	"errors"
	"testing"
	"time"
)

func TestStatusForStock(t *testing.T) {
	tests := []struct {
		stock     int
		threshold int
		want      string
	}{
		{0, 10, StatusOutOfStock},
		{1, 10, StatusLowStock},
		{9, 10, StatusLowStock},
		{10, 10, StatusAvailable},
		{11, 10, StatusAvailable},
		{1000, 10, StatusAvailable},
		{0, 5, StatusOutOfStock},
		{4, 5, StatusLowStock},
		{5, 5, StatusAvailable},
	}
	for _, tt := range tests {
		if got := StatusForStock(tt.stock, tt.threshold); got != tt.want {
			t.Errorf("StatusForStock(%d, %d) = %s, want %s", tt.stock, tt.threshold, got, tt.want)
		}
	}
}

func TestStatusForStockMonotone(t *testing.T) {
	// Increasing stock must never lower availability.
	rank := map[string]int{StatusOutOfStock: 0, StatusLowStock: 1, StatusAvailable: 2}
	prev := StatusForStock(0, DefaultLowStockThreshold)
	for stock := 1; stock <= 30; stock++ {
		cur := StatusForStock(stock, DefaultLowStockThreshold)
		if rank[cur] < rank[prev] {
			t.Fatalf("status dropped from %s to %s at stock %d", prev, cur, stock)
		}
		prev = cur
	}
}

func TestValidateDates(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0).Format(DateFormat)
	past := time.Now().AddDate(-1, 0, 0).Format(DateFormat)

	if err := ValidateDates(past, future); err != nil {
		t.Errorf("valid dates rejected: %v", err)
	}

	// Expiration before manufacturing.
	if err := ValidateDates("2024-01-01", "2023-12-31"); !errors.Is(err, ErrInvalidDates) {
		t.Errorf("expected ErrInvalidDates, got %v", err)
	}

	// Expiration in the past.
	if err := ValidateDates(past, past); !errors.Is(err, ErrInvalidDates) {
		t.Errorf("expected ErrInvalidDates for past expiration, got %v", err)
	}

	// Garbage input.
	if err := ValidateDates("not-a-date", future); !errors.Is(err, ErrInvalidDates) {
		t.Errorf("expected ErrInvalidDates for malformed date, got %v", err)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !ValidCategory(c) {
			t.Errorf("category %s reported invalid", c)
		}
	}
	if ValidCategory("COSMETICS") {
		t.Error("unknown category accepted")
	}
	if ValidCategory("") {
		t.Error("empty category accepted")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusOutOfStock, StatusLowStock, StatusAvailable} {
		if !ValidStatus(s) {
			t.Errorf("status %s reported invalid", s)
		}
	}
	if ValidStatus("AVAILABLE") {
		t.Error("unknown status accepted")
	}
}
