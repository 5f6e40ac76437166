package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazmer/lekarna/internal/model"
)

func TestRender(t *testing.T) {
	sale := &model.Sale{
		ID:          "7f9c3a10",
		PerformedBy: "alice@pharmavita.test",
		SaleDate:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Total:       decimal.NewFromFloat(11.50),
		Lines: []model.SaleLine{
			{ProductName: "Aspirin 500", Quantity: 2, UnitPrice: decimal.NewFromFloat(2.50)},
			{ProductName: "Gauze", Quantity: 1, UnitPrice: decimal.NewFromFloat(6.50)},
		},
	}

	out, err := Render(sale)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	text := string(out)
	for _, want := range []string{
		Header,
		"7f9c3a10",
		"alice@pharmavita.test",
		"2026-03-14 09:30",
		"Aspirin 500",
		"5.00", // 2 * 2.50 line total
		"Gauze",
		"Total: 11.50",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("receipt missing %q:\n%s", want, text)
		}
	}
}

func TestRenderRejectsDraft(t *testing.T) {
	if _, err := Render(&model.Sale{}); err == nil {
		t.Error("expected error for sale without id")
	}
}
