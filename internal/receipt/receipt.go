// Package receipt renders committed sales into printable plain-text
// receipts. It only consumes sales and never reaches back into the catalog:
// the line snapshots carry everything a receipt needs, even for products
// deleted since the sale.
package receipt

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/erazmer/lekarna/internal/model"
)

// Header is printed at the top of every receipt.
const Header = "PharmaVita - Sale receipt"

// timeFormat is the timestamp layout on receipts.
const timeFormat = "2006-01-02 15:04"

// Render produces the receipt document for a committed sale.
func Render(sale *model.Sale) ([]byte, error) {
	if sale.ID == "" {
		return nil, fmt.Errorf("cannot render a receipt for an uncommitted sale")
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, Header)
	fmt.Fprintf(&buf, "Sale:       %s\n", sale.ID)
	fmt.Fprintf(&buf, "Pharmacist: %s\n", sale.PerformedBy)
	fmt.Fprintf(&buf, "Date:       %s\n", sale.SaleDate.Format(timeFormat))
	fmt.Fprintln(&buf)

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Product\tQty\tUnit price\tTotal")
	for _, l := range sale.Lines {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			l.ProductName, l.Quantity, l.UnitPrice.StringFixed(2), l.LineTotal().StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("formatting receipt lines: %w", err)
	}

	fmt.Fprintf(&buf, "\nTotal: %s\n", sale.Total.StringFixed(2))
	return buf.Bytes(), nil
}
