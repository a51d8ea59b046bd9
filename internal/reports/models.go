package reports

import (
	"errors"

	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
)

const (
	FormatText = "txt"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

var ErrInvalidFormat = errors.New("invalid format")

// Line is one selected menu item with its quantity and line totals.
type Line struct {
	Item   catalog.MenuItem
	Qty    int
	Totals nutrition.Totals
}

// Summary is everything an order summary shows, in catalog order.
type Summary struct {
	Lines      []Line
	Orphans    []string // selected ids missing from the catalog
	Totals     nutrition.Totals
	Targets    nutrition.Targets
	Evaluation nutrition.Evaluation
}

// NewSummary collects the selected items of l over items and evaluates the
// totals against targets.
func NewSummary(items []catalog.MenuItem, l ledger.Ledger, targets nutrition.Targets) Summary {
	s := Summary{
		Orphans: l.Orphans(catalog.IDs(items)),
		Totals:  nutrition.ComputeTotals(items, l),
		Targets: targets.Clone(),
	}
	for _, item := range items {
		qty := l.Qty(item.ID)
		if qty == 0 {
			continue
		}
		s.Lines = append(s.Lines, Line{Item: item, Qty: qty, Totals: nutrition.LineTotals(item, qty)})
	}
	s.Evaluation = nutrition.Evaluate(s.Totals, targets)
	return s
}

// ContentType returns the MIME type for a report format.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}
