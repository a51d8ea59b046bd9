package nutrition

import (
	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/ledger"
)

// ComputeTotals sums price and nutrition over items weighted by the ledger.
// Missing attributes count as zero and negative quantities are ignored.
func ComputeTotals(items []catalog.MenuItem, l ledger.Ledger) Totals {
	var t Totals
	for _, item := range items {
		qty := l.Qty(item.ID)
		if qty == 0 {
			continue
		}
		q := float64(qty)
		t.Count += qty
		t.Price += item.Price * qty
		t.Kcal += value(item.Kcal) * q
		t.Protein += value(item.Protein) * q
		t.Fat += value(item.Fat) * q
		t.Carbs += value(item.Carbs) * q
		t.Salt += value(item.Salt) * q
	}
	return t
}

// LineTotals is ComputeTotals for a single item.
func LineTotals(item catalog.MenuItem, qty int) Totals {
	return ComputeTotals([]catalog.MenuItem{item}, ledger.Ledger{item.ID: qty})
}

// Evaluate checks totals against targets. Unset targets always pass; the
// protein target is a lower bound, the others are upper bounds.
func Evaluate(t Totals, targets Targets) Evaluation {
	return Evaluation{
		Budget:  targets.Budget == nil || float64(t.Price) <= *targets.Budget,
		Kcal:    targets.MaxKcal == nil || t.Kcal <= *targets.MaxKcal,
		Protein: targets.MinProtein == nil || t.Protein >= *targets.MinProtein,
		Salt:    targets.MaxSalt == nil || t.Salt <= *targets.MaxSalt,
	}
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
