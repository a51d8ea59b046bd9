// Package state holds the simulator's application state: the catalog, the
// working ledger, the targets and the saved combos. Every change goes
// through Reduce; Store adds locking and persistence around it.
package state

import (
	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/combos"
	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
)

type State struct {
	Catalog []catalog.MenuItem
	Ledger  ledger.Ledger
	Targets nutrition.Targets
	Saves   []combos.SavedCombo
}

// Initial is the state of a fresh installation using items as the catalog.
func Initial(items []catalog.MenuItem) State {
	return State{
		Catalog: catalog.Clone(items),
		Ledger:  ledger.Ledger{},
		Targets: nutrition.DefaultTargets(),
		Saves:   []combos.SavedCombo{},
	}
}

func (s State) Totals() nutrition.Totals {
	return nutrition.ComputeTotals(s.Catalog, s.Ledger)
}

func (s State) Evaluation() nutrition.Evaluation {
	return nutrition.Evaluate(s.Totals(), s.Targets)
}

// Orphans lists selected ids that the catalog no longer contains.
func (s State) Orphans() []string {
	return s.Ledger.Orphans(catalog.IDs(s.Catalog))
}

// Visible is the catalog narrowed by a search query.
func (s State) Visible(query string) []catalog.MenuItem {
	return catalog.Filter(s.Catalog, query)
}
