package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/combos"
	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
	"github.com/fdg312/mealsim/internal/strategy"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNoRandSource  = errors.New("random source is required")
)

// Action is a request to change the state. The concrete types below are the
// only actions Reduce understands.
type Action interface {
	action()
}

type SetQuantity struct {
	ID  string
	Qty int
}

// AddQuantity changes a quantity by Delta, never going below zero.
type AddQuantity struct {
	ID    string
	Delta int
}

type ClearLedger struct{}

type SetTargets struct {
	Targets nutrition.Targets
}

// ApplyGreedy replaces the ledger with the greedy protein-per-price pick.
type ApplyGreedy struct{}

// ApplyRandom replaces the ledger with a random pick under budget.
type ApplyRandom struct {
	Rand strategy.Rand
}

// SaveCombo snapshots the ledger, and the targets when IncludeTargets is set.
type SaveCombo struct {
	Name           string
	IncludeTargets bool
	At             time.Time
}

// LoadCombo replaces the ledger with a saved one. Saved targets, when
// present, replace the current targets as well.
type LoadCombo struct {
	ID string
}

type DeleteCombo struct {
	ID string
}

// ReplaceCatalog swaps in an edited catalog. The edit is checked as a whole
// and rejected if any item is invalid; the ledger is kept even if it now
// references removed items.
type ReplaceCatalog struct {
	Items []catalog.MenuItem
}

// ResetCatalog restores the default catalog.
type ResetCatalog struct{}

// ImportCatalog applies the usable parts of an imported catalog document.
// A nil field is left untouched.
type ImportCatalog struct {
	Items   []catalog.MenuItem
	Targets *nutrition.Targets
}

// ImportSaves merges imported combos, skipping ids that already exist.
type ImportSaves struct {
	Saves []combos.SavedCombo
}

func (SetQuantity) action()    {}
func (AddQuantity) action()    {}
func (ClearLedger) action()    {}
func (SetTargets) action()     {}
func (ApplyGreedy) action()    {}
func (ApplyRandom) action()    {}
func (SaveCombo) action()      {}
func (LoadCombo) action()      {}
func (DeleteCombo) action()    {}
func (ReplaceCatalog) action() {}
func (ResetCatalog) action()   {}
func (ImportCatalog) action()  {}
func (ImportSaves) action()    {}

// Env carries what Reduce needs beyond the state itself.
type Env struct {
	Capacity       int                // saved combo capacity, DefaultCapacity when 0
	DefaultCatalog []catalog.MenuItem // used by ResetCatalog, built-in catalog when nil
}

// Reduce returns the state after applying a. It never modifies s; on error
// the returned state is s unchanged.
func Reduce(s State, a Action, env Env) (State, error) {
	next := s
	switch a := a.(type) {
	case SetQuantity:
		next.Ledger = s.Ledger.Set(a.ID, a.Qty)

	case AddQuantity:
		next.Ledger = s.Ledger.Add(a.ID, a.Delta)

	case ClearLedger:
		next.Ledger = ledger.Ledger{}

	case SetTargets:
		next.Targets = a.Targets.Clone()

	case ApplyGreedy:
		next.Ledger = strategy.Greedy(s.Catalog, s.Targets)

	case ApplyRandom:
		if a.Rand == nil {
			return s, ErrNoRandSource
		}
		next.Ledger = strategy.Random(s.Catalog, s.Targets, a.Rand)

	case SaveCombo:
		var targets *nutrition.Targets
		if a.IncludeTargets {
			targets = &s.Targets
		}
		c := combos.Create(a.Name, s.Ledger, targets, a.At)
		next.Saves = combos.Insert(s.Saves, c, env.Capacity)

	case LoadCombo:
		c, ok := combos.Find(s.Saves, a.ID)
		if !ok {
			return s, fmt.Errorf("load %s: %w", a.ID, combos.ErrNotFound)
		}
		next.Ledger = c.Qty.Compact()
		if c.Targets != nil {
			next.Targets = c.Targets.Clone()
		}

	case DeleteCombo:
		saves, err := combos.Delete(s.Saves, a.ID)
		if err != nil {
			return s, fmt.Errorf("delete %s: %w", a.ID, err)
		}
		next.Saves = saves

	case ReplaceCatalog:
		if err := catalog.Check(a.Items); err != nil {
			return s, err
		}
		next.Catalog = catalog.Clone(a.Items)

	case ResetCatalog:
		if env.DefaultCatalog != nil {
			next.Catalog = catalog.Clone(env.DefaultCatalog)
		} else {
			next.Catalog = catalog.Default()
		}

	case ImportCatalog:
		if a.Items != nil {
			if err := catalog.Check(a.Items); err != nil {
				return s, err
			}
			next.Catalog = catalog.Clone(a.Items)
		}
		if a.Targets != nil {
			next.Targets = a.Targets.Clone()
		}

	case ImportSaves:
		next.Saves, _ = combos.Merge(s.Saves, a.Saves, env.Capacity)

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	return next, nil
}
