package nutrition

import "github.com/fdg312/mealsim/internal/catalog"

// Targets are the user's limits for a meal. A nil field leaves that
// dimension unconstrained.
type Targets struct {
	Budget     *float64 `json:"budget,omitempty"`
	MaxKcal    *float64 `json:"maxKcal,omitempty"`
	MinProtein *float64 `json:"minProtein,omitempty"`
	MaxSalt    *float64 `json:"maxSalt,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Targets) Clone() Targets {
	return Targets{
		Budget:     clonePtr(t.Budget),
		MaxKcal:    clonePtr(t.MaxKcal),
		MinProtein: clonePtr(t.MinProtein),
		MaxSalt:    clonePtr(t.MaxSalt),
	}
}

// BudgetOr returns the budget, or fallback when it is unset.
func (t Targets) BudgetOr(fallback float64) float64 {
	if t.Budget == nil {
		return fallback
	}
	return *t.Budget
}

// DefaultBudget is used by the selection strategies when no budget is set.
const DefaultBudget = 1000

// DefaultTargets returns the targets a new user starts with.
func DefaultTargets() Targets {
	return Targets{
		Budget:     catalog.Float(1000),
		MaxKcal:    catalog.Float(900),
		MinProtein: catalog.Float(20),
		MaxSalt:    catalog.Float(6),
	}
}

// Totals is the aggregate of a ledger over a catalog. It is always derived,
// never stored.
type Totals struct {
	Count   int     `json:"count"`
	Price   int     `json:"price"`
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
	Salt    float64 `json:"salt"`
}

// Evaluation is the pass/fail result per constrained dimension.
type Evaluation struct {
	Budget  bool `json:"budget"`
	Kcal    bool `json:"kcal"`
	Protein bool `json:"protein"`
	Salt    bool `json:"salt"`
}

// AllPass reports whether every dimension passed.
func (e Evaluation) AllPass() bool {
	return e.Budget && e.Kcal && e.Protein && e.Salt
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
