// Package strategy fills a ledger automatically from the catalog.
package strategy

import (
	"math"
	"sort"

	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
)

// Rand is the random source used by Random. *math/rand/v2.Rand satisfies it,
// so tests can pass a seeded generator.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Greedy picks items by protein per currency unit, best first, adding one
// unit of each affordable item per pass until nothing else fits the budget.
// Ties keep catalog order.
//
// Passes in which every affordable item fits again are applied in bulk, so
// the work depends on the catalog size and not on the budget.
func Greedy(items []catalog.MenuItem, targets nutrition.Targets) ledger.Ledger {
	remaining := budgetUnits(targets.BudgetOr(nutrition.DefaultBudget))
	ranked := priced(items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ratio(ranked[i]) > ratio(ranked[j])
	})

	out := ledger.Ledger{}
	for {
		affordable := ranked[:0:0]
		var sum int64
		whole := true
		for _, item := range ranked {
			price := int64(item.Price)
			if price > remaining {
				continue
			}
			affordable = append(affordable, item)
			if whole && price <= remaining-sum {
				sum += price
			} else {
				whole = false
			}
		}
		if len(affordable) == 0 {
			return out
		}

		// All but the last of the identical passes.
		if whole {
			if k := remaining/sum - 1; k > 0 {
				for _, item := range affordable {
					out[item.ID] += int(k)
				}
				remaining -= k * sum
			}
		}

		for _, item := range affordable {
			if price := int64(item.Price); price <= remaining {
				out[item.ID]++
				remaining -= price
			}
		}
		ranked = affordable
	}
}

// Random shuffles the catalog and, for each item, tries one or two units,
// keeping each with probability 0.75 if it still fits the budget.
func Random(items []catalog.MenuItem, targets nutrition.Targets, rng Rand) ledger.Ledger {
	remaining := budgetUnits(targets.BudgetOr(nutrition.DefaultBudget))
	pool := priced(items)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	out := ledger.Ledger{}
	for _, item := range pool {
		repeats := 1 + rng.IntN(2)
		for r := 0; r < repeats; r++ {
			price := int64(item.Price)
			if rng.Float64() < 0.75 && price <= remaining {
				out[item.ID]++
				remaining -= price
			}
		}
	}
	return out
}

// budgetUnits turns a budget into whole currency units. Prices are integers,
// so flooring does not change which combinations fit.
func budgetUnits(budget float64) int64 {
	switch {
	case math.IsNaN(budget) || budget <= 0:
		return 0
	case budget >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(math.Floor(budget))
}

// priced copies the items that cost something. Free items would let the
// greedy loop add units forever.
func priced(items []catalog.MenuItem) []catalog.MenuItem {
	out := make([]catalog.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Price > 0 {
			out = append(out, item)
		}
	}
	return out
}

func ratio(item catalog.MenuItem) float64 {
	return item.ProteinOrZero() / float64(item.Price)
}
