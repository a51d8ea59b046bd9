package strategy

import (
	"math/rand/v2"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
)

func budget(v float64) nutrition.Targets {
	return nutrition.Targets{Budget: catalog.Float(v)}
}

func cost(items []catalog.MenuItem, l ledger.Ledger) int {
	return nutrition.ComputeTotals(items, l).Price
}

func TestGreedy_PrefersProteinPerPrice(t *testing.T) {
	items := []catalog.MenuItem{
		{ID: "b", Price: 200, Protein: catalog.Float(5)},
		{ID: "a", Price: 100, Protein: catalog.Float(10)},
	}

	got := Greedy(items, budget(450))
	want := ledger.Ledger{"a": 2, "b": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGreedy_TiesKeepCatalogOrder(t *testing.T) {
	items := []catalog.MenuItem{
		{ID: "x", Price: 100, Protein: catalog.Float(10)},
		{ID: "y", Price: 200, Protein: catalog.Float(20)},
	}

	got := Greedy(items, budget(250))
	if !reflect.DeepEqual(got, ledger.Ledger{"x": 2}) {
		t.Fatalf("expected x first on ties, got %v", got)
	}
}

func TestGreedy_NeverExceedsBudget(t *testing.T) {
	items := catalog.Default()
	for _, b := range []float64{0, 99, 150, 451, 1000, 1999, 5000} {
		got := Greedy(items, budget(b))
		if c := cost(items, got); float64(c) > b {
			t.Fatalf("budget %.0f: cost %d exceeds budget", b, c)
		}
	}
}

func TestGreedy_FillsUntilCheapestDoesNotFit(t *testing.T) {
	items := catalog.Default()
	got := Greedy(items, budget(1000))

	cheapest := items[0].Price
	for _, it := range items {
		if it.Price > 0 && it.Price < cheapest {
			cheapest = it.Price
		}
	}
	if remaining := 1000 - cost(items, got); remaining >= cheapest {
		t.Fatalf("expected less than %d left over, got %d", cheapest, remaining)
	}
}

func TestGreedy_DefaultBudget(t *testing.T) {
	items := []catalog.MenuItem{{ID: "a", Price: 300, Protein: catalog.Float(1)}}
	got := Greedy(items, nutrition.Targets{})
	if got["a"] != 3 {
		t.Fatalf("expected 3 units under the default budget of 1000, got %v", got)
	}
}

func TestGreedy_SkipsFreeItemsAndDoesNotMutate(t *testing.T) {
	items := []catalog.MenuItem{
		{ID: "water", Price: 0, Protein: catalog.Float(0)},
		{ID: "b", Price: 500, Protein: catalog.Float(1)},
		{ID: "a", Price: 100, Protein: catalog.Float(9)},
	}
	before := catalog.Clone(items)

	got := Greedy(items, budget(600))
	if _, ok := got["water"]; ok {
		t.Fatalf("free items must not be selected, got %v", got)
	}
	if !reflect.DeepEqual(items, before) {
		t.Fatal("Greedy must not reorder or modify the catalog")
	}
}

func TestRandom_NeverExceedsBudget(t *testing.T) {
	items := catalog.Default()
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		b := float64(rng.IntN(3000))
		got := Random(items, budget(b), rng)
		if c := cost(items, got); float64(c) > b {
			t.Fatalf("run %d: cost %d exceeds budget %.0f", i, c, b)
		}
		for id, q := range got {
			if q < 1 || q > 2 {
				t.Fatalf("run %d: %s has quantity %d, expected 1 or 2", i, id, q)
			}
		}
	}
}

func TestRandom_SeededIsReproducible(t *testing.T) {
	items := catalog.Default()
	first := Random(items, budget(2000), rand.New(rand.NewPCG(7, 7)))
	second := Random(items, budget(2000), rand.New(rand.NewPCG(7, 7)))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical ledgers for the same seed, got %v and %v", first, second)
	}
}

func TestRandom_DoesNotMutateCatalog(t *testing.T) {
	items := catalog.Default()
	before := catalog.Clone(items)

	Random(items, budget(5000), rand.New(rand.NewPCG(3, 4)))
	if !reflect.DeepEqual(items, before) {
		t.Fatal("Random must not shuffle the caller's catalog")
	}
}

// passByPass fills the ledger one unit per item per pass, with no batching.
func passByPass(items []catalog.MenuItem, b float64) ledger.Ledger {
	ranked := priced(items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ratio(ranked[i]) > ratio(ranked[j])
	})
	out := ledger.Ledger{}
	spent := 0
	for {
		added := false
		for _, item := range ranked {
			if float64(spent+item.Price) <= b {
				out[item.ID]++
				spent += item.Price
				added = true
			}
		}
		if !added {
			return out
		}
	}
}

func TestGreedy_MatchesPassByPassFill(t *testing.T) {
	catalogs := map[string][]catalog.MenuItem{
		"default": catalog.Default(),
		"mixed": {
			{ID: "a", Price: 7, Protein: catalog.Float(3)},
			{ID: "b", Price: 3, Protein: catalog.Float(1)},
			{ID: "c", Price: 11, Protein: catalog.Float(5)},
			{ID: "d", Price: 2},
		},
		"expensive first": {
			{ID: "big", Price: 900, Protein: catalog.Float(900)},
			{ID: "small", Price: 1, Protein: catalog.Float(0.5)},
		},
	}
	budgets := []float64{0, 1, 2.5, 13, 99, 450, 1000, 1999.9, 4321}

	for name, items := range catalogs {
		t.Run(name, func(t *testing.T) {
			for _, b := range budgets {
				want := passByPass(items, b)
				if got := Greedy(items, budget(b)); !reflect.DeepEqual(got, want) {
					t.Fatalf("budget %v: expected %v, got %v", b, want, got)
				}
			}
		})
	}
}

func TestGreedy_LargeBudgetFinishesQuickly(t *testing.T) {
	items := []catalog.MenuItem{
		{ID: "a", Price: 1, Protein: catalog.Float(1)},
		{ID: "b", Price: 3, Protein: catalog.Float(1)},
	}

	done := make(chan ledger.Ledger, 1)
	go func() { done <- Greedy(items, budget(1e12)) }()

	select {
	case got := <-done:
		if got["a"]+3*got["b"] != 1e12 {
			t.Fatalf("expected the whole budget spent, got %v", got)
		}
		if got["a"] < got["b"] {
			t.Fatalf("expected the better ratio item to lead, got %v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Greedy did not finish for a budget of 1e12")
	}
}

func TestGreedy_UnboundedBudgetDoesNotOverflow(t *testing.T) {
	items := []catalog.MenuItem{{ID: "a", Price: 1, Protein: catalog.Float(1)}}

	got := Greedy(items, budget(1e300))
	if got["a"] <= 0 {
		t.Fatalf("expected a positive quantity, got %v", got)
	}
}

func TestRandom_LargeBudgetKeepsQuantitiesSmall(t *testing.T) {
	items := catalog.Default()
	got := Random(items, budget(1e15), rand.New(rand.NewPCG(5, 6)))
	for id, q := range got {
		if q < 1 || q > 2 {
			t.Fatalf("%s has quantity %d, expected 1 or 2", id, q)
		}
	}
}
