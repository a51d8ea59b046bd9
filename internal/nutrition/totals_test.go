package nutrition

import (
	"testing"

	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/ledger"
)

func testItems() []catalog.MenuItem {
	return []catalog.MenuItem{
		{ID: "a", Name: "A", Category: catalog.CategoryStaple, Price: 100, Protein: catalog.Float(10), Kcal: catalog.Float(250), Salt: catalog.Float(1.5)},
		{ID: "b", Name: "B", Category: catalog.CategorySide, Price: 200, Protein: catalog.Float(5), Fat: catalog.Float(3), Carbs: catalog.Float(20)},
		{ID: "c", Name: "C", Category: catalog.CategoryDessert, Price: 150},
	}
}

func TestComputeTotals_Example(t *testing.T) {
	items := []catalog.MenuItem{
		{ID: "a", Price: 100, Protein: catalog.Float(10)},
		{ID: "b", Price: 200, Protein: catalog.Float(5)},
	}

	got := ComputeTotals(items, ledger.Ledger{"a": 2, "b": 1})
	if got.Price != 400 || got.Protein != 25 || got.Count != 3 {
		t.Fatalf("expected price=400 protein=25 count=3, got %+v", got)
	}
}

func TestComputeTotals_EmptyLedgerIsZero(t *testing.T) {
	if got := ComputeTotals(testItems(), ledger.Ledger{}); got != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", got)
	}
	if got := ComputeTotals(testItems(), nil); got != (Totals{}) {
		t.Fatalf("expected zero totals for nil ledger, got %+v", got)
	}
}

func TestComputeTotals_NegativeQuantityIgnored(t *testing.T) {
	got := ComputeTotals(testItems(), ledger.Ledger{"a": -5})
	if got != ComputeTotals(testItems(), ledger.Ledger{}) {
		t.Fatalf("expected negative quantity to count as zero, got %+v", got)
	}
}

func TestComputeTotals_Linear(t *testing.T) {
	items := testItems()
	base := ledger.Ledger{"a": 1, "b": 2, "c": 3, "orphan": 4}
	one := ComputeTotals(items, base)

	for _, k := range []int{0, 1, 2, 7} {
		scaled := ledger.Ledger{}
		for id, q := range base {
			scaled[id] = q * k
		}
		got := ComputeTotals(items, scaled)
		fk := float64(k)
		want := Totals{
			Count:   one.Count * k,
			Price:   one.Price * k,
			Kcal:    one.Kcal * fk,
			Protein: one.Protein * fk,
			Fat:     one.Fat * fk,
			Carbs:   one.Carbs * fk,
			Salt:    one.Salt * fk,
		}
		if got != want {
			t.Fatalf("k=%d: expected %+v, got %+v", k, want, got)
		}
	}
}

func TestComputeTotals_IgnoresOrphans(t *testing.T) {
	got := ComputeTotals(testItems(), ledger.Ledger{"missing": 3})
	if got.Count != 0 {
		t.Fatalf("expected orphaned ids not to count, got %+v", got)
	}
}

func TestLineTotals(t *testing.T) {
	got := LineTotals(testItems()[0], 3)
	if got.Price != 300 || got.Kcal != 750 || got.Salt != 4.5 {
		t.Fatalf("unexpected line totals %+v", got)
	}
}

func TestEvaluate_UnsetTargetsPass(t *testing.T) {
	got := Evaluate(Totals{Price: 1_000_000, Kcal: 99999, Salt: 100}, Targets{})
	if !got.AllPass() {
		t.Fatalf("expected every dimension to pass, got %+v", got)
	}
}

func TestEvaluate_Boundaries(t *testing.T) {
	budget := Targets{Budget: catalog.Float(1000)}
	if !Evaluate(Totals{Price: 1000}, budget).Budget {
		t.Fatal("price equal to budget must pass")
	}
	if Evaluate(Totals{Price: 1001}, budget).Budget {
		t.Fatal("price above budget must fail")
	}

	protein := Targets{MinProtein: catalog.Float(20)}
	if Evaluate(Totals{Protein: 19.999}, protein).Protein {
		t.Fatal("protein below minimum must fail")
	}
	if !Evaluate(Totals{Protein: 20}, protein).Protein {
		t.Fatal("protein equal to minimum must pass")
	}

	limits := Targets{MaxKcal: catalog.Float(900), MaxSalt: catalog.Float(6)}
	got := Evaluate(Totals{Kcal: 900, Salt: 6.01}, limits)
	if !got.Kcal || got.Salt {
		t.Fatalf("expected kcal pass and salt fail, got %+v", got)
	}
}

func TestDefaultTargets(t *testing.T) {
	d := DefaultTargets()
	if *d.Budget != 1000 || *d.MaxKcal != 900 || *d.MinProtein != 20 || *d.MaxSalt != 6 {
		t.Fatalf("unexpected defaults %+v", d)
	}

	c := d.Clone()
	*c.Budget = 1
	if *d.Budget != 1000 {
		t.Fatal("Clone must not share pointers")
	}
	if (Targets{}).BudgetOr(DefaultBudget) != 1000 {
		t.Fatal("expected default budget fallback")
	}
}
