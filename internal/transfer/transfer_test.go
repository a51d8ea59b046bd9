package transfer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/combos"
	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
)

func TestCatalogRoundTrip(t *testing.T) {
	items := catalog.Default()
	targets := nutrition.DefaultTargets()

	data, err := ExportCatalog(items, targets)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	got, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Items) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got.Items))
	}
	for i := range items {
		if got.Items[i].ID != items[i].ID || got.Items[i].Price != items[i].Price {
			t.Fatalf("item %d differs: %+v vs %+v", i, got.Items[i], items[i])
		}
	}
	if got.Targets == nil || *got.Targets.Budget != 1000 || *got.Targets.MaxSalt != 6 {
		t.Fatalf("unexpected targets: %+v", got.Targets)
	}
	if len(got.Skipped) != 0 {
		t.Fatalf("unexpected skipped parts: %v", got.Skipped)
	}
}

func TestParseCatalog_TargetsOnly(t *testing.T) {
	got, err := ParseCatalog([]byte(`{"targets":{"budget":500}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Items != nil {
		t.Fatalf("expected items untouched, got %v", got.Items)
	}
	if got.Targets == nil || got.Targets.Budget == nil || *got.Targets.Budget != 500 {
		t.Fatalf("expected budget 500, got %+v", got.Targets)
	}
	if got.Targets.MaxKcal != nil {
		t.Fatalf("expected maxKcal unset, got %v", *got.Targets.MaxKcal)
	}
}

func TestParseCatalog_InvalidItemsKeepTargets(t *testing.T) {
	raw := `{"items":[{"id":"x","name":"X","category":"Soup","price":100}],"targets":{"maxKcal":700}}`
	got, err := ParseCatalog([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Items != nil {
		t.Fatalf("expected invalid items to be skipped, got %v", got.Items)
	}
	if got.Targets == nil || *got.Targets.MaxKcal != 700 {
		t.Fatalf("expected targets imported, got %+v", got.Targets)
	}
	if len(got.Skipped) != 1 || !strings.HasPrefix(got.Skipped[0], "items:") {
		t.Fatalf("expected one skipped items entry, got %v", got.Skipped)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		nothing bool
	}{
		{name: "malformed json", raw: `{"items":`},
		{name: "not an object", raw: `[1,2]`},
		{name: "null", raw: `null`},
		{name: "empty object", raw: `{}`, nothing: true},
		{name: "both unusable", raw: `{"items":"none","targets":[]}`, nothing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNothingToImport); got != tt.nothing {
				t.Fatalf("errors.Is(ErrNothingToImport)=%v, want %v (err=%v)", got, tt.nothing, err)
			}
		})
	}
}

func TestSavesRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	budget := nutrition.Targets{Budget: catalog.Float(900)}
	saves := []combos.SavedCombo{
		combos.Create("lunch", ledger.Ledger{"doria": 2}, &budget, now),
		combos.Create("", ledger.Ledger{"rice": 1, "pudding": 0}, nil, now.Add(-time.Hour)),
	}

	data, err := ExportSaves(saves)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := ParseSaves(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Dropped != 0 || len(got.Saves) != 2 {
		t.Fatalf("expected 2 saves and none dropped, got %d/%d", len(got.Saves), got.Dropped)
	}
	for i := range saves {
		if got.Saves[i].ID != saves[i].ID || got.Saves[i].Name != saves[i].Name {
			t.Fatalf("save %d differs: %+v vs %+v", i, got.Saves[i], saves[i])
		}
		if !ledger.Equal(got.Saves[i].Qty, saves[i].Qty) {
			t.Fatalf("save %d qty differs: %v vs %v", i, got.Saves[i].Qty, saves[i].Qty)
		}
	}
	if got.Saves[0].Targets == nil || *got.Saves[0].Targets.Budget != 900 {
		t.Fatalf("expected targets kept, got %+v", got.Saves[0].Targets)
	}
}

func TestExportSaves_EmptyIsArray(t *testing.T) {
	data, err := ExportSaves(nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}
}

func TestParseSaves_DropsMalformed(t *testing.T) {
	raw := `[{"id":"a","name":"A","createdAt":1,"qty":{}},{"id":2},"junk"]`
	got, err := ParseSaves([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Saves) != 1 || got.Dropped != 2 {
		t.Fatalf("expected 1 kept and 2 dropped, got %d/%d", len(got.Saves), got.Dropped)
	}
}

func TestParseSaves_RequiresArray(t *testing.T) {
	if _, err := ParseSaves([]byte(`{"id":"a"}`)); err == nil {
		t.Fatal("expected error for non-array document")
	}
}

func TestParseCatalog_GramFieldNames(t *testing.T) {
	raw := `{"items":[{"id":"a","name":"Doria","category":"Staple","price":300,
		"kcal":500,"proteinGrams":12,"fatGrams":3,"carbsGrams":40,"saltGrams":2}]}`

	got, err := ParseCatalog([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	it := got.Items[0]
	for name, v := range map[string]*float64{"protein": it.Protein, "fat": it.Fat, "carbs": it.Carbs, "salt": it.Salt} {
		if v == nil {
			t.Fatalf("expected %s to be imported", name)
		}
	}
	if *it.Protein != 12 || *it.Fat != 3 || *it.Carbs != 40 || *it.Salt != 2 {
		t.Fatalf("unexpected nutrition: %v %v %v %v", *it.Protein, *it.Fat, *it.Carbs, *it.Salt)
	}
}

func TestExportCatalog_UsesGramFieldNames(t *testing.T) {
	items := []catalog.MenuItem{{ID: "a", Name: "A", Category: catalog.CategorySide, Price: 100,
		Protein: catalog.Float(1), Fat: catalog.Float(2), Carbs: catalog.Float(3), Salt: catalog.Float(4)}}

	data, err := ExportCatalog(items, nutrition.Targets{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, key := range []string{`"proteinGrams"`, `"fatGrams"`, `"carbsGrams"`, `"saltGrams"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in export:\n%s", key, data)
		}
	}
}
