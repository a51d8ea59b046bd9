package ledger

import (
	"reflect"
	"testing"
)

func TestSetAndAdd(t *testing.T) {
	l := Ledger{}
	l2 := l.Set("a", 2)
	if len(l) != 0 {
		t.Fatal("Set must not mutate the receiver")
	}
	if l2.Qty("a") != 2 {
		t.Fatalf("expected a=2, got %d", l2.Qty("a"))
	}

	l3 := l2.Add("a", -5)
	if _, ok := l3["a"]; ok {
		t.Fatalf("expected a to be removed when clamped at zero, got %v", l3)
	}
	if l2.Qty("a") != 2 {
		t.Fatal("Add must not mutate the receiver")
	}
}

func TestQtyTreatsNegativeAsZero(t *testing.T) {
	l := Ledger{"a": -3}
	if l.Qty("a") != 0 || l.Qty("missing") != 0 {
		t.Fatalf("expected zero quantities, got a=%d", l.Qty("a"))
	}
	if l.Count() != 0 {
		t.Fatalf("expected count 0, got %d", l.Count())
	}
}

func TestCompact(t *testing.T) {
	got := Ledger{"a": 2, "b": 0, "c": -5}.Compact()
	want := Ledger{"a": 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOrphans(t *testing.T) {
	l := Ledger{"a": 1, "gone": 2, "zero": 0}
	known := map[string]struct{}{"a": {}}

	got := l.Orphans(known)
	if !reflect.DeepEqual(got, []string{"gone"}) {
		t.Fatalf("expected [gone], got %v", got)
	}
	if l.Qty("gone") != 2 {
		t.Fatal("orphans must not be purged")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Ledger{"a": 1, "b": 0}, Ledger{"a": 1}) {
		t.Fatal("expected zero entries to be ignored")
	}
	if Equal(Ledger{"a": 1}, Ledger{"a": 2}) {
		t.Fatal("expected different quantities to differ")
	}
}

func TestDecode(t *testing.T) {
	l, err := Decode([]byte(`{"a":2.9,"b":-1,"c":0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l["a"] != 2 || l["b"] != -1 {
		t.Fatalf("unexpected ledger %v", l)
	}

	for _, raw := range []string{`[]`, `null`, `{"a":"x"}`, `{`} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}
