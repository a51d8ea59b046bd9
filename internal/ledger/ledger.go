// Package ledger holds the selected quantity per menu item id.
package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Ledger maps a menu item id to the selected quantity. Entries with a
// quantity of zero or less are treated as absent.
type Ledger map[string]int

// Qty returns the effective quantity for id, never negative.
func (l Ledger) Qty(id string) int {
	if q := l[id]; q > 0 {
		return q
	}
	return 0
}

// Set returns a copy of l with id set to qty. A non-positive qty removes it.
func (l Ledger) Set(id string, qty int) Ledger {
	next := l.Clone()
	if qty <= 0 {
		delete(next, id)
		return next
	}
	next[id] = qty
	return next
}

// Add returns a copy of l with delta added to id, clamped at zero.
func (l Ledger) Add(id string, delta int) Ledger {
	return l.Set(id, l.Qty(id)+delta)
}

// Clone returns an independent copy. A nil ledger clones to an empty one.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for id, q := range l {
		out[id] = q
	}
	return out
}

// Compact returns a copy without zero or negative entries.
func (l Ledger) Compact() Ledger {
	out := make(Ledger, len(l))
	for id, q := range l {
		if q > 0 {
			out[id] = q
		}
	}
	return out
}

// Count is the total number of selected units.
func (l Ledger) Count() int {
	n := 0
	for id := range l {
		n += l.Qty(id)
	}
	return n
}

// IDs returns the ids with a positive quantity, sorted.
func (l Ledger) IDs() []string {
	ids := make([]string, 0, len(l))
	for id, q := range l {
		if q > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Orphans returns the selected ids that do not exist in known, sorted.
// Orphaned entries are kept in the ledger; callers only flag them.
func (l Ledger) Orphans(known map[string]struct{}) []string {
	var orphans []string
	for _, id := range l.IDs() {
		if _, ok := known[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	return orphans
}

// Equal reports whether a and b select the same quantities.
func Equal(a, b Ledger) bool {
	ac, bc := a.Compact(), b.Compact()
	if len(ac) != len(bc) {
		return false
	}
	for id, q := range ac {
		if bc[id] != q {
			return false
		}
	}
	return true
}

// Decode parses a JSON object of quantities. Fractional values are floored
// and negative ones kept as-is so that Compact decides what is absent.
func Decode(raw []byte) (Ledger, error) {
	var values map[string]float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	if values == nil {
		return nil, fmt.Errorf("decode ledger: not an object")
	}
	out := make(Ledger, len(values))
	for id, v := range values {
		out[id] = FloorQty(v)
	}
	return out, nil
}

// FloorQty converts a decoded number to a quantity.
func FloorQty(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f := math.Floor(v)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}
