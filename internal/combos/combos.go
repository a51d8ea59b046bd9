// Package combos creates, validates and retains saved meal combinations.
package combos

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
)

// DefaultCapacity is how many saved combos are kept before the oldest are dropped.
const DefaultCapacity = 50

// nameLayout renders the creation time used as a name when none is given.
const nameLayout = "2006/1/2 15:04:05"

var ErrNotFound = errors.New("saved combo not found")

// SavedCombo is a named snapshot of a ledger and, optionally, the targets
// that were active when it was saved. CreatedAt is in unix milliseconds.
type SavedCombo struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt int64              `json:"createdAt"`
	Qty       ledger.Ledger      `json:"qty"`
	Targets   *nutrition.Targets `json:"targets,omitempty"`
}

// Created returns CreatedAt as a time.
func (c SavedCombo) Created() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// Create snapshots l. The id is a time-ordered UUID, a blank name becomes the
// formatted creation time, and the ledger is compacted.
func Create(name string, l ledger.Ledger, targets *nutrition.Targets, now time.Time) SavedCombo {
	name = strings.TrimSpace(name)
	if name == "" {
		name = now.Format(nameLayout)
	}

	c := SavedCombo{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		CreatedAt: now.UnixMilli(),
		Qty:       l.Compact(),
	}
	if targets != nil {
		t := targets.Clone()
		c.Targets = &t
	}
	return c
}

// Insert adds c as the newest entry and drops the oldest inserted entries
// beyond capacity. Saves are ordered newest first.
func Insert(saves []SavedCombo, c SavedCombo, capacity int) []SavedCombo {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	out := make([]SavedCombo, 0, len(saves)+1)
	out = append(out, c)
	out = append(out, saves...)
	if len(out) > capacity {
		out = out[:capacity]
	}
	return out
}

// Merge inserts incoming entries whose id is not already present. incoming
// is expected newest first, as exported, and keeps that order at the head of
// the result. Imported entries count as the most recent insertions, so
// retention drops existing entries first even if they were created later.
func Merge(saves, incoming []SavedCombo, capacity int) ([]SavedCombo, int) {
	seen := make(map[string]struct{}, len(saves)+len(incoming))
	for _, c := range saves {
		seen[c.ID] = struct{}{}
	}

	fresh := make([]SavedCombo, 0, len(incoming))
	for _, c := range incoming {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		fresh = append(fresh, c)
	}

	out := append([]SavedCombo(nil), saves...)
	for i := len(fresh) - 1; i >= 0; i-- {
		out = Insert(out, fresh[i], capacity)
	}
	return out, len(fresh)
}

// Find returns the combo with id.
func Find(saves []SavedCombo, id string) (SavedCombo, bool) {
	for _, c := range saves {
		if c.ID == id {
			return c, true
		}
	}
	return SavedCombo{}, false
}

// Delete returns saves without the combo with id.
func Delete(saves []SavedCombo, id string) ([]SavedCombo, error) {
	for i, c := range saves {
		if c.ID == id {
			out := make([]SavedCombo, 0, len(saves)-1)
			out = append(out, saves[:i]...)
			return append(out, saves[i+1:]...), nil
		}
	}
	return saves, ErrNotFound
}
