// Package transfer encodes and decodes the JSON documents used to move a
// catalog or a list of saved combos between installations.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/combos"
	"github.com/fdg312/mealsim/internal/nutrition"
)

// ErrNothingToImport is returned when a catalog document parses but carries
// neither usable items nor usable targets.
var ErrNothingToImport = errors.New("nothing to import")

// CatalogDocument is the exported shape of a catalog and its targets.
type CatalogDocument struct {
	Items   []catalog.MenuItem `json:"items"`
	Targets nutrition.Targets  `json:"targets"`
}

// CatalogImport is what a catalog document yielded. A nil Items or Targets
// means that part was absent or unusable and must be left as it is; Skipped
// says why.
type CatalogImport struct {
	Items   []catalog.MenuItem
	Targets *nutrition.Targets
	Skipped []string
}

// SavesImport is the usable part of an exported saves array.
type SavesImport struct {
	Saves   []combos.SavedCombo
	Dropped int
}

func ExportCatalog(items []catalog.MenuItem, targets nutrition.Targets) ([]byte, error) {
	if items == nil {
		items = []catalog.MenuItem{}
	}
	data, err := json.MarshalIndent(CatalogDocument{Items: items, Targets: targets}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

// ParseCatalog reads a catalog document. items and targets are taken
// independently: an invalid items array does not prevent the targets from
// being imported, and the other way round.
func ParseCatalog(raw []byte) (CatalogImport, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return CatalogImport{}, fmt.Errorf("decode catalog document: %w", err)
	}
	if doc == nil {
		return CatalogImport{}, errors.New("decode catalog document: not an object")
	}

	var out CatalogImport
	if v, ok := doc["items"]; ok {
		items, err := catalog.ParseItems(v)
		if err != nil {
			out.Skipped = append(out.Skipped, "items: "+err.Error())
		} else {
			out.Items = items
		}
	}
	if v, ok := doc["targets"]; ok {
		t, err := combos.DecodeTargets(v)
		if err != nil {
			out.Skipped = append(out.Skipped, "targets: "+err.Error())
		} else {
			out.Targets = &t
		}
	}

	if out.Items == nil && out.Targets == nil {
		if len(out.Skipped) == 0 {
			return CatalogImport{}, ErrNothingToImport
		}
		return CatalogImport{}, fmt.Errorf("%w: %s", ErrNothingToImport, strings.Join(out.Skipped, "; "))
	}
	return out, nil
}

func ExportSaves(saves []combos.SavedCombo) ([]byte, error) {
	if saves == nil {
		saves = []combos.SavedCombo{}
	}
	data, err := json.MarshalIndent(saves, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode saved combos: %w", err)
	}
	return data, nil
}

// ParseSaves reads an exported saves array, dropping entries that fail the
// saved-combo check.
func ParseSaves(raw []byte) (SavesImport, error) {
	saves, dropped, err := combos.DecodeList(raw)
	if err != nil {
		return SavesImport{}, err
	}
	return SavesImport{Saves: saves, Dropped: dropped}, nil
}
