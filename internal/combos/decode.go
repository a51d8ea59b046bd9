package combos

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/nutrition"
)

// ValidationError lists why a candidate is not a saved combo.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid saved combo: " + strings.Join(e.Problems, "; ")
}

// Decode checks the top-level shape of a saved combo and decodes it: id and
// name must be strings, createdAt a number and qty an object. The check is
// shallow. Non-numeric qty values are dropped as absent and a
// malformed targets field is ignored rather than rejected.
func Decode(raw []byte) (SavedCombo, error) {
	var fields map[string]json.RawMessage
	if kind(raw) != kindObject || json.Unmarshal(raw, &fields) != nil {
		return SavedCombo{}, &ValidationError{Problems: []string{"must be a JSON object"}}
	}

	var c SavedCombo
	var problems []string
	check := func(key, want string) (json.RawMessage, bool) {
		v, ok := fields[key]
		if !ok {
			problems = append(problems, key+" is required")
			return nil, false
		}
		if kind(v) != want {
			problems = append(problems, fmt.Sprintf("%s must be %s", key, article(want)))
			return nil, false
		}
		return v, true
	}

	if v, ok := check("id", kindString); ok {
		_ = json.Unmarshal(v, &c.ID)
	}
	if v, ok := check("name", kindString); ok {
		_ = json.Unmarshal(v, &c.Name)
	}
	if v, ok := check("createdAt", kindNumber); ok {
		var ms float64
		switch err := json.Unmarshal(v, &ms); {
		case err != nil, ms >= math.MaxInt64, ms < math.MinInt64:
			problems = append(problems, "createdAt is out of range")
		default:
			c.CreatedAt = int64(ms)
		}
	}
	if v, ok := check("qty", kindObject); ok {
		c.Qty = decodeQty(v)
	}

	if len(problems) > 0 {
		return SavedCombo{}, &ValidationError{Problems: problems}
	}

	if v, ok := fields["targets"]; ok && kind(v) == kindObject {
		t := decodeTargets(v)
		c.Targets = &t
	}
	return c, nil
}

// Validate reports whether raw passes the structural check of Decode.
func Validate(raw []byte) bool {
	_, err := Decode(raw)
	return err == nil
}

// DecodeList decodes an exported array of saved combos. Malformed entries
// are skipped and counted; only a non-array document is an error.
func DecodeList(raw []byte) ([]SavedCombo, int, error) {
	if kind(raw) != kindArray {
		return nil, 0, errors.New("saved combos must be a JSON array")
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, 0, fmt.Errorf("decode saved combos: %w", err)
	}

	out := make([]SavedCombo, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		c, err := Decode(e)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, c)
	}
	return out, dropped, nil
}

func decodeQty(raw json.RawMessage) ledger.Ledger {
	var values map[string]json.RawMessage
	_ = json.Unmarshal(raw, &values)

	qty := make(ledger.Ledger, len(values))
	for id, v := range values {
		if kind(v) != kindNumber {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			qty[id] = ledger.FloorQty(f)
		}
	}
	return qty
}

// DecodeTargets decodes a targets object. Non-numeric fields are left unset;
// anything other than an object is an error.
func DecodeTargets(raw []byte) (nutrition.Targets, error) {
	if kind(raw) != kindObject || !json.Valid(raw) {
		return nutrition.Targets{}, errors.New("targets must be a JSON object")
	}
	return decodeTargets(raw), nil
}

func decodeTargets(raw json.RawMessage) nutrition.Targets {
	var values map[string]json.RawMessage
	_ = json.Unmarshal(raw, &values)

	var t nutrition.Targets
	for key, dst := range map[string]**float64{
		"budget":     &t.Budget,
		"maxKcal":    &t.MaxKcal,
		"minProtein": &t.MinProtein,
		"maxSalt":    &t.MaxSalt,
	} {
		v, ok := values[key]
		if !ok || kind(v) != kindNumber {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			*dst = &f
		}
	}
	return t
}

const (
	kindInvalid = "invalid"
	kindObject  = "object"
	kindArray   = "array"
	kindString  = "string"
	kindNumber  = "number"
	kindBool    = "boolean"
	kindNull    = "null"
)

// kind classifies a JSON value by its first byte. It does not check that the
// rest of the value is well formed.
func kind(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return kindInvalid
	}
	switch c := raw[0]; {
	case c == '{':
		return kindObject
	case c == '[':
		return kindArray
	case c == '"':
		return kindString
	case c == 't' || c == 'f':
		return kindBool
	case c == 'n':
		return kindNull
	case c == '-' || (c >= '0' && c <= '9'):
		return kindNumber
	default:
		return kindInvalid
	}
}

func article(k string) string {
	if k == kindObject || k == kindArray {
		return "an " + k
	}
	return "a " + k
}
