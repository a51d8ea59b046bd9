package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Problem describes one rejected field of a catalog edit. Row is zero-based;
// -1 means the problem is not tied to a single row.
type Problem struct {
	Row     int
	Field   string
	Message string
}

func (p Problem) String() string {
	if p.Row < 0 {
		return fmt.Sprintf("%s: %s", p.Field, p.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", p.Row+1, p.Field, p.Message)
}

// ValidationError is returned when a catalog edit is rejected. The edit is
// all-or-nothing, so one problem rejects every row.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "invalid catalog: " + strings.Join(msgs, "; ")
}

var catalogValidate *validator.Validate

func init() {
	catalogValidate = validator.New()
	catalogValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = catalogValidate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
}

// Check validates an already-decoded catalog: required fields, known
// categories, non-negative numbers and unique ids.
func Check(items []MenuItem) error {
	problems := checkRows(items, nil)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ParseItems decodes the bulk editor's JSON array into menu items. Rows are
// checked field by field and the whole edit fails if any row is invalid.
// Numeric strings are accepted for price and nutrition values, and tags may
// be given as a comma-separated string.
func ParseItems(raw []byte) ([]MenuItem, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("catalog must be a JSON array: %w", err)
	}
	if rows == nil {
		return nil, errors.New("catalog must be a JSON array")
	}
	return DecodeRows(rows)
}

// DecodeRows is ParseItems for rows that were already split out of a larger
// document, such as the items field of a catalog export.
func DecodeRows(rows []json.RawMessage) ([]MenuItem, error) {
	items := make([]MenuItem, len(rows))
	skip := make(map[int]bool)
	var problems []Problem

	for i, raw := range rows {
		item, rowProblems := decodeRow(i, raw)
		items[i] = item
		if len(rowProblems) > 0 {
			skip[i] = true
			problems = append(problems, rowProblems...)
		}
	}

	problems = append(problems, checkRows(items, skip)...)
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return items, nil
}

func checkRows(items []MenuItem, skip map[int]bool) []Problem {
	var problems []Problem
	firstRow := make(map[string]int, len(items))

	for i, item := range items {
		if skip[i] {
			continue
		}
		if err := catalogValidate.Struct(item); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				problems = append(problems, Problem{Row: i, Field: "-", Message: err.Error()})
				continue
			}
			for _, fe := range verrs {
				problems = append(problems, Problem{Row: i, Field: fe.Field(), Message: describe(fe)})
			}
		}
		if item.ID == "" {
			continue
		}
		if prev, dup := firstRow[item.ID]; dup {
			problems = append(problems, Problem{
				Row:     i,
				Field:   "id",
				Message: fmt.Sprintf("duplicate of row %d (%q)", prev+1, item.ID),
			})
			continue
		}
		firstRow[item.ID] = i
	}
	return problems
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "category":
		names := make([]string, len(Categories))
		for i, c := range Categories {
			names[i] = string(c)
		}
		return "must be one of " + strings.Join(names, ", ")
	case "gte":
		return "must not be negative"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func decodeRow(row int, raw json.RawMessage) (MenuItem, []Problem) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return MenuItem{}, []Problem{{Row: row, Field: "-", Message: "must be an object"}}
	}

	var problems []Problem
	fail := func(field, msg string) {
		problems = append(problems, Problem{Row: row, Field: field, Message: msg})
	}

	item := MenuItem{
		ID:       stringField(fields, "id", fail),
		Name:     stringField(fields, "name", fail),
		Category: Category(stringField(fields, "category", fail)),
	}

	price, ok, err := numberField(fields, "price")
	switch {
	case err != nil:
		fail("price", err.Error())
	case !ok:
		fail("price", "is required")
	case price >= float64(math.MaxInt):
		fail("price", "is too large")
	case price <= float64(math.MinInt):
		fail("price", "must not be negative")
	case price != math.Trunc(price):
		fail("price", "must be a whole number")
	default:
		item.Price = int(price)
	}

	// Gram amounts also accept the short key (protein, fat, ...) used by
	// older exports; the Grams key wins when both are present.
	for _, nf := range []struct {
		key   string
		short string
		dst   **float64
	}{
		{"kcal", "", &item.Kcal},
		{"proteinGrams", "protein", &item.Protein},
		{"fatGrams", "fat", &item.Fat},
		{"carbsGrams", "carbs", &item.Carbs},
		{"saltGrams", "salt", &item.Salt},
	} {
		key := nf.key
		if _, ok := fields[key]; !ok && nf.short != "" {
			if _, ok := fields[nf.short]; ok {
				key = nf.short
			}
		}
		v, ok, err := numberField(fields, key)
		if err != nil {
			fail(key, err.Error())
			continue
		}
		if ok {
			*nf.dst = Float(v)
		}
	}

	tags, err := tagsField(fields["tags"])
	if err != nil {
		fail("tags", err.Error())
	}
	item.Tags = tags

	return item, problems
}

func stringField(fields map[string]any, key string, fail func(field, msg string)) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		fail(key, "must be a string")
		return ""
	}
}

// numberField reports ok=false for an absent, null or blank value.
func numberField(fields map[string]any, key string) (float64, bool, error) {
	switch v := fields[key].(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, errors.New("must be a number")
		}
		return f, true, nil
	default:
		return 0, false, errors.New("must be a number")
	}
}

func tagsField(v any) ([]string, error) {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		raw = strings.Split(t, ",")
	case []any:
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, errors.New("must be a list of strings")
			}
			raw = append(raw, s)
		}
	default:
		return nil, errors.New("must be a list of strings")
	}

	tags := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}
