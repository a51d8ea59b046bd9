package catalog

import "strings"

// Category groups menu items the way the printed menu does.
type Category string

const (
	CategoryStaple         Category = "Staple"
	CategorySideDish       Category = "Side-dish"
	CategorySaladAppetizer Category = "Salad/Appetizer"
	CategorySide           Category = "Side"
	CategoryDessert        Category = "Dessert"
)

// Categories lists every valid category in menu order.
var Categories = []Category{
	CategoryStaple,
	CategorySideDish,
	CategorySaladAppetizer,
	CategorySide,
	CategoryDessert,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MenuItem is a single orderable dish. Nutrition values are per serving and
// optional; a nil value counts as zero when aggregating.
type MenuItem struct {
	ID       string   `json:"id" yaml:"id" validate:"required"`
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Category Category `json:"category" yaml:"category" validate:"required,category"`
	Price    int      `json:"price" yaml:"price" validate:"gte=0"`
	Kcal     *float64 `json:"kcal,omitempty" yaml:"kcal,omitempty" validate:"omitempty,gte=0"`
	Protein  *float64 `json:"proteinGrams,omitempty" yaml:"proteinGrams,omitempty" validate:"omitempty,gte=0"`
	Fat      *float64 `json:"fatGrams,omitempty" yaml:"fatGrams,omitempty" validate:"omitempty,gte=0"`
	Carbs    *float64 `json:"carbsGrams,omitempty" yaml:"carbsGrams,omitempty" validate:"omitempty,gte=0"`
	Salt     *float64 `json:"saltGrams,omitempty" yaml:"saltGrams,omitempty" validate:"omitempty,gte=0"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ProteinOrZero returns the protein value, treating a missing one as 0.
func (m MenuItem) ProteinOrZero() float64 {
	return valueOrZero(m.Protein)
}

func (m MenuItem) searchText() string {
	parts := make([]string, 0, len(m.Tags)+2)
	parts = append(parts, m.Name, string(m.Category))
	parts = append(parts, m.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Clone returns a deep copy of items so callers can edit without aliasing.
func Clone(items []MenuItem) []MenuItem {
	if items == nil {
		return nil
	}
	out := make([]MenuItem, len(items))
	for i, it := range items {
		it.Kcal = clonePtr(it.Kcal)
		it.Protein = clonePtr(it.Protein)
		it.Fat = clonePtr(it.Fat)
		it.Carbs = clonePtr(it.Carbs)
		it.Salt = clonePtr(it.Salt)
		if it.Tags != nil {
			it.Tags = append([]string(nil), it.Tags...)
		}
		out[i] = it
	}
	return out
}

// IDs returns the set of item ids in the catalog.
func IDs(items []MenuItem) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, it := range items {
		ids[it.ID] = struct{}{}
	}
	return ids
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v, handy for literals in catalogs and tests.
func Float(v float64) *float64 {
	return &v
}
