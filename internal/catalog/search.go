package catalog

import "strings"

// Filter returns the items whose name, category or tags contain query,
// case-insensitively. A blank query returns items unchanged.
func Filter(items []MenuItem, query string) []MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	results := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(item.searchText(), q) {
			results = append(results, item)
		}
	}
	return results
}
