package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

var builtin = sync.OnceValue(func() []MenuItem {
	items, err := decodeYAML(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return items
})

// Default returns a fresh copy of the built-in catalog.
func Default() []MenuItem {
	return Clone(builtin())
}

// LoadSeed reads a YAML catalog from path. It is used in place of the
// built-in catalog when CATALOG_SEED_PATH is set.
func LoadSeed(path string) ([]MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	items, err := decodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("catalog seed %s: %w", path, err)
	}
	return items, nil
}

func decodeYAML(data []byte) ([]MenuItem, error) {
	var items []MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := Check(items); err != nil {
		return nil, err
	}
	return items, nil
}
