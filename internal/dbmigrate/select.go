package dbmigrate

import (
	"errors"

	"github.com/fdg312/mealsim/internal/config"
)

// Selection is the database URL chosen for DDL and where it came from.
type Selection struct {
	URL     string
	Source  string // env var name
	Warning string
}

var ErrNoDatabaseURL = errors.New("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")

// SelectDatabaseURL picks the URL migrations run against:
// DATABASE_URL_DIRECT, then DATABASE_URL, then DATABASE_URL_POOLED with a
// warning. With requireDirect only DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (Selection, error) {
	switch {
	case cfg.DatabaseURLDirect != "":
		return Selection{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	case requireDirect:
		return Selection{}, errors.New("DATABASE_URL_DIRECT is required for DDL/migrations")
	case cfg.DatabaseURLRaw != "":
		return Selection{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"}, nil
	case cfg.DatabaseURLPooled != "":
		return Selection{
			URL:     cfg.DatabaseURLPooled,
			Source:  "DATABASE_URL_POOLED",
			Warning: "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT",
		}, nil
	default:
		return Selection{}, ErrNoDatabaseURL
	}
}
