package dbmigrate

import (
	"errors"
	"fmt"
)

// Usage is printed by cmd/migrate for help and on bad arguments.
const Usage = `usage: migrate <up|status|down> [--direct]

Manages the kv_blobs table that backs the postgres blob store
(BLOB_STORE=postgres). The table holds one row per namespaced key:
<ns>/catalog, <ns>/ledger, <ns>/targets and <ns>/saves.

  up       create or upgrade kv_blobs
  status   list applied and pending kv_blobs migrations
  down     roll back the most recent kv_blobs migration

  --direct require DATABASE_URL_DIRECT instead of falling back to a
           pooled DATABASE_URL`

// ErrHelp is returned by ParseArgs when help was asked for.
var ErrHelp = errors.New("help requested")

// Invocation is a parsed cmd/migrate command line.
type Invocation struct {
	Command       string
	RequireDirect bool
}

// ParseArgs reads the arguments after the program name. The command and
// --direct may come in either order.
func ParseArgs(args []string) (Invocation, error) {
	var inv Invocation
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			return Invocation{}, ErrHelp
		case "--direct":
			inv.RequireDirect = true
		case "up", "status", "down":
			if inv.Command != "" {
				return Invocation{}, fmt.Errorf("more than one command: %s and %s", inv.Command, arg)
			}
			inv.Command = arg
		default:
			return Invocation{}, fmt.Errorf("unknown argument %q", arg)
		}
	}
	if inv.Command == "" {
		return Invocation{}, errors.New("missing command")
	}
	return inv, nil
}
