// Command migrate creates and upgrades the kv_blobs table used by the
// postgres blob store.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/mealsim/internal/config"
	"github.com/fdg312/mealsim/internal/dbmigrate"
)

func main() {
	inv, err := dbmigrate.ParseArgs(os.Args[1:])
	if errors.Is(err, dbmigrate.ErrHelp) {
		fmt.Println(dbmigrate.Usage)
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, dbmigrate.Usage)
		log.Fatalf("FATAL kv_blobs: %v", err)
	}

	cfg := config.Load()
	sel, err := dbmigrate.SelectDatabaseURL(cfg, inv.RequireDirect)
	if err != nil {
		log.Fatalf("FATAL kv_blobs: %v", err)
	}
	if sel.Warning != "" {
		log.Printf("WARN kv_blobs: %s", sel.Warning)
	}

	log.Printf("INFO kv_blobs: %s via %s (namespace %q)", inv.Command, sel.Source, cfg.Store.Namespace)
	if err := dbmigrate.Run(inv.Command, sel.URL); err != nil {
		log.Fatalf("FATAL kv_blobs: %v", err)
	}
	log.Printf("INFO kv_blobs: %s done", inv.Command)
}
