// Command import-legacy loads job rows exported from the previous hosted
// store into the jobs table.
//
//	import-legacy [-dry-run] jobs.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/legacy"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "convert rows without writing them")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import-legacy [-dry-run] <export.json>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to open export: %v", err)
	}
	rows, err := legacy.Decode(f)
	_ = f.Close()
	if err != nil {
		log.Fatalf("Failed to read export: %v", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var store legacy.Store
	if !*dryRun {
		db, err := database.GetMainDB(cfg.DB)
		if err != nil {
			log.Fatalf("Database failed to initialize: %v", err)
		}
		defer db.Close()
		store = db
	}

	report, err := legacy.Import(ctx, rows, cat, store)
	if err != nil {
		log.Fatalf("Import aborted: %v", err)
	}
	for _, failed := range report.Failed {
		fmt.Println("FAILED", failed.Error())
	}
	fmt.Printf("%d of %d rows imported.\n", len(report.Imported), len(rows))
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
