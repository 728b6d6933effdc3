// Command clean-db removes stored resumes no submission refers to.
// With -drop it instead drops every table in the public schema.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/upload"
)

const dropAllTables = `
DO $$
	DECLARE
		r RECORD;
	BEGIN
		FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
			EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
		END LOOP;
	END $$;
`

func confirm(question string) bool {
	fmt.Println(question + " (yes/no): ")
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	return strings.TrimSpace(strings.ToLower(input)) == "yes"
}

func main() {
	drop := flag.Bool("drop", false, "drop all tables in the public schema")
	grace := flag.Duration("grace", 24*time.Hour, "keep resumes uploaded more recently than this")
	dryRun := flag.Bool("dry-run", false, "list orphaned resumes without deleting them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := database.GetMainDB(cfg.DB)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	if *drop {
		fmt.Println("WARNING: This command will DROP ALL TABLES in the 'public' schema of your database.")
		if !confirm("This action is irreversible. Do you want to continue?") {
			fmt.Println("Operation cancelled.")
			return
		}
		if err := db.Exec(dropAllTables).Error; err != nil {
			log.Fatalf("failed to execute drop command: %v", err)
		}
		fmt.Println("All tables dropped successfully.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	storage, err := upload.NewStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create storage: %v", err)
	}
	if c, ok := storage.(io.Closer); ok {
		defer c.Close()
	}

	if *dryRun {
		storage = upload.ReadOnly(storage)
	}
	deleted, err := upload.CleanOrphans(ctx, storage, db.ResumeURLs, *grace, time.Now())
	if err != nil {
		log.Fatalf("Failed to clean resumes: %v", err)
	}
	for _, name := range deleted {
		fmt.Println(name)
	}
	if *dryRun {
		fmt.Printf("%d orphaned resumes found.\n", len(deleted))
		return
	}
	fmt.Printf("%d orphaned resumes deleted.\n", len(deleted))
}
