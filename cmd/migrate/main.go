// migrate creates or updates the schema for the configured database.
//
// Usage:
//   DB_DRIVER=sqlite DATABASE_FILE=cashlink.db go run ./cmd/migrate
//   DB_DRIVER=mysql DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/migrate
package main

import (
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/cashlink_backend/config"
	"bitbucket.org/mmdatafocus/cashlink_backend/models"
)

func main() {
	cfg := config.LoadConfig()

	// deploy pipelines run this before the database is necessarily ready
	db := config.OpenDatabaseWithRetry(cfg)
	defer config.CloseDatabase(db)

	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("migrated (driver=%s)\n", cfg.DBDriver)
}
