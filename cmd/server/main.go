// Command server runs the contract API: an HTTP surface over the contract
// store with reminder queries, status transitions and audit submission.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/fundhub/contract-api/internal/config"
	"github.com/fundhub/contract-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate", "", "run a migration command and exit: up, down, status or version")
	portOverride := flag.Int("port", 0, "override the configured server port")
	flag.Parse()

	if err := run(*migrateCmd, *portOverride); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, wires the application and either executes a
// migration command or serves HTTP until shutdown.
func run(migrateCmd string, portOverride int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database", slog.String("error", closeErr.Error()))
		}
	}()

	if migrateCmd != "" {
		return runMigrations(db, migrateCmd, log)
	}

	app, err := newApplication(cfg, db, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	return app.startHTTPServer(app.setupRouter())
}
