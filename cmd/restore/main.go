package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"resala-backend/internal/config"
	"resala-backend/internal/db"
	"resala-backend/internal/logging"
	"resala-backend/internal/store"
)

// restore copies every table from one record store backend into another,
// e.g. pulling the live spreadsheet into SQLite or seeding Postgres from a sheet export.
func main() {
	from := flag.String("from", config.BackendSheets, "Source backend: sheets, postgres, sqlite")
	to := flag.String("to", config.BackendSQLite, "Target backend: sheets, postgres, sqlite")
	configPath := flag.String("config", "", "Path to config file (default: ./config.yaml if present)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall time limit")
	flag.Parse()

	if *from == *to {
		fmt.Fprintln(os.Stderr, "-from and -to must name different backends")
		os.Exit(2)
	}
	if *from == config.BackendMemory || *to == config.BackendMemory {
		fmt.Fprintln(os.Stderr, "the memory backend cannot be restored from or to")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg, *from, *to, *timeout); err != nil {
		logger := logging.NewComponentLogger("restore")
		logger.Error().Err(err).Msg("Restore failed")
		os.Exit(1)
	}
	fmt.Println("Done")
}

// run opens both backends and copies the tables, closing them before it returns
func run(cfg *config.Config, from, to string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	src, closeSrc, err := db.Open(ctx, cfg, from)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", from, err)
	}
	defer closeSrc()

	dst, closeDst, err := db.Open(ctx, cfg, to)
	if err != nil {
		return fmt.Errorf("failed to open target %s: %w", to, err)
	}
	defer closeDst()

	fmt.Printf("Restoring %s -> %s\n", from, to)
	return restore(ctx, src, dst)
}

func restore(ctx context.Context, src, dst store.Backend) error {
	copied, err := store.CopyTables(ctx, src, dst)
	for _, table := range store.AllTables {
		fmt.Printf("  %-8s %d rows\n", table, copied[table])
	}
	return err
}
