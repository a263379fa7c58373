package db

import (
	"context"
	"fmt"

	"resala-backend/internal/config"
	"resala-backend/internal/credentials"
	"resala-backend/internal/database"
	"resala-backend/internal/logging"
	"resala-backend/internal/store"
	"resala-backend/migrations"
)

// Open connects the named record store backend using cfg, running
// migrations for the SQL engines. The returned func releases the connection.
func Open(ctx context.Context, cfg *config.Config, backend string) (store.Backend, func(), error) {
	logger := logging.NewComponentLogger("store")
	noop := func() {}

	switch backend {
	case config.BackendSheets:
		if cfg.Sheets.SpreadsheetID == "" {
			return nil, noop, fmt.Errorf("sheets.spreadsheet_id is required for the sheets backend")
		}
		creds, err := credentials.NewLoader().Load(ctx, credentials.Options{
			File:   cfg.Sheets.CredentialsFile,
			EnvVar: cfg.Sheets.CredentialsEnv,
			Order:  cfg.Sheets.CredentialsOrder,
		})
		if err != nil {
			return nil, noop, err
		}
		s, err := store.NewSheets(ctx, creds, cfg.Sheets.SpreadsheetID)
		if err != nil {
			return nil, noop, err
		}
		logger.Info().Str("spreadsheet", cfg.Sheets.SpreadsheetID).Msg("Using Google Sheets")
		return s, noop, nil

	case config.BackendPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, noop, err
		}
		if err := newMigrator(cfg, database.PgxExecutor{Pool: pool}).RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		logger.Info().Msg("Using PostgreSQL")
		return store.NewPostgres(pool), pool.Close, nil

	case config.BackendSQLite:
		sqliteDB, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		if err := newMigrator(cfg, database.SQLXExecutor{DB: sqliteDB}).RunMigrations(ctx); err != nil {
			sqliteDB.Close()
			return nil, noop, err
		}
		logger.Info().Str("path", cfg.SQLite.Path).Msg("Using SQLite")
		return store.NewSQLite(sqliteDB), func() { sqliteDB.Close() }, nil

	case config.BackendMemory:
		logger.Warn().Msg("Using in-memory store, data is lost on restart")
		return store.NewMemory(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", backend)
}

// newMigrator prefers an on-disk migrations directory over the embedded set
func newMigrator(cfg *config.Config, exec database.Executor) *database.Migrator {
	if cfg.Database.MigrationsDir != "" {
		return database.NewMigrator(exec, cfg.Database.MigrationsDir)
	}
	return database.NewMigratorWithFS(exec, migrations.FS, ".")
}
