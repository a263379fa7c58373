package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens (creating if needed) a SQLite database file.
// A single connection is used so ":memory:" databases survive across calls.
func OpenSQLite(path string) (*sqlx.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// SQLXExecutor adapts an sqlx handle to Executor
type SQLXExecutor struct {
	DB *sqlx.DB
}

func (e SQLXExecutor) Exec(ctx context.Context, query string, args ...any) error {
	_, err := e.DB.ExecContext(ctx, query, args...)
	return err
}

func (e SQLXExecutor) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	var out []string
	if err := e.DB.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}
