package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"resala-backend/internal/logging"
)

// Executor is the minimal SQL surface the migrator needs.
// PgxExecutor and SQLXExecutor adapt the two supported drivers.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) error
	QueryStrings(ctx context.Context, query string, args ...any) ([]string, error)
}

// Migrator handles database schema migrations
// Supports both embedded and filesystem-based migrations
type Migrator struct {
	db            Executor
	migrationsFS  fs.FS
	migrationsDir string // Directory inside migrationsFS
}

// NewMigrator creates a new migration runner reading .sql files from a directory on disk
//
// Parameters:
//   - db: connection adapter (PgxExecutor or SQLXExecutor)
//   - dir: directory holding the migration files
//
// Returns:
//   - *Migrator: New migrator instance
func NewMigrator(db Executor, dir string) *Migrator {
	return NewMigratorWithFS(db, os.DirFS(dir), ".")
}

// NewMigratorWithFS creates a new migration runner with embedded migrations
//
// Parameters:
//   - db: connection adapter
//   - migrationsFS: Embedded filesystem containing migrations
//   - migrationsDir: Directory path within the embedded FS (e.g. ".")
//
// Returns:
//   - *Migrator: New migrator instance
func NewMigratorWithFS(db Executor, migrationsFS fs.FS, migrationsDir string) *Migrator {
	return &Migrator{
		db:            db,
		migrationsFS:  migrationsFS,
		migrationsDir: migrationsDir,
	}
}

// RunMigrations executes all pending database migrations
//
// This function:
//  1. Creates a migrations tracking table if it doesn't exist
//  2. Reads all migration files from embedded FS or filesystem
//  3. Skips migrations that have already been run
//  4. Executes new migrations in alphabetical order
//  5. Records successful migrations in the tracking table
//
// Migrations are skipped if:
//   - Filename contains "reset" (destructive operations)
//   - Migration has already been run (tracked in migrations table)
//
// Returns:
//   - error: If any migration fails
func (m *Migrator) RunMigrations(ctx context.Context) error {
	logger := logging.NewComponentLogger("migrator")
	logger.Info().Msg("Starting database migrations")

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	entries, err := fs.ReadDir(m.migrationsFS, m.migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	migrationsRun := 0
	for _, filename := range files {
		if strings.Contains(filename, "reset") {
			logger.Info().Str("file", filename).Msg("Skipping reset script")
			continue
		}
		if applied[filename] {
			logger.Debug().Str("file", filename).Msg("Already applied")
			continue
		}

		content, err := fs.ReadFile(m.migrationsFS, path.Join(m.migrationsDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		logger.Info().Str("file", filename).Msg("Running migration")
		statements := splitSQLStatements(string(content))
		for i, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || stmt == ";" {
				continue
			}
			if err := m.db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to run migration %s (statement %d): %w", filename, i+1, err)
			}
		}

		if err := m.recordMigration(ctx, filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		migrationsRun++
	}

	logger.Info().Int("applied", migrationsRun).Msg("Database migrations complete")
	return nil
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist.
// The DDL is valid for both PostgreSQL and SQLite.
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	return m.db.Exec(ctx, query)
}

// getAppliedMigrations returns the set of filenames already applied
func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	names, err := m.db.QueryStrings(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(names))
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}

// splitSQLStatements splits SQL content into individual statements
// Handles $$ quoted blocks (DO blocks and function definitions) correctly
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder
	dollarQuoteDepth := 0

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		dollarQuoteDepth += strings.Count(line, "$$")

		current.WriteString(line)
		current.WriteString("\n")

		// outside dollar quotes when depth is even
		if dollarQuoteDepth%2 == 0 && strings.HasSuffix(trimmed, ";") {
			if !strings.HasPrefix(trimmed, "--") {
				statements = append(statements, current.String())
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		remaining := strings.TrimSpace(current.String())
		if remaining != "" && !isCommentOnly(remaining) {
			statements = append(statements, remaining)
		}
	}

	return statements
}

func isCommentOnly(block string) bool {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}

// recordMigration records a successful migration in the tracking table
func (m *Migrator) recordMigration(ctx context.Context, filename string) error {
	query := `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING
	`
	return m.db.Exec(ctx, query, filename)
}
