package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

// storedRow is one row of sheet_records
type storedRow struct {
	RowNo  int    `db:"row_no"`
	Fields string `db:"fields"`
}

// rowStore is the driver-specific part of SQL, implemented for pgx and sqlx
type rowStore interface {
	rows(ctx context.Context, table string) ([]storedRow, error)
	insert(ctx context.Context, table, fields string) error
	update(ctx context.Context, table string, rowNo int, fields string) error
	ping(ctx context.Context) error
}

// SQL keeps every table in the generic sheet_records table (see migrations/)
// with each row stored as a JSON object keyed by header.
type SQL struct {
	db rowStore
}

// NewPostgres returns a SQL backend on a pgx pool
func NewPostgres(pool *pgxpool.Pool) *SQL {
	return &SQL{db: pgxRows{pool: pool}}
}

// NewSQLite returns a SQL backend on an sqlx handle opened with the sqlite3 driver
func NewSQLite(db *sqlx.DB) *SQL {
	return &SQL{db: sqlxRows{db: db}}
}

func (s *SQL) ListRecords(ctx context.Context, table string) ([]Record, error) {
	header, err := HeaderFor(table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.rows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeFields(header, row.Fields)
		if err != nil {
			return nil, fmt.Errorf("corrupt row %d in %s: %w", row.RowNo, table, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *SQL) AppendRecord(ctx context.Context, table string, values []string) error {
	header, err := HeaderFor(table)
	if err != nil {
		return err
	}

	fields, err := json.Marshal(zipRecord(header, values))
	if err != nil {
		return err
	}
	if err := s.db.insert(ctx, table, string(fields)); err != nil {
		return fmt.Errorf("failed to append row to %s: %w", table, err)
	}
	return nil
}

func (s *SQL) UpdateCell(ctx context.Context, table, keyColumn, key, column, value string) error {
	header, err := HeaderFor(table)
	if err != nil {
		return err
	}
	if columnIndex(header, keyColumn) < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, keyColumn)
	}
	if columnIndex(header, column) < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}

	rows, err := s.db.rows(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}

	for _, row := range rows {
		rec, err := decodeFields(header, row.Fields)
		if err != nil {
			return fmt.Errorf("corrupt row %d in %s: %w", row.RowNo, table, err)
		}
		if !keyMatches(rec[keyColumn], key) {
			continue
		}

		rec[column] = value
		fields, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := s.db.update(ctx, table, row.RowNo, string(fields)); err != nil {
			return fmt.Errorf("failed to update %s row %d: %w", table, row.RowNo, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s where %s=%s", ErrRowNotFound, table, keyColumn, key)
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.db.ping(ctx)
}

func decodeFields(header []string, fields string) (Record, error) {
	var stored map[string]string
	if err := json.Unmarshal([]byte(fields), &stored); err != nil {
		return nil, err
	}

	rec := make(Record, len(header))
	for _, col := range header {
		rec[col] = stored[col]
	}
	return rec, nil
}

const (
	selectRowsQuery = `SELECT row_no, fields FROM sheet_records WHERE sheet = $1 ORDER BY row_no`
	insertRowQuery  = `
		INSERT INTO sheet_records (sheet, row_no, fields)
		SELECT $1, COALESCE(MAX(row_no), 0) + 1, $2 FROM sheet_records WHERE sheet = $1
	`
	// placeholders numbered in order of appearance; sqlite assigns $N indexes that way
	updateRowQuery = `UPDATE sheet_records SET fields = $1 WHERE sheet = $2 AND row_no = $3`
)

type pgxRows struct {
	pool *pgxpool.Pool
}

func (p pgxRows) rows(ctx context.Context, table string) ([]storedRow, error) {
	rows, err := p.pool.Query(ctx, selectRowsQuery, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storedRow
	for rows.Next() {
		var r storedRow
		if err := rows.Scan(&r.RowNo, &r.Fields); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p pgxRows) insert(ctx context.Context, table, fields string) error {
	_, err := p.pool.Exec(ctx, insertRowQuery, table, fields)
	return err
}

func (p pgxRows) update(ctx context.Context, table string, rowNo int, fields string) error {
	_, err := p.pool.Exec(ctx, updateRowQuery, fields, table, rowNo)
	return err
}

func (p pgxRows) ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

type sqlxRows struct {
	db *sqlx.DB
}

func (s sqlxRows) rows(ctx context.Context, table string) ([]storedRow, error) {
	var out []storedRow
	if err := s.db.SelectContext(ctx, &out, selectRowsQuery, table); err != nil {
		return nil, err
	}
	return out, nil
}

func (s sqlxRows) insert(ctx context.Context, table, fields string) error {
	_, err := s.db.ExecContext(ctx, insertRowQuery, table, fields)
	return err
}

func (s sqlxRows) update(ctx context.Context, table string, rowNo int, fields string) error {
	_, err := s.db.ExecContext(ctx, updateRowQuery, fields, table, rowNo)
	return err
}

func (s sqlxRows) ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
