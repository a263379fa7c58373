package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrTargetNotEmpty is returned by CopyTables when a destination table already has rows
var ErrTargetNotEmpty = errors.New("target table is not empty")

// AllTables lists every table in dependency order
var AllTables = []string{TableProducts, TableFamilies, TableVisits}

// CopyTables appends every row of each table in src to the same table in dst,
// in header order. Every destination table is checked for emptiness before
// anything is written. Returns the number of rows copied per table.
func CopyTables(ctx context.Context, src, dst Backend, tables ...string) (map[string]int, error) {
	if len(tables) == 0 {
		tables = AllTables
	}

	for _, table := range tables {
		existing, err := dst.ListRecords(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect target %s: %w", table, err)
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("%w: %s has %d rows", ErrTargetNotEmpty, table, len(existing))
		}
	}

	copied := make(map[string]int, len(tables))
	for _, table := range tables {
		header, err := HeaderFor(table)
		if err != nil {
			return copied, err
		}
		records, err := src.ListRecords(ctx, table)
		if err != nil {
			return copied, fmt.Errorf("failed to read source %s: %w", table, err)
		}

		for _, rec := range records {
			values := make([]string, len(header))
			for i, col := range header {
				values[i] = rec[col]
			}
			if err := dst.AppendRecord(ctx, table, values); err != nil {
				return copied, fmt.Errorf("failed to write %s row %d: %w", table, copied[table]+1, err)
			}
			copied[table]++
		}
	}
	return copied, nil
}
