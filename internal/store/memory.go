package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps tables in process. Used by tests and the memory backend.
type Memory struct {
	mu   sync.Mutex
	rows map[string][][]string

	// FailWith makes every call return this error when non-nil
	FailWith error
}

func NewMemory() *Memory {
	return &Memory{rows: make(map[string][][]string)}
}

func (m *Memory) ListRecords(ctx context.Context, table string) ([]Record, error) {
	header, err := m.check(table)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]Record, 0, len(m.rows[table]))
	for _, row := range m.rows[table] {
		records = append(records, zipRecord(header, row))
	}
	return records, nil
}

func (m *Memory) AppendRecord(ctx context.Context, table string, values []string) error {
	if _, err := m.check(table); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row := make([]string, len(values))
	copy(row, values)
	m.rows[table] = append(m.rows[table], row)
	return nil
}

func (m *Memory) UpdateCell(ctx context.Context, table, keyColumn, key, column, value string) error {
	header, err := m.check(table)
	if err != nil {
		return err
	}

	keyIdx := columnIndex(header, keyColumn)
	colIdx := columnIndex(header, column)
	if keyIdx < 0 || colIdx < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.rows[table]
	for i, row := range rows {
		if keyIdx < len(row) && keyMatches(row[keyIdx], key) {
			for len(row) <= colIdx {
				row = append(row, "")
			}
			row[colIdx] = value
			rows[i] = row
			return nil
		}
	}
	return fmt.Errorf("%w: %s where %s=%s", ErrRowNotFound, table, keyColumn, key)
}

func (m *Memory) Ping(ctx context.Context) error {
	return m.FailWith
}

func (m *Memory) check(table string) ([]string, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return HeaderFor(table)
}
