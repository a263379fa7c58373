package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resala-backend/internal/config"
	"resala-backend/internal/store"
)

func TestRunFailsOnUnknownTarget(t *testing.T) {
	cfg := &config.Config{SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "resala.db")}}

	err := run(cfg, config.BackendSQLite, "excel", time.Minute)
	assert.ErrorContains(t, err, "failed to open target excel")
}

func TestRestoreCopiesTables(t *testing.T) {
	ctx := context.Background()
	src := store.NewMemory()
	require.NoError(t, src.AppendRecord(ctx, store.TableFamilies, []string{"1", "Ahmed", "", ""}))
	dst := store.NewMemory()

	require.NoError(t, restore(ctx, src, dst))

	records, err := dst.ListRecords(ctx, store.TableFamilies)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ahmed", records[0][store.ColName])
}
