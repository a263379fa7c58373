package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) ObserveStoreCall(table, op string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	o.calls = append(o.calls, table+"/"+op+"/"+result)
}

func TestInstrumentedReportsCalls(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	obs := &recordingObserver{}
	b := Instrument(mem, obs, time.Second)

	require.NoError(t, b.AppendRecord(ctx, TableFamilies, []string{"1", "Ahmed"}))
	_, err := b.ListRecords(ctx, TableFamilies)
	require.NoError(t, err)

	mem.FailWith = errors.New("offline")
	assert.Error(t, b.UpdateCell(ctx, TableFamilies, ColFamilyNumber, "1", ColName, "x"))
	assert.Error(t, b.Ping(ctx))

	assert.Equal(t, []string{
		"Families/append/ok",
		"Families/list/ok",
		"Families/update/error",
		"/ping/error",
	}, obs.calls)
}
