package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resala-backend/internal/models"
)

func TestMemoryListAppend(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.AppendRecord(ctx, TableFamilies, []string{"1", "Ahmed", "2900", "0100"}))
	require.NoError(t, m.AppendRecord(ctx, TableFamilies, []string{"2", "Sara"}))

	records, err := m.ListRecords(ctx, TableFamilies)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ahmed", records[0][ColName])
	assert.Equal(t, "0100", records[0][ColMobileNumber])
	assert.Equal(t, "", records[1][ColMobileNumber])
}

func TestMemoryUpdateCell(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.AppendRecord(ctx, TableProducts, []string{"كراسة", "2.5", "100"}))
	require.NoError(t, m.AppendRecord(ctx, TableProducts, []string{"قلم جاف", "1"}))

	require.NoError(t, m.UpdateCell(ctx, TableProducts, ColName, "كراسة", ColQuantity, "97"))
	require.NoError(t, m.UpdateCell(ctx, TableProducts, ColName, "قلم جاف", ColQuantity, "5"))

	records, err := m.ListRecords(ctx, TableProducts)
	require.NoError(t, err)
	assert.Equal(t, "97", records[0][ColQuantity])
	assert.Equal(t, "5", records[1][ColQuantity])

	err = m.UpdateCell(ctx, TableProducts, ColName, "missing", ColQuantity, "1")
	assert.ErrorIs(t, err, ErrRowNotFound)

	err = m.UpdateCell(ctx, TableProducts, ColName, "كراسة", "Colour", "red")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestUpdateCellIgnoresPaddedKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.AppendRecord(ctx, TableProducts, []string{"كراسة ", "2.5", "100"}))

	require.NoError(t, m.UpdateCell(ctx, TableProducts, ColName, "كراسة", ColQuantity, "97"))

	records, err := m.ListRecords(ctx, TableProducts)
	require.NoError(t, err)
	assert.Equal(t, "97", records[0][ColQuantity])
}

func TestMemoryUnknownTableAndFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.ListRecords(ctx, "Orders")
	assert.ErrorIs(t, err, ErrUnknownTable)

	boom := errors.New("quota exceeded")
	m.FailWith = boom
	_, err = m.ListRecords(ctx, TableVisits)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Ping(ctx), boom)
}

func TestVisitsHeaderCarriesProductColumns(t *testing.T) {
	header, err := HeaderFor(TableVisits)
	require.NoError(t, err)
	assert.Equal(t, []string{ColFamilyNumber, ColUser, ColDate}, header[:3])
	assert.Equal(t, models.ProductColumns, header[3:])
}

func TestSeedProducts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed := []models.Product{{Name: "كراسة", Price: 2.5, Quantity: 100}, {Name: "بطة", Price: 10, Quantity: 4}}

	n, err := SeedProducts(ctx, m, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SeedProducts(ctx, m, seed)
	require.NoError(t, err)
	assert.Zero(t, n)

	records, err := m.ListRecords(ctx, TableProducts)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2.5", records[0][ColPrice])
	assert.Equal(t, "4", records[1][ColQuantity])
}
