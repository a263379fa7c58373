package store

import (
	"context"
	"strconv"

	"resala-backend/internal/models"
)

// SeedProducts fills an empty Products table. It returns the number of rows written,
// zero when the table already has data.
func SeedProducts(ctx context.Context, b Backend, products []models.Product) (int, error) {
	existing, err := b.ListRecords(ctx, TableProducts)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, p := range products {
		row := []string{
			p.Name,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.Itoa(p.Quantity),
		}
		if err := b.AppendRecord(ctx, TableProducts, row); err != nil {
			return i, err
		}
	}
	return len(products), nil
}
