package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/store"
)

type ProductRepository struct {
	Store store.Backend
}

func NewProductRepository(s store.Backend) *ProductRepository {
	return &ProductRepository{Store: s}
}

// List returns products in sheet order, skipping rows with an unparseable Price.
// An unparseable Quantity keeps the product with StockUnknown set.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	records, err := r.Store.ListRecords(ctx, store.TableProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	logger := logging.NewComponentLogger("products")
	products := make([]models.Product, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec[store.ColName])
		if name == "" {
			continue
		}

		price, err := parseFloat(rec[store.ColPrice])
		if err != nil {
			logger.Warn().Str(logging.PRODUCT, name).Str("value", rec[store.ColPrice]).Msg("Invalid price in Products sheet")
			continue
		}
		product := models.Product{Name: name, Price: price}
		if qty, err := parseInt(rec[store.ColQuantity]); err != nil {
			logger.Warn().Str(logging.PRODUCT, name).Str("value", rec[store.ColQuantity]).Msg("Invalid quantity in Products sheet")
			product.StockUnknown = true
		} else {
			product.Quantity = qty
		}

		products = append(products, product)
	}
	return products, nil
}

// Get returns the product with the given name
func (r *ProductRepository) Get(ctx context.Context, name string) (*models.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Name == name {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", name, ErrNotFound)
}

// SetQuantity overwrites the stored Quantity of a product
func (r *ProductRepository) SetQuantity(ctx context.Context, name string, qty int) error {
	err := r.Store.UpdateCell(ctx, store.TableProducts, store.ColName, name, store.ColQuantity, strconv.Itoa(qty))
	if err != nil {
		return fmt.Errorf("failed to update quantity of %s: %w", name, err)
	}
	return nil
}
