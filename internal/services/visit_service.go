package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/repositories"
)

// VisitObserver is notified after a visit row is appended
type VisitObserver interface {
	VisitRecorded()
}

type VisitService struct {
	families *repositories.FamilyRepository
	products *repositories.ProductRepository
	visits   *repositories.VisitRepository
	policy   InventoryPolicy
	observer VisitObserver

	// Now stamps recorded visits; replaced in tests
	Now func() time.Time
}

func NewVisitService(
	families *repositories.FamilyRepository,
	products *repositories.ProductRepository,
	visits *repositories.VisitRepository,
	policy InventoryPolicy,
	observer VisitObserver,
) *VisitService {
	return &VisitService{
		families: families,
		products: products,
		visits:   visits,
		policy:   policy,
		observer: observer,
		Now:      time.Now,
	}
}

// GetFamily resolves a family number, returning ErrFamilyNotFound when it has no row
func (s *VisitService) GetFamily(ctx context.Context, number int) (*models.Family, error) {
	family, err := s.families.Get(ctx, number)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrFamilyNotFound, number)
	}
	return family, err
}

// ParseQuantities reads one quantity per product column from submitted form values.
// A missing or blank field counts as 0; anything else must be a non-negative integer.
func ParseQuantities(form map[string]string) (map[string]int, error) {
	quantities := make(map[string]int, len(models.ProductColumns))
	for _, col := range models.ProductColumns {
		raw := strings.TrimSpace(form[col])
		if raw == "" {
			quantities[col] = 0
			continue
		}
		qty, err := strconv.Atoi(raw)
		if err != nil || qty < 0 {
			return nil, &QuantityError{Product: col, Value: form[col]}
		}
		quantities[col] = qty
	}
	return quantities, nil
}

// TotalPrice sums qty x price over the products present in the price list
func TotalPrice(quantities map[string]int, products []models.Product) float64 {
	total := 0.0
	for _, p := range products {
		if qty, ok := quantities[p.Name]; ok {
			total += float64(qty) * p.Price
		}
	}
	return total
}

// RecordVisit validates the submission, appends one Visit row and, when the inventory
// policy says so, lowers each product's stock. Validation failures write nothing.
//
// The stock update is a separate read-then-write per product after the append; if it
// fails the visit stays recorded and the returned error wraps ErrInventoryUpdate
// alongside a non-nil receipt.
func (s *VisitService) RecordVisit(ctx context.Context, familyNumber int, username string, form map[string]string) (*models.VisitReceipt, error) {
	if _, err := s.GetFamily(ctx, familyNumber); err != nil {
		return nil, err
	}

	quantities, err := ParseQuantities(form)
	if err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	visit := models.NewVisit(familyNumber, username, s.Now(), quantities)
	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, err
	}

	receipt := &models.VisitReceipt{Visit: visit, TotalPrice: TotalPrice(quantities, products)}

	logger := logging.NewComponentLogger("visits")
	logger.Info().
		Int(logging.FAMILY, familyNumber).
		Str(logging.USER, username).
		Float64("total", receipt.TotalPrice).
		Msg("Visit recorded")
	if s.observer != nil {
		s.observer.VisitRecorded()
	}

	if s.policy.DecrementsOnVisit() {
		if err := s.decrementStock(ctx, quantities); err != nil {
			return receipt, err
		}
	}
	return receipt, nil
}

// decrementStock re-reads each product and writes back Quantity - qty.
// Concurrent visits for the same product can lose updates.
func (s *VisitService) decrementStock(ctx context.Context, quantities map[string]int) error {
	logger := logging.NewComponentLogger("inventory")

	var errs []error
	for _, col := range models.ProductColumns {
		qty := quantities[col]
		if qty == 0 {
			continue
		}

		product, err := s.products.Get(ctx, col)
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn().Str(logging.PRODUCT, col).Msg("Product missing from Products sheet, stock not updated")
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if product.StockUnknown {
			logger.Warn().Str(logging.PRODUCT, col).Msg("Product has no stock figure, stock not updated")
			continue
		}

		remaining := product.Quantity - qty
		if remaining < 0 {
			logger.Warn().Str(logging.PRODUCT, col).Int("remaining", remaining).Msg("Stock went negative")
		}
		if err := s.products.SetQuantity(ctx, col, remaining); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInventoryUpdate, errors.Join(errs...))
	}
	return nil
}
