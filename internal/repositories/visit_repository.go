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

type VisitRepository struct {
	Store store.Backend
}

func NewVisitRepository(s store.Backend) *VisitRepository {
	return &VisitRepository{Store: s}
}

// List returns every visit. Quantities are parsed per column: a blank cell is absent,
// an unparseable one is logged and left out without dropping the rest of the row.
func (r *VisitRepository) List(ctx context.Context) ([]models.Visit, error) {
	records, err := r.Store.ListRecords(ctx, store.TableVisits)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	logger := logging.NewComponentLogger("visits")
	visits := make([]models.Visit, 0, len(records))
	for i, rec := range records {
		visit := models.Visit{
			User:       strings.TrimSpace(rec[store.ColUser]),
			Date:       strings.TrimSpace(rec[store.ColDate]),
			Quantities: make(map[string]int, len(models.ProductColumns)),
		}
		if visit.User == "" {
			visit.User = "Unknown"
		}
		if n, err := parseInt(rec[store.ColFamilyNumber]); err == nil {
			visit.FamilyNumber = n
		}

		for _, col := range models.ProductColumns {
			raw := strings.TrimSpace(rec[col])
			if raw == "" {
				continue
			}
			qty, err := parseInt(raw)
			if err != nil {
				logger.Warn().Int("row", i+2).Str(logging.PRODUCT, col).Str("value", raw).
					Msg("Invalid quantity in Visits sheet")
				continue
			}
			visit.Quantities[col] = qty
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

// Create appends a visit with quantities in ProductColumns order; absent quantities are written as 0
func (r *VisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	row := make([]string, 0, 3+len(models.ProductColumns))
	row = append(row, strconv.Itoa(visit.FamilyNumber), visit.User, visit.Date)
	for _, col := range models.ProductColumns {
		row = append(row, strconv.Itoa(visit.Quantities[col]))
	}

	if err := r.Store.AppendRecord(ctx, store.TableVisits, row); err != nil {
		return fmt.Errorf("failed to record visit for family %d: %w", visit.FamilyNumber, err)
	}
	return nil
}
