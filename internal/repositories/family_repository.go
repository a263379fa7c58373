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

type FamilyRepository struct {
	Store store.Backend
}

func NewFamilyRepository(s store.Backend) *FamilyRepository {
	return &FamilyRepository{Store: s}
}

// List returns every family in sheet order.
// Rows whose FamilyNumber is not an integer are skipped with a warning.
func (r *FamilyRepository) List(ctx context.Context) ([]models.Family, error) {
	records, err := r.Store.ListRecords(ctx, store.TableFamilies)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}

	logger := logging.NewComponentLogger("families")
	families := make([]models.Family, 0, len(records))
	for _, rec := range records {
		number, err := parseInt(rec[store.ColFamilyNumber])
		if err != nil {
			logger.Warn().Str(logging.FAMILY, rec[store.ColFamilyNumber]).Msg("Invalid FamilyNumber in Families sheet")
			continue
		}
		families = append(families, models.Family{
			FamilyNumber: number,
			Name:         strings.TrimSpace(rec[store.ColName]),
			NationalID:   strings.TrimSpace(rec[store.ColNationalID]),
			MobileNumber: strings.TrimSpace(rec[store.ColMobileNumber]),
		})
	}
	return families, nil
}

// Get returns the first family with the given number
func (r *FamilyRepository) Get(ctx context.Context, number int) (*models.Family, error) {
	families, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range families {
		if families[i].FamilyNumber == number {
			return &families[i], nil
		}
	}
	return nil, fmt.Errorf("family %d: %w", number, ErrNotFound)
}

// Create appends a family numbered max(existing)+1.
// Two concurrent calls can observe the same maximum and assign the same number.
func (r *FamilyRepository) Create(ctx context.Context, req *models.CreateFamilyRequest) (*models.Family, error) {
	families, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	family := &models.Family{
		FamilyNumber: NextFamilyNumber(families),
		Name:         req.Name,
		NationalID:   req.NationalID,
		MobileNumber: req.MobileNumber,
	}

	row := []string{strconv.Itoa(family.FamilyNumber), family.Name, family.NationalID, family.MobileNumber}
	if err := r.Store.AppendRecord(ctx, store.TableFamilies, row); err != nil {
		return nil, fmt.Errorf("failed to add family: %w", err)
	}
	return family, nil
}

// NextFamilyNumber returns max(FamilyNumber)+1, or 1 for no families
func NextFamilyNumber(families []models.Family) int {
	highest := 0
	for _, f := range families {
		if f.FamilyNumber > highest {
			highest = f.FamilyNumber
		}
	}
	return highest + 1
}
