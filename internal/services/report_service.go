package services

import (
	"context"

	"resala-backend/internal/models"
	"resala-backend/internal/repositories"
)

type ReportService struct {
	products *repositories.ProductRepository
	visits   *repositories.VisitRepository
	policy   InventoryPolicy
}

func NewReportService(products *repositories.ProductRepository, visits *repositories.VisitRepository, policy InventoryPolicy) *ReportService {
	return &ReportService{products: products, visits: visits, policy: policy}
}

// Aggregate joins visits against the price list. Every visiting user appears in
// UserSpending, with zero when none of their items are priced.
func Aggregate(visits []models.Visit, products []models.Product) models.SpendingReport {
	report := models.SpendingReport{
		UserSpending: make(map[string]float64),
		SoldCounts:   make(map[string]int),
	}

	for _, visit := range visits {
		user := visit.User
		if user == "" {
			user = "Unknown"
		}
		if _, ok := report.UserSpending[user]; !ok {
			report.UserSpending[user] = 0
		}

		for _, p := range products {
			if !models.IsProductColumn(p.Name) {
				continue
			}
			qty, ok := visit.Quantities[p.Name]
			if !ok {
				continue
			}
			amount := float64(qty) * p.Price
			report.UserSpending[user] += amount
			report.TotalSpent += amount
			report.SoldCounts[p.Name] += qty
		}
	}
	return report
}

// Availability lists stock per product in Products order, leaving out products without a stock figure
func Availability(products []models.Product, sold map[string]int, policy InventoryPolicy) []models.ProductAvailability {
	out := make([]models.ProductAvailability, 0, len(products))
	for _, p := range products {
		if p.StockUnknown {
			continue
		}
		row := models.ProductAvailability{
			Name:      p.Name,
			Stock:     p.Quantity,
			Sold:      sold[p.Name],
			Available: p.Quantity,
		}
		if policy.SubtractsSold() {
			row.Available -= row.Sold
		}
		out = append(out, row)
	}
	return out
}

// Spending recomputes the spending report from the full Visits and Products tables
func (s *ReportService) Spending(ctx context.Context) (*models.SpendingReport, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	visits, err := s.visits.List(ctx)
	if err != nil {
		return nil, err
	}

	report := Aggregate(visits, products)
	return &report, nil
}

// AdminReport adds per-product availability to the spending report
func (s *ReportService) AdminReport(ctx context.Context) (*models.AdminReport, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	visits, err := s.visits.List(ctx)
	if err != nil {
		return nil, err
	}

	spending := Aggregate(visits, products)
	return &models.AdminReport{
		SpendingReport: spending,
		Availability:   Availability(products, spending.SoldCounts, s.policy),
	}, nil
}

// Products returns the price list in table order
func (s *ReportService) Products(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}
