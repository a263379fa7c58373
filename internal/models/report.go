package models

// SpendingReport aggregates the Visits table against the Products price list
type SpendingReport struct {
	UserSpending map[string]float64 `json:"user_spending"`
	TotalSpent   float64            `json:"total_spent"`
	SoldCounts   map[string]int     `json:"sold_counts"`
}

// AdminReport is everything shown on the admin page
type AdminReport struct {
	SpendingReport
	Availability []ProductAvailability `json:"availability"`
}
