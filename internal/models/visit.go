package models

import "time"

// VisitDateLayout is the format of Visit.Date as stored in the Visits table
const VisitDateLayout = "2006-01-02 15:04:05"

// Visit is a single distribution event. Visits are append-only.
type Visit struct {
	FamilyNumber int            `json:"family_number"`
	User         string         `json:"user"`
	Date         string         `json:"date"`
	Quantities   map[string]int `json:"quantities"` // Keyed by product name, absent when blank or unparseable
}

// NewVisit builds a visit stamped with the given time
func NewVisit(familyNumber int, user string, at time.Time, quantities map[string]int) *Visit {
	return &Visit{
		FamilyNumber: familyNumber,
		User:         user,
		Date:         at.Format(VisitDateLayout),
		Quantities:   quantities,
	}
}

// VisitReceipt is returned after a visit has been recorded
type VisitReceipt struct {
	Visit      *Visit  `json:"visit"`
	TotalPrice float64 `json:"total_price"`
}
