package models

// Family is a household registered with the charity.
// FamilyNumber is assigned sequentially as max(existing)+1 and never reused
type Family struct {
	FamilyNumber int    `json:"family_number"`
	Name         string `json:"name"`
	NationalID   string `json:"national_id"`
	MobileNumber string `json:"mobile_number"`
}

// CreateFamilyRequest for registering a new family
type CreateFamilyRequest struct {
	Name         string `json:"name"`
	NationalID   string `json:"national_id"`
	MobileNumber string `json:"mobile_number"`
}

// Search types accepted by the family search
const (
	SearchNameNumber = "name_number" // Name or FamilyNumber
	SearchMobileID   = "mobile_id"   // MobileNumber or NationalID
)
