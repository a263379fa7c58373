package services

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"resala-backend/internal/models"
)

// MatchMode controls how mobile_id searches compare MobileNumber and NationalID
type MatchMode string

const (
	MatchSubstring MatchMode = "substring"
	MatchExact     MatchMode = "exact"
)

// fold normalizes text for case-insensitive comparison.
// A new Caser per call: Casers keep state and are not safe to share.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// SearchFamilies filters families in order. An empty keyword or unknown search type matches nothing.
func SearchFamilies(families []models.Family, searchType, keyword string, mobileMatch MatchMode) []models.Family {
	kw := fold(keyword)
	if kw == "" {
		return nil
	}

	var results []models.Family
	for _, f := range families {
		var hit bool
		switch searchType {
		case models.SearchNameNumber:
			hit = strings.Contains(fold(f.Name), kw) ||
				strings.Contains(strconv.Itoa(f.FamilyNumber), kw)
		case models.SearchMobileID:
			hit = matchField(f.MobileNumber, kw, mobileMatch) ||
				matchField(f.NationalID, kw, mobileMatch)
		}
		if hit {
			results = append(results, f)
		}
	}
	return results
}

func matchField(value, kw string, mode MatchMode) bool {
	v := fold(value)
	if v == "" {
		return false
	}
	if mode == MatchExact {
		return v == kw
	}
	return strings.Contains(v, kw)
}
