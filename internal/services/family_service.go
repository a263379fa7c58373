package services

import (
	"context"
	"strings"

	"resala-backend/internal/logging"
	"resala-backend/internal/models"
	"resala-backend/internal/repositories"
)

// FamilyObserver is notified after a family is registered
type FamilyObserver interface {
	FamilyAdded()
}

type FamilyService struct {
	repo        *repositories.FamilyRepository
	mobileMatch MatchMode
	observer    FamilyObserver
}

func NewFamilyService(repo *repositories.FamilyRepository, mobileMatch MatchMode, observer FamilyObserver) *FamilyService {
	if mobileMatch == "" {
		mobileMatch = MatchSubstring
	}
	return &FamilyService{repo: repo, mobileMatch: mobileMatch, observer: observer}
}

func (s *FamilyService) ListFamilies(ctx context.Context) ([]models.Family, error) {
	return s.repo.List(ctx)
}

// Search reads the Families table and filters it; see SearchFamilies
func (s *FamilyService) Search(ctx context.Context, searchType, keyword string) ([]models.Family, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}
	families, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return SearchFamilies(families, searchType, keyword, s.mobileMatch), nil
}

// SearchIn filters an already loaded family list
func (s *FamilyService) SearchIn(families []models.Family, searchType, keyword string) []models.Family {
	return SearchFamilies(families, searchType, keyword, s.mobileMatch)
}

// AddFamily validates and registers a new family
func (s *FamilyService) AddFamily(ctx context.Context, req *models.CreateFamilyRequest) (*models.Family, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	if req.Name == "" {
		return nil, ErrNameRequired
	}

	family, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	logger := logging.NewComponentLogger("families")
	logger.Info().
		Int(logging.FAMILY, family.FamilyNumber).
		Msg("Family added")
	if s.observer != nil {
		s.observer.FamilyAdded()
	}
	return family, nil
}
