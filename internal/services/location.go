package services

import (
	"context"
	"strings"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// LocationService handles entrant origins
type LocationService struct {
	log  logger.Logger
	repo repository.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(log logger.Logger, repo repository.LocationRepository) *LocationService {
	return &LocationService{log: log, repo: repo}
}

// GetOrCreate returns the location for (city, province, country), creating it when new
func (s *LocationService) GetOrCreate(ctx context.Context, city, province, country string) (*models.Location, error) {
	return getOrCreateOrigin(ctx, s.repo, OriginInput{City: city, Province: province, Country: country})
}

// ListLocations returns every known location
func (s *LocationService) ListLocations(ctx context.Context) ([]models.Location, error) {
	return s.repo.ListLocations(ctx)
}

func getOrCreateOrigin(ctx context.Context, repo repository.LocationRepository, in OriginInput) (*models.Location, error) {
	in.City = strings.TrimSpace(in.City)
	in.Province = strings.TrimSpace(in.Province)
	in.Country = strings.TrimSpace(in.Country)
	if !in.complete() {
		return nil, errors.Validation("origin requires city, province and country")
	}
	loc, err := repo.GetOrCreateLocation(ctx, in.City, in.Province, in.Country)
	if err != nil {
		return nil, fromRepo(err, nil)
	}
	return loc, nil
}
