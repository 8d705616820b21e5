package services

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// HeatServiceRepository defines the repository methods needed by HeatService
type HeatServiceRepository interface {
	repository.HeatRepository
	repository.RaceRepository
	repository.RaceTypeRepository
}

// HeatService handles heat CRUD
type HeatService struct {
	log  logger.Logger
	repo HeatServiceRepository
}

// NewHeatService creates a new HeatService
func NewHeatService(log logger.Logger, repo HeatServiceRepository) *HeatService {
	return &HeatService{log: log, repo: repo}
}

// maxTerminationLength is the longest heat termination label
const maxTerminationLength = 10

var heatColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// HeatPatch holds the fields a PATCH may change
type HeatPatch struct {
	Termination   *string    `json:"termination"`
	Pool          *string    `json:"pool"`
	StartDatetime *time.Time `json:"start_datetime"`
	Color         *string    `json:"color"`
	IdealCapacity *int       `json:"ideal_capacity"`
}

// GetHeat returns a heat by ID
func (s *HeatService) GetHeat(ctx context.Context, id int) (*models.Heat, error) {
	heat, err := s.repo.GetHeat(ctx, id)
	if err != nil {
		return nil, fromRepo(err, heatNotFound(id))
	}
	return heat, nil
}

// CreateHeat validates and stores a new heat
func (s *HeatService) CreateHeat(ctx context.Context, heat *models.Heat) (*models.Heat, error) {
	if err := validateHeat(heat); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetRace(ctx, heat.RaceID); err != nil {
		return nil, fromRepo(err, raceNotFound(heat.RaceID))
	}
	if _, err := s.repo.GetRaceType(ctx, heat.RaceTypeID); err != nil {
		return nil, fromRepo(err, raceTypeNotFound(heat.RaceTypeID))
	}
	id, err := s.repo.CreateHeat(ctx, heat)
	if err != nil {
		return nil, fromRepo(err, nil)
	}
	s.log.Info("Heat created", "heat_id", id, "race_id", heat.RaceID, "race_type_id", heat.RaceTypeID)
	return s.GetHeat(ctx, id)
}

// UpdateHeat applies a partial update
func (s *HeatService) UpdateHeat(ctx context.Context, id int, patch HeatPatch) (*models.Heat, error) {
	heat, err := s.GetHeat(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Termination != nil {
		heat.Termination = *patch.Termination
	}
	if patch.Pool != nil {
		heat.Pool = *patch.Pool
	}
	if patch.StartDatetime != nil {
		heat.StartDatetime = *patch.StartDatetime
	}
	if patch.Color != nil {
		heat.Color = *patch.Color
	}
	if patch.IdealCapacity != nil {
		heat.IdealCapacity = *patch.IdealCapacity
	}
	if err := validateHeat(heat); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateHeat(ctx, heat); err != nil {
		return nil, fromRepo(err, heatNotFound(id))
	}
	return s.GetHeat(ctx, id)
}

// DeleteHeat removes a heat; its entrants are left without a heat
func (s *HeatService) DeleteHeat(ctx context.Context, id int) error {
	if err := s.repo.DeleteHeat(ctx, id); err != nil {
		return fromRepo(err, heatNotFound(id))
	}
	s.log.Info("Heat deleted", "heat_id", id)
	return nil
}

func validateHeat(heat *models.Heat) error {
	if utf8.RuneCountInString(heat.Termination) > maxTerminationLength {
		return errors.Validationf("termination must be at most %d characters", maxTerminationLength)
	}
	if !heatColor.MatchString(heat.Color) {
		return errors.Validation("color must be in the form #RRGGBB")
	}
	if heat.IdealCapacity < 0 {
		return errors.Validation("ideal_capacity must not be negative")
	}
	return nil
}
