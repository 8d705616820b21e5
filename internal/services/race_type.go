package services

import (
	"context"
	"strings"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// RaceTypeServiceRepository defines the repository methods needed by RaceTypeService
type RaceTypeServiceRepository interface {
	repository.RaceTypeRepository
	repository.CheckInRepository
}

// RaceTypeService handles race types and their check-in lists
type RaceTypeService struct {
	log  logger.Logger
	repo RaceTypeServiceRepository
}

// NewRaceTypeService creates a new RaceTypeService
func NewRaceTypeService(log logger.Logger, repo RaceTypeServiceRepository) *RaceTypeService {
	return &RaceTypeService{log: log, repo: repo}
}

// RaceTypePatch holds the fields a PATCH may change
type RaceTypePatch struct {
	Name                *string `json:"name"`
	ParticipantsAllowed *int    `json:"participants_allowed"`
	FTTAllowed          *int    `json:"ftt_allowed"`
	NeedsSwimTime       *bool   `json:"needs_swim_time"`
	IsActive            *bool   `json:"is_active"`
}

// ListRaceTypes returns every race type
func (s *RaceTypeService) ListRaceTypes(ctx context.Context) ([]models.RaceType, error) {
	return s.repo.ListRaceTypes(ctx)
}

// GetRaceType returns a race type with its ordered check-ins
func (s *RaceTypeService) GetRaceType(ctx context.Context, id int) (*models.RaceType, error) {
	rt, err := s.repo.GetRaceType(ctx, id)
	if err != nil {
		return nil, fromRepo(err, raceTypeNotFound(id))
	}
	return rt, nil
}

// CreateRaceType stores a new race type
func (s *RaceTypeService) CreateRaceType(ctx context.Context, rt *models.RaceType) (*models.RaceType, error) {
	if err := validateRaceType(rt); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateRaceType(ctx, rt)
	if err != nil {
		return nil, fromRepo(err, nil)
	}
	s.log.Info("Race type created", "race_type_id", id, "name", rt.Name)
	return s.GetRaceType(ctx, id)
}

// UpdateRaceType applies a partial update
func (s *RaceTypeService) UpdateRaceType(ctx context.Context, id int, patch RaceTypePatch) (*models.RaceType, error) {
	rt, err := s.GetRaceType(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		rt.Name = *patch.Name
	}
	if patch.ParticipantsAllowed != nil {
		rt.ParticipantsAllowed = *patch.ParticipantsAllowed
	}
	if patch.FTTAllowed != nil {
		rt.FTTAllowed = *patch.FTTAllowed
	}
	if patch.NeedsSwimTime != nil {
		rt.NeedsSwimTime = *patch.NeedsSwimTime
	}
	if patch.IsActive != nil {
		rt.IsActive = *patch.IsActive
	}
	if err := validateRaceType(rt); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRaceType(ctx, rt); err != nil {
		return nil, fromRepo(err, raceTypeNotFound(id))
	}
	return s.GetRaceType(ctx, id)
}

// DeleteRaceType removes a race type that no heat or entrant references
func (s *RaceTypeService) DeleteRaceType(ctx context.Context, id int) error {
	if err := s.repo.DeleteRaceType(ctx, id); err != nil {
		if errors.Is(fromRepo(err, nil), errors.ErrConflict) {
			return errors.Conflictf("Race Type with id %d is still in use", id)
		}
		return fromRepo(err, raceTypeNotFound(id))
	}
	s.log.Info("Race type deleted", "race_type_id", id)
	return nil
}

// SetCheckIns replaces the ordered check-in list of a race type
func (s *RaceTypeService) SetCheckIns(ctx context.Context, id int, checkinIDs []int) (*models.RaceType, error) {
	if _, err := s.GetRaceType(ctx, id); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(checkinIDs))
	for _, cid := range checkinIDs {
		if seen[cid] {
			return nil, errors.Validationf("CheckIn %d is listed more than once", cid)
		}
		seen[cid] = true
		if _, err := s.repo.GetCheckIn(ctx, cid); err != nil {
			return nil, fromRepo(err, checkInNotFound(cid))
		}
	}
	if err := s.repo.SetRaceTypeCheckIns(ctx, id, checkinIDs); err != nil {
		return nil, fromRepo(err, nil)
	}
	return s.GetRaceType(ctx, id)
}

func validateRaceType(rt *models.RaceType) error {
	rt.Name = strings.TrimSpace(rt.Name)
	if rt.Name == "" {
		return errors.Validation("name is required")
	}
	if rt.ParticipantsAllowed < 0 || rt.FTTAllowed < 0 {
		return errors.Validation("allowed counts must not be negative")
	}
	return nil
}
