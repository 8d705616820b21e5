package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// RaceServiceRepository defines the repository methods needed by RaceService
type RaceServiceRepository interface {
	repository.RaceRepository
	repository.RaceTypeRepository
	repository.HeatRepository
	repository.ParticipantRepository
	repository.RelayTeamRepository
	repository.StatsRepository
}

// RaceService handles races and race-wide listings
type RaceService struct {
	log  logger.Logger
	repo RaceServiceRepository
}

// NewRaceService creates a new RaceService
func NewRaceService(log logger.Logger, repo RaceServiceRepository) *RaceService {
	return &RaceService{log: log, repo: repo}
}

// Pagination defaults for participant listings
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Page selects a slice of a listing. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

func (p Page) limitOffset() (int, int, error) {
	number, size := p.Number, p.Size
	if number == 0 {
		number = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if number < 1 || size < 1 || size > MaxPageSize {
		return 0, 0, errors.InvalidInputf("page must be at least 1 and page_size between 1 and %d", MaxPageSize)
	}
	return size, (number - 1) * size, nil
}

// ListRaces returns active races
func (s *RaceService) ListRaces(ctx context.Context) ([]models.Race, error) {
	return s.repo.ListRaces(ctx, true)
}

// GetRace returns a race by ID
func (s *RaceService) GetRace(ctx context.Context, id int) (*models.Race, error) {
	race, err := s.repo.GetRace(ctx, id)
	if err != nil {
		return nil, fromRepo(err, raceNotFound(id))
	}
	return race, nil
}

// GetOrCreateRace returns the race with the given name, creating it when new.
// created reports whether a race was inserted.
func (s *RaceService) GetOrCreateRace(ctx context.Context, name string) (race *models.Race, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.Validation("name is required")
	}
	race, err = s.repo.GetRaceByName(ctx, name)
	if err == nil {
		return race, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	race, err = s.repo.CreateRace(ctx, name)
	if err != nil {
		return nil, false, fromRepo(err, nil)
	}
	s.log.Info("Race created", "race_id", race.ID, "name", name)
	return race, true, nil
}

// DeactivateRace hides a race from listings; its data is kept
func (s *RaceService) DeactivateRace(ctx context.Context, id int) error {
	if _, err := s.GetRace(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetRaceActive(ctx, id, false); err != nil {
		return fromRepo(err, raceNotFound(id))
	}
	s.log.Info("Race deactivated", "race_id", id)
	return nil
}

// Stats returns registration figures for each race type with active entrants.
// Relay teams count towards registered; ftt_registered counts participants only.
func (s *RaceService) Stats(ctx context.Context, raceID int) ([]models.RaceTypeStat, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}

	var (
		raceTypes []models.RaceType
		counts    map[int]repository.EntrantCount
		ftt       map[int]repository.FTTCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raceTypes, err = s.repo.ListRaceTypesForRace(gctx, raceID)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.CountActiveEntrantsByRaceType(gctx, raceID)
		return err
	})
	g.Go(func() error {
		var err error
		ftt, err = s.repo.CountActiveParticipantsByFTT(gctx, raceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := make([]models.RaceTypeStat, 0, len(raceTypes))
	for _, rt := range raceTypes {
		stats = append(stats, models.RaceTypeStat{
			RaceType:      rt,
			Registered:    ftt[rt.ID].Registered + counts[rt.ID].RelayTeams,
			FTTRegistered: ftt[rt.ID].FTTRegistered,
			Allowed:       rt.ParticipantsAllowed,
			FTTAllowed:    rt.FTTAllowed,
		})
	}
	return stats, nil
}

// BibInfo returns the bib range in use for each race type of the race
func (s *RaceService) BibInfo(ctx context.Context, raceID int) ([]models.BibInfo, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}

	var (
		raceTypes []models.RaceType
		ranges    []repository.BibRange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raceTypes, err = s.repo.ListRaceTypesForRace(gctx, raceID)
		return err
	})
	g.Go(func() error {
		var err error
		ranges, err = s.repo.ListBibRanges(gctx, raceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int]models.RaceType, len(raceTypes))
	for _, rt := range raceTypes {
		byID[rt.ID] = rt
	}
	info := make([]models.BibInfo, 0, len(ranges))
	for _, br := range ranges {
		info = append(info, models.BibInfo{
			RaceType: byID[br.RaceTypeID],
			Smallest: br.Smallest,
			Largest:  br.Largest,
			Count:    br.Count,
		})
	}
	return info, nil
}

// ListParticipants returns a page of active participants, optionally for one bib
func (s *RaceService) ListParticipants(ctx context.Context, raceID int, bib *int, page Page) ([]models.Participant, error) {
	limit, offset, err := page.limitOffset()
	if err != nil {
		return nil, err
	}
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}
	active := true
	return s.repo.ListParticipants(ctx, repository.ParticipantFilter{
		RaceID: raceID, Active: &active, BibNumber: bib, Limit: limit, Offset: offset,
	})
}

// ListDisabledParticipants returns inactive participants of the race
func (s *RaceService) ListDisabledParticipants(ctx context.Context, raceID int) ([]models.Participant, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}
	inactive := false
	return s.repo.ListParticipants(ctx, repository.ParticipantFilter{RaceID: raceID, Active: &inactive})
}

// ListInvalidSwimTimes returns active participants whose race type needs a
// swim time and who have none
func (s *RaceService) ListInvalidSwimTimes(ctx context.Context, raceID int) ([]models.Participant, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}
	active := true
	return s.repo.ListParticipants(ctx, repository.ParticipantFilter{RaceID: raceID, Active: &active, InvalidSwimTime: true})
}

// ListParticipations returns solo and relay entries of the race, optionally for one user
func (s *RaceService) ListParticipations(ctx context.Context, raceID int, userID *int) ([]models.Participation, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}
	return s.repo.ListParticipations(ctx, raceID, userID)
}

// ListRelayTeams returns the relay teams of the race
func (s *RaceService) ListRelayTeams(ctx context.Context, raceID int) ([]models.RelayTeam, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}
	return s.repo.ListRelayTeams(ctx, raceID)
}

// ListHeats returns the heats of the race, optionally for one race type
func (s *RaceService) ListHeats(ctx context.Context, raceID int, raceTypeID *int) ([]models.Heat, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return nil, err
	}
	return s.repo.ListHeats(ctx, raceID, raceTypeID)
}
