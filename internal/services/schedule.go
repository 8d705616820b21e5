package services

import (
	"context"
	"fmt"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// ScheduleServiceRepository defines the repository methods needed by ScheduleService
type ScheduleServiceRepository interface {
	readinessRepository
	repository.HeatRepository
	repository.EntrantRepository
	repository.Transactor
}

// readinessRepository is the read-only slice of the repository the capacity
// check needs. A transaction-bound repository satisfies it too.
type readinessRepository interface {
	repository.RaceRepository
	repository.RaceTypeRepository
	repository.StatsRepository
}

// ScheduleService checks heat capacity and assigns entrants to heats
type ScheduleService struct {
	log         logger.Logger
	repo        ScheduleServiceRepository
	broadcaster Broadcaster
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(log logger.Logger, repo ScheduleServiceRepository) *ScheduleService {
	return &ScheduleService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster notified after a successful schedule
func (s *ScheduleService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CheckReadiness lists every race type of the race whose heats cannot hold
// its active entrants. An empty list means the race can be auto-scheduled.
func (s *ScheduleService) CheckReadiness(ctx context.Context, raceID int) ([]string, error) {
	return checkReadiness(ctx, s.repo, raceID)
}

func checkReadiness(ctx context.Context, repo readinessRepository, raceID int) ([]string, error) {
	if _, err := repo.GetRace(ctx, raceID); err != nil {
		return nil, fromRepo(err, raceNotFound(raceID))
	}

	capacity, err := repo.SumHeatCapacityByRaceType(ctx, raceID)
	if err != nil {
		return nil, err
	}
	counts, err := repo.CountActiveEntrantsByRaceType(ctx, raceID)
	if err != nil {
		return nil, err
	}
	raceTypes, err := repo.ListRaceTypesForRace(ctx, raceID)
	if err != nil {
		return nil, err
	}

	deficiencies := []string{}
	for _, rt := range raceTypes {
		spots, ok := capacity[rt.ID]
		if !ok {
			deficiencies = append(deficiencies, fmt.Sprintf("Race Type %s has no heats available", rt.Name))
			continue
		}
		needed := counts[rt.ID].Total()
		if needed > spots {
			deficiencies = append(deficiencies, fmt.Sprintf(
				"Race Type %s does not have enough capacity. It has %d spots, it needs %d spots. %d spots are missing.",
				rt.Name, spots, needed, needed-spots))
		}
	}
	return deficiencies, nil
}

// AutoSchedule assigns every active entrant of the race to a heat. Within a
// race type, heats are filled in id order from a single cursor, slowest
// swimmers first. Nothing is written unless every race type succeeds.
func (s *ScheduleService) AutoSchedule(ctx context.Context, raceID int) error {
	err := s.repo.RunInTx(ctx, func(tx repository.FullRepository) error {
		deficiencies, err := checkReadiness(ctx, tx, raceID)
		if err != nil {
			return err
		}
		if len(deficiencies) > 0 {
			return ErrAutoScheduleNotReady
		}

		raceTypes, err := tx.ListRaceTypesForRace(ctx, raceID)
		if err != nil {
			return err
		}
		for _, rt := range raceTypes {
			if err := scheduleRaceType(ctx, tx, raceID, rt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Auto schedule failed", "race_id", raceID, "error", err)
		return err
	}

	s.log.Info("Auto schedule complete", "race_id", raceID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(EventHeatsScheduled, map[string]interface{}{"race_id": raceID})
	}
	return nil
}

func scheduleRaceType(ctx context.Context, tx repository.FullRepository, raceID int, rt models.RaceType) error {
	heats, err := tx.ListHeats(ctx, raceID, &rt.ID)
	if err != nil {
		return err
	}
	participants, err := tx.ListActiveEntrantIDs(ctx, models.EntrantParticipant, raceID, rt.ID)
	if err != nil {
		return err
	}
	relayTeams, err := tx.ListActiveEntrantIDs(ctx, models.EntrantRelayTeam, raceID, rt.ID)
	if err != nil {
		return err
	}

	total := 0
	for _, heat := range heats {
		pSlice := window(participants, total, heat.IdealCapacity)
		rSlice := window(relayTeams, total, heat.IdealCapacity)

		switch {
		case len(pSlice) > 0 && len(rSlice) > 0:
			return errors.PreconditionFailedf("Participants and Relay Teams found for %s type", rt.Name)
		case len(pSlice) > 0:
			if err := tx.AssignHeat(ctx, models.EntrantParticipant, pSlice, heat.ID); err != nil {
				return err
			}
		case len(rSlice) > 0:
			if err := tx.AssignHeat(ctx, models.EntrantRelayTeam, rSlice, heat.ID); err != nil {
				return err
			}
		}

		total += heat.IdealCapacity
	}
	return nil
}

// window returns ids[start:start+size] clamped to the slice bounds
func window(ids []int, start, size int) []int {
	if start >= len(ids) || size <= 0 {
		return nil
	}
	end := start + size
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}

func raceNotFound(id int) *errors.Error {
	return errors.NotFoundf("Race with id %d does not exist", id)
}
