package services

import (
	"context"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// lifecycleRepository defines the repository methods needed to move entrants
// between states and heats
type lifecycleRepository interface {
	repository.ParticipantRepository
	repository.RelayTeamRepository
	repository.EntrantRepository
	repository.HeatRepository
	repository.RaceTypeRepository
}

// entrantState is the part of a participant or relay team the lifecycle rules read
type entrantState struct {
	kind       models.EntrantKind
	id         int
	raceTypeID int
	heatID     *int
	isActive   bool
}

// lifecycle applies activation and heat rules shared by participants and relay teams
type lifecycle struct {
	log  logger.Logger
	repo lifecycleRepository
}

func (l lifecycle) load(ctx context.Context, kind models.EntrantKind, id int) (*entrantState, error) {
	state := &entrantState{kind: kind, id: id}
	if kind == models.EntrantRelayTeam {
		t, err := l.repo.GetRelayTeam(ctx, id)
		if err != nil {
			return nil, fromRepo(err, entrantNotFound(kind, id))
		}
		state.raceTypeID, state.heatID, state.isActive = t.RaceTypeID, t.HeatID, t.IsActive
		return state, nil
	}
	p, err := l.repo.GetParticipant(ctx, id)
	if err != nil {
		return nil, fromRepo(err, entrantNotFound(kind, id))
	}
	state.raceTypeID, state.heatID, state.isActive = p.RaceTypeID, p.HeatID, p.IsActive
	return state, nil
}

func (l lifecycle) setActive(ctx context.Context, kind models.EntrantKind, id int, active bool) error {
	if _, err := l.load(ctx, kind, id); err != nil {
		return err
	}
	// reactivating can collide with a bib taken while the entrant was inactive
	if err := l.repo.SetEntrantActive(ctx, kind, id, active); err != nil {
		return fromRepo(err, entrantNotFound(kind, id))
	}

	note := kind.Label() + " deactivated"
	if active {
		note = kind.Label() + " reactivated"
	}
	if _, err := l.repo.CreateComment(ctx, kind, id, nil, note); err != nil {
		l.log.Error("Failed to record system comment", "entrant_type", kind, "entrant_id", id, "error", err)
	}
	l.log.Info("Entrant active state changed", "entrant_type", kind, "entrant_id", id, "is_active", active)
	return nil
}

func (l lifecycle) changeRaceType(ctx context.Context, kind models.EntrantKind, id, raceTypeID int) error {
	state, err := l.load(ctx, kind, id)
	if err != nil {
		return err
	}
	if state.heatID != nil {
		return errors.Conflictf("%s is in a heat. Please remove them from their heat first.", kind.Label())
	}
	if _, err := l.repo.GetRaceType(ctx, raceTypeID); err != nil {
		return fromRepo(err, raceTypeNotFound(raceTypeID))
	}
	if err := l.repo.SetEntrantRaceType(ctx, kind, id, raceTypeID); err != nil {
		return fromRepo(err, entrantNotFound(kind, id))
	}
	l.log.Info("Entrant race type changed", "entrant_type", kind, "entrant_id", id, "race_type_id", raceTypeID)
	return nil
}

func (l lifecycle) changeHeat(ctx context.Context, kind models.EntrantKind, id, heatID int) error {
	state, err := l.load(ctx, kind, id)
	if err != nil {
		return err
	}
	if state.heatID != nil {
		return errors.Conflictf("%s is in a Heat. Please remove them from their Heat first.", kind.Label())
	}
	if !state.isActive {
		return errors.Conflictf("%s is in an inactive state. Unable to add to Heat.", kind.Label())
	}

	heat, err := l.repo.GetHeat(ctx, heatID)
	if err != nil {
		return fromRepo(err, heatNotFound(heatID))
	}
	if heat.RaceTypeID != state.raceTypeID {
		entrantType, err := l.repo.GetRaceType(ctx, state.raceTypeID)
		if err != nil {
			return fromRepo(err, raceTypeNotFound(state.raceTypeID))
		}
		heatType, err := l.repo.GetRaceType(ctx, heat.RaceTypeID)
		if err != nil {
			return fromRepo(err, raceTypeNotFound(heat.RaceTypeID))
		}
		return errors.Conflictf("Race Types do not match, %s is %s and Heat is %s",
			kind.Label(), entrantType.Name, heatType.Name)
	}

	if err := l.repo.SetEntrantHeat(ctx, kind, id, &heatID); err != nil {
		return fromRepo(err, entrantNotFound(kind, id))
	}
	l.log.Info("Entrant heat changed", "entrant_type", kind, "entrant_id", id, "heat_id", heatID)
	return nil
}

func (l lifecycle) removeHeat(ctx context.Context, kind models.EntrantKind, id int) error {
	state, err := l.load(ctx, kind, id)
	if err != nil {
		return err
	}
	if state.heatID == nil {
		return errors.Conflictf("%s is not in a heat. Cannot remove from a heat.", kind.Label())
	}
	if err := l.repo.SetEntrantHeat(ctx, kind, id, nil); err != nil {
		return fromRepo(err, entrantNotFound(kind, id))
	}
	l.log.Info("Entrant removed from heat", "entrant_type", kind, "entrant_id", id, "heat_id", *state.heatID)
	return nil
}

func raceTypeNotFound(id int) *errors.Error {
	return errors.NotFoundf("Race Type with id %d does not exist", id)
}

func heatNotFound(id int) *errors.Error {
	return errors.NotFoundf("Heat with id %d does not exist", id)
}

func userNotFound(id int) *errors.Error {
	return errors.NotFoundf("User with id %d does not exist", id)
}
