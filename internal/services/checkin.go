package services

import (
	"context"
	"strings"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// CheckInServiceRepository defines the repository methods needed by CheckInService
type CheckInServiceRepository interface {
	repository.CheckInRepository
	repository.ParticipantRepository
	repository.RelayTeamRepository
	repository.Transactor
}

// checkInGetter is the lookup used to walk a dependency chain
type checkInGetter interface {
	GetCheckIn(ctx context.Context, id int) (*models.CheckIn, error)
}

// CheckInService manages check-in points and checks entrants in at them
type CheckInService struct {
	log         logger.Logger
	repo        CheckInServiceRepository
	broadcaster Broadcaster
}

// NewCheckInService creates a new CheckInService
func NewCheckInService(log logger.Logger, repo CheckInServiceRepository) *CheckInService {
	return &CheckInService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster notified after each check-in change
func (s *CheckInService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ==================== Check-In Points ====================

// ListCheckIns returns every check-in point
func (s *CheckInService) ListCheckIns(ctx context.Context) ([]models.CheckIn, error) {
	return s.repo.ListCheckIns(ctx)
}

// GetCheckIn returns a check-in point with its dependency chain linked
func (s *CheckInService) GetCheckIn(ctx context.Context, id int) (*models.CheckIn, error) {
	return resolveChain(ctx, s.repo, id)
}

// ResolveChain returns the check-in followed by every check-in it transitively
// depends on, nearest first
func (s *CheckInService) ResolveChain(ctx context.Context, id int) ([]models.CheckIn, error) {
	head, err := resolveChain(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	var chain []models.CheckIn
	for c := head; c != nil; c = c.DependsOn {
		link := *c
		link.DependsOn = nil
		chain = append(chain, link)
	}
	return chain, nil
}

// CreateCheckIn validates and stores a new check-in point
func (s *CheckInService) CreateCheckIn(ctx context.Context, checkin *models.CheckIn) error {
	if err := s.validate(ctx, checkin); err != nil {
		return err
	}
	if _, err := s.repo.CreateCheckIn(ctx, checkin); err != nil {
		return fromRepo(err, nil)
	}
	s.log.Info("CheckIn created", "id", checkin.ID, "name", checkin.Name)
	return nil
}

// UpdateCheckIn validates and stores changes to a check-in point. Pointing
// depends_on back into its own chain is rejected.
func (s *CheckInService) UpdateCheckIn(ctx context.Context, checkin *models.CheckIn) error {
	if _, err := s.repo.GetCheckIn(ctx, checkin.ID); err != nil {
		return fromRepo(err, checkInNotFound(checkin.ID))
	}
	if err := s.validate(ctx, checkin); err != nil {
		return err
	}
	if err := s.repo.UpdateCheckIn(ctx, checkin); err != nil {
		return fromRepo(err, checkInNotFound(checkin.ID))
	}
	s.log.Info("CheckIn updated", "id", checkin.ID, "name", checkin.Name)
	return nil
}

// DeleteCheckIn removes a check-in point
func (s *CheckInService) DeleteCheckIn(ctx context.Context, id int) error {
	if err := s.repo.DeleteCheckIn(ctx, id); err != nil {
		return fromRepo(err, checkInNotFound(id))
	}
	s.log.Info("CheckIn deleted", "id", id)
	return nil
}

func (s *CheckInService) validate(ctx context.Context, checkin *models.CheckIn) error {
	checkin.Name = strings.TrimSpace(checkin.Name)
	if checkin.Name == "" {
		return errors.Validation("CheckIn name is required")
	}
	if checkin.DependsOnID == nil {
		return nil
	}

	// the new dependency must not lead back to this check-in
	seen := map[int]bool{}
	for next := checkin.DependsOnID; next != nil; {
		if checkin.ID != 0 && *next == checkin.ID {
			return errors.Validationf("CheckIn dependency cycle detected at %s", checkin.Name)
		}
		if seen[*next] {
			break
		}
		seen[*next] = true
		dep, err := s.repo.GetCheckIn(ctx, *next)
		if err != nil {
			return fromRepo(err, checkInNotFound(*next))
		}
		next = dep.DependsOnID
	}
	return nil
}

// resolveChain loads a check-in and links its DependsOn chain by iterative
// walk. A check-in seen twice is a configuration error.
func resolveChain(ctx context.Context, repo checkInGetter, id int) (*models.CheckIn, error) {
	head, err := repo.GetCheckIn(ctx, id)
	if err != nil {
		return nil, fromRepo(err, checkInNotFound(id))
	}

	visited := map[int]bool{head.ID: true}
	cur := head
	for cur.DependsOnID != nil {
		depID := *cur.DependsOnID
		dep, err := repo.GetCheckIn(ctx, depID)
		if err != nil {
			return nil, fromRepo(err, checkInNotFound(depID))
		}
		if visited[dep.ID] {
			return nil, errors.Validationf("CheckIn dependency cycle detected at %s", dep.Name)
		}
		visited[dep.ID] = true
		cur.DependsOn = dep
		cur = dep
	}
	return head, nil
}

// ==================== Check-In Gate ====================

// CheckInParticipant checks a participant in at a check-in point. See checkIn.
func (s *CheckInService) CheckInParticipant(ctx context.Context, participantID, checkinID int, value *bool) (*models.Participant, error) {
	if err := s.checkIn(ctx, models.EntrantParticipant, participantID, checkinID, value); err != nil {
		return nil, err
	}
	p, err := s.repo.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, fromRepo(err, entrantNotFound(models.EntrantParticipant, participantID))
	}
	return p, nil
}

// CheckInRelayTeam checks a relay team in at a check-in point. See checkIn.
func (s *CheckInService) CheckInRelayTeam(ctx context.Context, relayTeamID, checkinID int, value *bool) (*models.RelayTeam, error) {
	if err := s.checkIn(ctx, models.EntrantRelayTeam, relayTeamID, checkinID, value); err != nil {
		return nil, err
	}
	team, err := s.repo.GetRelayTeam(ctx, relayTeamID)
	if err != nil {
		return nil, fromRepo(err, entrantNotFound(models.EntrantRelayTeam, relayTeamID))
	}
	return team, nil
}

// checkIn applies one check-in action in a single transaction. The entrant
// must already be checked in at the check-in's dependency. A first action
// always creates a checked-in record; later actions set true when value is
// true and toggle otherwise.
func (s *CheckInService) checkIn(ctx context.Context, kind models.EntrantKind, entrantID, checkinID int, value *bool) error {
	var state bool
	err := s.repo.RunInTx(ctx, func(tx repository.FullRepository) error {
		if err := entrantExists(ctx, tx, kind, entrantID); err != nil {
			return err
		}

		checkin, err := resolveChain(ctx, tx, checkinID)
		if err != nil {
			return err
		}

		if dep := checkin.DependsOn; dep != nil {
			rec, err := tx.GetCheckInRecord(ctx, kind, entrantID, dep.ID)
			if err != nil && !isNotFound(err) {
				return err
			}
			if rec == nil || !rec.IsCheckedIn {
				return errors.DependencyNotSatisfiedf("Can not check in %s to %s as they have not checked in at %s",
					kind.Label(), checkin.Name, dep.Name)
			}
		}

		rec, err := tx.GetCheckInRecord(ctx, kind, entrantID, checkin.ID)
		if isNotFound(err) {
			state = true
			_, err = tx.CreateCheckInRecord(ctx, kind, entrantID, checkin.ID, true)
			return err
		}
		if err != nil {
			return err
		}

		state = !rec.IsCheckedIn
		if value != nil && *value {
			state = true
		}
		return tx.UpdateCheckInRecord(ctx, kind, rec.ID, state)
	})
	if err != nil {
		return err
	}

	s.log.Info("CheckIn changed", "entrant_type", kind, "entrant_id", entrantID, "checkin_id", checkinID, "is_checked_in", state)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(EventCheckInChanged, map[string]interface{}{
			"entrant_type":  kind,
			"entrant_id":    entrantID,
			"checkin_id":    checkinID,
			"is_checked_in": state,
		})
	}
	return nil
}

func entrantExists(ctx context.Context, repo repository.FullRepository, kind models.EntrantKind, id int) error {
	var err error
	if kind == models.EntrantRelayTeam {
		_, err = repo.GetRelayTeam(ctx, id)
	} else {
		_, err = repo.GetParticipant(ctx, id)
	}
	return fromRepo(err, entrantNotFound(kind, id))
}

func checkInNotFound(id int) *errors.Error {
	return errors.NotFoundf("CheckIn with id %d does not exist", id)
}

func entrantNotFound(kind models.EntrantKind, id int) *errors.Error {
	return errors.NotFoundf("%s with id %d does not exist", kind.Label(), id)
}
