package services

import (
	"context"
	"strings"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// RelayTeamServiceRepository defines the repository methods needed by RelayTeamService
type RelayTeamServiceRepository interface {
	lifecycleRepository
	repository.UserRepository
	repository.LocationRepository
	repository.RaceRepository
}

// RelayTeamService handles relay teams and their members
type RelayTeamService struct {
	log  logger.Logger
	repo RelayTeamServiceRepository
	lc   lifecycle
}

// NewRelayTeamService creates a new RelayTeamService
func NewRelayTeamService(log logger.Logger, repo RelayTeamServiceRepository) *RelayTeamService {
	return &RelayTeamService{log: log, repo: repo, lc: lifecycle{log: log, repo: repo}}
}

// RelayTeamPatch holds the fields a PATCH may change
type RelayTeamPatch struct {
	Name      *string `json:"name"`
	BibNumber *int    `json:"bib_number"`
}

// RelayParticipantPatch holds the member fields a PATCH may change
type RelayParticipantPatch struct {
	Location *string      `json:"location"`
	IsActive *bool        `json:"is_active"`
	Origin   *OriginInput `json:"origin"`
}

// GetRelayTeam returns a relay team with its check-in records
func (s *RelayTeamService) GetRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error) {
	t, err := s.repo.GetRelayTeam(ctx, id)
	if err != nil {
		return nil, fromRepo(err, entrantNotFound(models.EntrantRelayTeam, id))
	}
	return t, nil
}

// GetRelayTeamByName looks a relay team up by its unique name
func (s *RelayTeamService) GetRelayTeamByName(ctx context.Context, name string) (*models.RelayTeam, error) {
	t, err := s.repo.GetRelayTeamByName(ctx, name)
	if err != nil {
		return nil, fromRepo(err, errors.NotFoundf("Relay Team with name %s does not exist.", name))
	}
	return t, nil
}

// CreateRelayTeam stores a new active relay team
func (s *RelayTeamService) CreateRelayTeam(ctx context.Context, team *models.RelayTeam) (*models.RelayTeam, error) {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return nil, errors.Validation("name is required")
	}
	if team.BibNumber <= 0 {
		return nil, errors.Validation("bib_number must be positive")
	}
	if _, err := s.repo.GetRace(ctx, team.RaceID); err != nil {
		return nil, fromRepo(err, raceNotFound(team.RaceID))
	}
	if _, err := s.repo.GetRaceType(ctx, team.RaceTypeID); err != nil {
		return nil, fromRepo(err, raceTypeNotFound(team.RaceTypeID))
	}

	team.IsActive = true
	id, err := s.repo.CreateRelayTeam(ctx, team)
	if err != nil {
		return nil, fromRepo(err, nil)
	}
	s.log.Info("Relay team created", "relay_team_id", id, "name", team.Name)
	return s.GetRelayTeam(ctx, id)
}

// UpdateRelayTeam applies a partial update
func (s *RelayTeamService) UpdateRelayTeam(ctx context.Context, id int, patch RelayTeamPatch) (*models.RelayTeam, error) {
	team, err := s.GetRelayTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, errors.Validation("name is required")
		}
		team.Name = name
	}
	if patch.BibNumber != nil {
		if *patch.BibNumber <= 0 {
			return nil, errors.Validation("bib_number must be positive")
		}
		team.BibNumber = *patch.BibNumber
	}
	if err := s.repo.UpdateRelayTeam(ctx, team); err != nil {
		return nil, fromRepo(err, entrantNotFound(models.EntrantRelayTeam, id))
	}
	return s.GetRelayTeam(ctx, id)
}

// DeactivateRelayTeam marks the team inactive
func (s *RelayTeamService) DeactivateRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error) {
	if err := s.lc.setActive(ctx, models.EntrantRelayTeam, id, false); err != nil {
		return nil, err
	}
	return s.GetRelayTeam(ctx, id)
}

// ReactivateRelayTeam marks the team active again
func (s *RelayTeamService) ReactivateRelayTeam(ctx context.Context, id int) (*models.RelayTeam, error) {
	if err := s.lc.setActive(ctx, models.EntrantRelayTeam, id, true); err != nil {
		return nil, err
	}
	return s.GetRelayTeam(ctx, id)
}

// ChangeRaceType moves a team that is not in a heat to another race type
func (s *RelayTeamService) ChangeRaceType(ctx context.Context, id, raceTypeID int) (*models.RelayTeam, error) {
	if err := s.lc.changeRaceType(ctx, models.EntrantRelayTeam, id, raceTypeID); err != nil {
		return nil, err
	}
	return s.GetRelayTeam(ctx, id)
}

// ChangeHeat places an active team without a heat into a heat of its race type
func (s *RelayTeamService) ChangeHeat(ctx context.Context, id, heatID int) (*models.RelayTeam, error) {
	if err := s.lc.changeHeat(ctx, models.EntrantRelayTeam, id, heatID); err != nil {
		return nil, err
	}
	return s.GetRelayTeam(ctx, id)
}

// RemoveHeat takes a team out of its heat
func (s *RelayTeamService) RemoveHeat(ctx context.Context, id int) (*models.RelayTeam, error) {
	if err := s.lc.removeHeat(ctx, models.EntrantRelayTeam, id); err != nil {
		return nil, err
	}
	return s.GetRelayTeam(ctx, id)
}

// ListMembers returns the members of a relay team
func (s *RelayTeamService) ListMembers(ctx context.Context, teamID int) ([]models.RelayParticipant, error) {
	if _, err := s.GetRelayTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListRelayParticipants(ctx, teamID)
}

// AddMember adds a user to a relay team
func (s *RelayTeamService) AddMember(ctx context.Context, teamID, userID int, location string, origin *OriginInput) (*models.RelayParticipant, error) {
	if _, err := s.GetRelayTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, fromRepo(err, userNotFound(userID))
	}

	member := &models.RelayParticipant{RelayTeamID: teamID, UserID: userID, Location: location, IsActive: true}
	if origin != nil {
		loc, err := getOrCreateOrigin(ctx, s.repo, *origin)
		if err != nil {
			return nil, err
		}
		member.OriginID = &loc.ID
	}

	id, err := s.repo.CreateRelayParticipant(ctx, member)
	if err != nil {
		return nil, fromRepo(err, nil)
	}
	s.log.Info("Relay member added", "relay_team_id", teamID, "user_id", userID)
	return s.GetMember(ctx, id)
}

// GetMember returns one relay team member
func (s *RelayTeamService) GetMember(ctx context.Context, id int) (*models.RelayParticipant, error) {
	member, err := s.repo.GetRelayParticipant(ctx, id)
	if err != nil {
		return nil, fromRepo(err, errors.NotFoundf("Relay Participant with id %d does not exist", id))
	}
	return member, nil
}

// UpdateMember applies a partial update to a relay team member
func (s *RelayTeamService) UpdateMember(ctx context.Context, id int, patch RelayParticipantPatch) (*models.RelayParticipant, error) {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Location != nil {
		member.Location = *patch.Location
	}
	if patch.IsActive != nil {
		member.IsActive = *patch.IsActive
	}
	if patch.Origin != nil {
		loc, err := getOrCreateOrigin(ctx, s.repo, *patch.Origin)
		if err != nil {
			return nil, err
		}
		member.OriginID = &loc.ID
	}
	if err := s.repo.UpdateRelayParticipant(ctx, member); err != nil {
		return nil, fromRepo(err, nil)
	}
	return s.GetMember(ctx, id)
}
