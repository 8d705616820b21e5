package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Seed creates rows for tests and fails the test on any error
type Seed struct {
	t    *testing.T
	repo repository.FullRepository
	ctx  context.Context
	n    int
}

// NewSeed returns a seeding helper bound to repo
func NewSeed(t *testing.T, repo repository.FullRepository) *Seed {
	t.Helper()
	return &Seed{t: t, repo: repo, ctx: context.Background()}
}

// User creates a user with a unique username
func (s *Seed) User() *models.User {
	s.t.Helper()
	s.n++
	u := &models.User{
		Username:  fmt.Sprintf("user%d", s.n),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", s.n),
		IsActive:  true,
	}
	if _, err := s.repo.CreateUser(s.ctx, u); err != nil {
		s.t.Fatalf("seed user: %v", err)
	}
	return u
}

// Race creates an active race
func (s *Seed) Race(name string) *models.Race {
	s.t.Helper()
	race, err := s.repo.CreateRace(s.ctx, name)
	if err != nil {
		s.t.Fatalf("seed race: %v", err)
	}
	return race
}

// RaceType creates an active race type that needs swim times
func (s *Seed) RaceType(name string) *models.RaceType {
	s.t.Helper()
	rt := &models.RaceType{Name: name, ParticipantsAllowed: 100, FTTAllowed: 20, NeedsSwimTime: true, IsActive: true}
	if _, err := s.repo.CreateRaceType(s.ctx, rt); err != nil {
		s.t.Fatalf("seed race type: %v", err)
	}
	return rt
}

// Heat creates a heat with the given ideal capacity
func (s *Seed) Heat(raceID, raceTypeID, capacity int) *models.Heat {
	s.t.Helper()
	s.n++
	h := &models.Heat{
		RaceID:        raceID,
		RaceTypeID:    raceTypeID,
		Termination:   fmt.Sprintf("H%d", s.n),
		Pool:          "Main",
		StartDatetime: time.Date(2026, 6, 1, 7, 0, 0, 0, time.UTC).Add(time.Duration(s.n) * 10 * time.Minute),
		Color:         "#1F6FEB",
		IdealCapacity: capacity,
	}
	if _, err := s.repo.CreateHeat(s.ctx, h); err != nil {
		s.t.Fatalf("seed heat: %v", err)
	}
	return h
}

// Participant creates an active participant with a fresh user. A nil
// swimTime leaves the swim time unset.
func (s *Seed) Participant(raceID, raceTypeID, bib int, swimTime *int) *models.Participant {
	s.t.Helper()
	u := s.User()
	p := &models.Participant{
		UserID:          u.ID,
		RaceID:          raceID,
		RaceTypeID:      raceTypeID,
		BibNumber:       bib,
		SwimTimeSeconds: swimTime,
		IsActive:        true,
	}
	if _, err := s.repo.CreateParticipant(s.ctx, p); err != nil {
		s.t.Fatalf("seed participant: %v", err)
	}
	return p
}

// RelayTeam creates an active relay team
func (s *Seed) RelayTeam(raceID, raceTypeID, bib int, name string) *models.RelayTeam {
	s.t.Helper()
	team := &models.RelayTeam{Name: name, RaceID: raceID, RaceTypeID: raceTypeID, BibNumber: bib, IsActive: true}
	if _, err := s.repo.CreateRelayTeam(s.ctx, team); err != nil {
		s.t.Fatalf("seed relay team: %v", err)
	}
	return team
}

// CheckIn creates a check-in point, optionally depending on another
func (s *Seed) CheckIn(name string, dependsOn *models.CheckIn) *models.CheckIn {
	s.t.Helper()
	c := &models.CheckIn{Name: name, PositiveAction: "Check In", NegativeAction: "Undo"}
	if dependsOn != nil {
		id := dependsOn.ID
		c.DependsOnID = &id
	}
	if _, err := s.repo.CreateCheckIn(s.ctx, c); err != nil {
		s.t.Fatalf("seed checkin: %v", err)
	}
	return c
}

// Minutes returns a pointer to m minutes expressed in seconds
func Minutes(m int) *int {
	v := m * 60
	return &v
}
