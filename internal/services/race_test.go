package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository/mock"
	"github.com/JPGarCar/tridu-server/internal/services"
	"github.com/JPGarCar/tridu-server/internal/testutil"
)

func TestRaceService_GetOrCreateRace(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewRaceService(logger.New(), repo)
	ctx := context.Background()

	race, created, err := svc.GetOrCreateRace(ctx, "  Summer Tri ")
	if err != nil {
		t.Fatalf("GetOrCreateRace failed: %v", err)
	}
	if !created || race.Name != "Summer Tri" || !race.IsActive {
		t.Errorf("unexpected first result: %#v created=%v", race, created)
	}

	again, created, err := svc.GetOrCreateRace(ctx, "Summer Tri")
	if err != nil {
		t.Fatalf("GetOrCreateRace failed: %v", err)
	}
	if created || again.ID != race.ID {
		t.Errorf("expected existing race %d, got %d created=%v", race.ID, again.ID, created)
	}

	if _, _, err := svc.GetOrCreateRace(ctx, " "); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected Validation for blank name, got %v", err)
	}
}

func TestRaceService_GetOrCreateRace_LookupError(t *testing.T) {
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	svc := services.NewRaceService(logger.New(), repo)

	dbErr := stderrors.New("connection reset")
	repo.GetRaceByNameError = dbErr
	if _, _, err := svc.GetOrCreateRace(context.Background(), "Summer Tri"); !stderrors.Is(err, dbErr) {
		t.Errorf("expected injected error, got %v", err)
	}
}

func TestRaceService_DeactivateRace(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewRaceService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	seed.Race("Winter Tri")

	if err := svc.DeactivateRace(ctx, race.ID); err != nil {
		t.Fatalf("DeactivateRace failed: %v", err)
	}
	races, err := svc.ListRaces(ctx)
	if err != nil {
		t.Fatalf("ListRaces failed: %v", err)
	}
	if len(races) != 1 || races[0].Name != "Winter Tri" {
		t.Errorf("expected only Winter Tri, got %#v", races)
	}

	// deactivated races are still readable
	if _, err := svc.GetRace(ctx, race.ID); err != nil {
		t.Errorf("GetRace failed: %v", err)
	}
	if err := svc.DeactivateRace(ctx, 999); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestRaceService_Stats(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewRaceService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	relay := seed.RaceType("Relay")
	seed.RaceType("Unused")

	seed.Participant(race.ID, sprint.ID, 1, nil)
	ftt := seed.Participant(race.ID, sprint.ID, 2, nil)
	ftt.IsFTT = true
	if err := repo.UpdateParticipant(ctx, ftt); err != nil {
		t.Fatalf("UpdateParticipant failed: %v", err)
	}
	seed.RelayTeam(race.ID, relay.ID, 100, "Team A")
	seed.RelayTeam(race.ID, relay.ID, 101, "Team B")

	stats, err := svc.Stats(ctx, race.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 race types, got %d", len(stats))
	}

	want := map[string]models.RaceTypeStat{
		"Sprint": {Registered: 1, FTTRegistered: 1, Allowed: 100, FTTAllowed: 20},
		"Relay":  {Registered: 2, FTTRegistered: 0, Allowed: 100, FTTAllowed: 20},
	}
	for _, s := range stats {
		w, ok := want[s.RaceType.Name]
		if !ok {
			t.Errorf("unexpected race type %s", s.RaceType.Name)
			continue
		}
		if s.Registered != w.Registered || s.FTTRegistered != w.FTTRegistered || s.Allowed != w.Allowed || s.FTTAllowed != w.FTTAllowed {
			t.Errorf("%s: expected %+v, got %+v", s.RaceType.Name, w, s)
		}
	}
}

func TestRaceService_Stats_RepositoryError(t *testing.T) {
	base := testutil.NewTestRepository(t)
	repo := mock.NewRepository(base)
	seed := testutil.NewSeed(t, base)
	svc := services.NewRaceService(logger.New(), repo)
	race := seed.Race("Summer Tri")

	dbErr := stderrors.New("timeout")
	repo.CountActiveParticipantsByFTTError = dbErr
	if _, err := svc.Stats(context.Background(), race.ID); !stderrors.Is(err, dbErr) {
		t.Errorf("expected injected error, got %v", err)
	}
}

func TestRaceService_BibInfo(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewRaceService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	relay := seed.RaceType("Relay")
	seed.Participant(race.ID, sprint.ID, 10, nil)
	seed.Participant(race.ID, sprint.ID, 3, nil)
	seed.Participant(race.ID, sprint.ID, 25, nil)
	seed.RelayTeam(race.ID, relay.ID, 500, "Team A")

	info, err := svc.BibInfo(ctx, race.ID)
	if err != nil {
		t.Fatalf("BibInfo failed: %v", err)
	}
	if len(info) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(info))
	}
	if info[0].RaceType.Name != "Sprint" || info[0].Smallest != 3 || info[0].Largest != 25 || info[0].Count != 3 {
		t.Errorf("unexpected sprint info: %+v", info[0])
	}
	if info[1].RaceType.Name != "Relay" || info[1].Smallest != 500 || info[1].Count != 1 {
		t.Errorf("unexpected relay info: %+v", info[1])
	}
}

func TestRaceService_ListParticipants(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewRaceService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	for bib := 1; bib <= 5; bib++ {
		seed.Participant(race.ID, sprint.ID, bib, testutil.Minutes(bib))
	}
	gone := seed.Participant(race.ID, sprint.ID, 6, nil)
	if err := repo.SetEntrantActive(ctx, models.EntrantParticipant, gone.ID, false); err != nil {
		t.Fatalf("SetEntrantActive failed: %v", err)
	}
	noSwim := seed.Participant(race.ID, sprint.ID, 7, nil)

	page, err := svc.ListParticipants(ctx, race.ID, nil, services.Page{Number: 2, Size: 2})
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(page) != 2 || page[0].BibNumber != 3 || page[1].BibNumber != 4 {
		t.Errorf("unexpected page: %#v", page)
	}

	byBib, err := svc.ListParticipants(ctx, race.ID, intPtr(5), services.Page{})
	if err != nil || len(byBib) != 1 || byBib[0].BibNumber != 5 {
		t.Errorf("expected bib 5, got %#v (%v)", byBib, err)
	}

	if _, err := svc.ListParticipants(ctx, race.ID, nil, services.Page{Size: services.MaxPageSize + 1}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for oversized page, got %v", err)
	}

	disabled, err := svc.ListDisabledParticipants(ctx, race.ID)
	if err != nil || len(disabled) != 1 || disabled[0].ID != gone.ID {
		t.Errorf("expected only the inactive participant, got %#v (%v)", disabled, err)
	}

	invalid, err := svc.ListInvalidSwimTimes(ctx, race.ID)
	if err != nil || len(invalid) != 1 || invalid[0].ID != noSwim.ID {
		t.Errorf("expected only the participant without swim time, got %#v (%v)", invalid, err)
	}

	if _, err := svc.ListParticipants(ctx, 999, nil, services.Page{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound for unknown race, got %v", err)
	}
}

func TestRaceService_ListParticipations(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewRaceService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	relay := seed.RaceType("Relay")
	p := seed.Participant(race.ID, sprint.ID, 1, testutil.Minutes(12))
	team := seed.RelayTeam(race.ID, relay.ID, 100, "Team A")
	if _, err := repo.CreateRelayParticipant(ctx, &models.RelayParticipant{RelayTeamID: team.ID, UserID: p.UserID, IsActive: true}); err != nil {
		t.Fatalf("CreateRelayParticipant failed: %v", err)
	}
	seed.Participant(race.ID, sprint.ID, 2, nil)

	mine, err := svc.ListParticipations(ctx, race.ID, &p.UserID)
	if err != nil {
		t.Fatalf("ListParticipations failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 participations, got %#v", mine)
	}
	types := map[string]bool{}
	for _, m := range mine {
		types[m.Type] = true
	}
	if !types["participant"] || !types["relay_participant"] {
		t.Errorf("expected both participation types, got %v", types)
	}

	all, err := svc.ListParticipations(ctx, race.ID, nil)
	if err != nil || len(all) != 3 {
		t.Errorf("expected 3 participations, got %d (%v)", len(all), err)
	}
}

func TestRaceService_ListHeatsAndRelayTeams(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewRaceService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	relay := seed.RaceType("Relay")
	seed.Heat(race.ID, sprint.ID, 5)
	seed.Heat(race.ID, relay.ID, 5)
	seed.RelayTeam(race.ID, relay.ID, 100, "Team A")

	all, err := svc.ListHeats(ctx, race.ID, nil)
	if err != nil || len(all) != 2 {
		t.Errorf("expected 2 heats, got %d (%v)", len(all), err)
	}
	relayOnly, err := svc.ListHeats(ctx, race.ID, &relay.ID)
	if err != nil || len(relayOnly) != 1 || relayOnly[0].RaceTypeID != relay.ID {
		t.Errorf("expected 1 relay heat, got %#v (%v)", relayOnly, err)
	}
	teams, err := svc.ListRelayTeams(ctx, race.ID)
	if err != nil || len(teams) != 1 {
		t.Errorf("expected 1 relay team, got %d (%v)", len(teams), err)
	}
}
