package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JPGarCar/tridu-server/internal/handlers"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository/mock"
	"github.com/JPGarCar/tridu-server/internal/testutil"
)

func TestCreateRace_GetOrCreate(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.staffDo(http.MethodPost, "/api/races", map[string]string{"name": "Lakeside Sprint"})
	expectStatus(t, rec, http.StatusCreated)
	var created models.Race
	decode(t, rec, &created)

	rec = setup.staffDo(http.MethodPost, "/api/races", map[string]string{"name": "Lakeside Sprint"})
	expectStatus(t, rec, http.StatusOK)
	var existing models.Race
	decode(t, rec, &existing)

	if existing.ID != created.ID {
		t.Errorf("expected the existing race %d, got %d", created.ID, existing.ID)
	}
}

func TestRace_GetAndDelete(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	path := fmt.Sprintf("/api/races/%d", race.ID)

	expectStatus(t, setup.staffDo(http.MethodGet, path, nil), http.StatusOK)

	// Volunteers cannot delete
	expectStatus(t, setup.do(http.MethodDelete, path, setup.userToken, nil), http.StatusForbidden)

	expectStatus(t, setup.staffDo(http.MethodDelete, path, nil), http.StatusNoContent)

	rec := setup.staffDo(http.MethodGet, "/api/races", nil)
	expectStatus(t, rec, http.StatusOK)
	var races []models.Race
	decode(t, rec, &races)
	for _, r := range races {
		if r.ID == race.ID {
			t.Error("expected deactivated race to be hidden from the list")
		}
	}
}

func TestGetRace_NotFound(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.staffDo(http.MethodGet, "/api/races/404", nil)

	expectStatus(t, rec, http.StatusNotFound)
}

func TestRaceStats(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	setup.seed.Participant(race.ID, sprint.ID, 1, testutil.Minutes(6))
	setup.seed.Participant(race.ID, sprint.ID, 2, testutil.Minutes(7))
	setup.seed.RelayTeam(race.ID, sprint.ID, 3, "Fast Fins")

	rec := setup.staffDo(http.MethodGet, fmt.Sprintf("/api/races/%d/stats", race.ID), nil)
	expectStatus(t, rec, http.StatusOK)

	var stats []models.RaceTypeStat
	decode(t, rec, &stats)
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat, got %d", len(stats))
	}
	if stats[0].Registered != 3 {
		t.Errorf("expected 3 registered, got %d", stats[0].Registered)
	}
	if stats[0].Allowed != 100 || stats[0].FTTAllowed != 20 {
		t.Errorf("unexpected allowances: %+v", stats[0])
	}
}

func TestRaceParticipants_Paging(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	for bib := 1; bib <= 3; bib++ {
		setup.seed.Participant(race.ID, sprint.ID, bib, testutil.Minutes(5))
	}
	base := fmt.Sprintf("/api/races/%d/participants", race.ID)

	rec := setup.staffDo(http.MethodGet, base+"?page=1&page_size=2", nil)
	expectStatus(t, rec, http.StatusOK)
	var page []models.Participant
	decode(t, rec, &page)
	if len(page) != 2 {
		t.Errorf("expected 2 participants on the first page, got %d", len(page))
	}

	rec = setup.staffDo(http.MethodGet, base+"?bib=3", nil)
	expectStatus(t, rec, http.StatusOK)
	var byBib []models.Participant
	decode(t, rec, &byBib)
	if len(byBib) != 1 || byBib[0].BibNumber != 3 {
		t.Errorf("expected bib 3 only, got %+v", byBib)
	}

	expectStatus(t, setup.staffDo(http.MethodGet, base+"?page_size=100000", nil), http.StatusBadRequest)
	expectStatus(t, setup.staffDo(http.MethodGet, base+"?bib=abc", nil), http.StatusBadRequest)
}

func TestRaceInvalidSwimTimes(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	setup.seed.Participant(race.ID, sprint.ID, 1, testutil.Minutes(6))
	missing := setup.seed.Participant(race.ID, sprint.ID, 2, nil)

	rec := setup.staffDo(http.MethodGet, fmt.Sprintf("/api/races/%d/participants/invalid_swim_time", race.ID), nil)
	expectStatus(t, rec, http.StatusOK)

	var participants []models.Participant
	decode(t, rec, &participants)
	if len(participants) != 1 || participants[0].ID != missing.ID {
		t.Errorf("expected only participant %d, got %+v", missing.ID, participants)
	}
}

func TestAutoScheduleReady(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	setup.seed.Participant(race.ID, sprint.ID, 1, testutil.Minutes(6))
	path := fmt.Sprintf("/api/races/%d/heats/auto_schedule/ready", race.ID)

	rec := setup.staffDo(http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusOK)
	var problems []string
	decode(t, rec, &problems)
	if len(problems) != 1 || problems[0] != "Race Type Sprint has no heats available" {
		t.Errorf("unexpected problems: %v", problems)
	}

	setup.seed.Heat(race.ID, sprint.ID, 5)

	rec = setup.staffDo(http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "[]\n" {
		t.Errorf("expected an empty JSON list, got %q", rec.Body.String())
	}
}

func TestAutoSchedule(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	first := setup.seed.Heat(race.ID, sprint.ID, 1)
	second := setup.seed.Heat(race.ID, sprint.ID, 1)
	fast := setup.seed.Participant(race.ID, sprint.ID, 1, testutil.Minutes(5))
	slow := setup.seed.Participant(race.ID, sprint.ID, 2, testutil.Minutes(9))

	rec := setup.staffDo(http.MethodPost, fmt.Sprintf("/api/races/%d/heats/auto_schedule", race.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "true\n" {
		t.Errorf("expected true, got %q", rec.Body.String())
	}

	ctx := context.Background()
	gotSlow, _ := setup.repo.GetParticipant(ctx, slow.ID)
	gotFast, _ := setup.repo.GetParticipant(ctx, fast.ID)
	if gotSlow.HeatID == nil || *gotSlow.HeatID != first.ID {
		t.Errorf("expected slowest swimmer in heat %d, got %v", first.ID, gotSlow.HeatID)
	}
	if gotFast.HeatID == nil || *gotFast.HeatID != second.ID {
		t.Errorf("expected fastest swimmer in heat %d, got %v", second.ID, gotFast.HeatID)
	}
}

func TestAutoSchedule_NotReady(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	setup.seed.Heat(race.ID, sprint.ID, 1)
	setup.seed.Participant(race.ID, sprint.ID, 1, testutil.Minutes(5))
	setup.seed.Participant(race.ID, sprint.ID, 2, testutil.Minutes(9))

	rec := setup.staffDo(http.MethodPost, fmt.Sprintf("/api/races/%d/heats/auto_schedule", race.ID), nil)

	expectError(t, rec, http.StatusBadRequest, "Auto Schedule is not ready!")
	var body handlers.APIError
	decode(t, rec, &body)
	if body.Code != handlers.ErrCodePreconditionFailed {
		t.Errorf("expected code %s, got %s", handlers.ErrCodePreconditionFailed, body.Code)
	}
}

func TestAutoScheduleReady_RepositoryError(t *testing.T) {
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	setup := newTestSetupWithRepo(t, repo)
	race := setup.seed.Race("Lakeside")
	repo.SumHeatCapacityByRaceTypeError = errors.New("database is locked")

	rec := setup.staffDo(http.MethodGet, fmt.Sprintf("/api/races/%d/heats/auto_schedule/ready", race.ID), nil)

	expectError(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestRaceHeats_FilterByRaceType(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	olympic := setup.seed.RaceType("Olympic")
	setup.seed.Heat(race.ID, sprint.ID, 5)
	setup.seed.Heat(race.ID, olympic.ID, 5)

	rec := setup.staffDo(http.MethodGet, fmt.Sprintf("/api/races/%d/heats?race_type=%d", race.ID, olympic.ID), nil)
	expectStatus(t, rec, http.StatusOK)

	var heats []models.Heat
	decode(t, rec, &heats)
	if len(heats) != 1 || heats[0].RaceTypeID != olympic.ID {
		t.Errorf("expected the Olympic heat only, got %+v", heats)
	}
}
