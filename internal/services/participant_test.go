package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
	"github.com/JPGarCar/tridu-server/internal/testutil"
)

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestParticipantService_CreateAndGet(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	user := seed.User()

	p, err := svc.CreateParticipant(ctx, &models.Participant{
		UserID: user.ID, RaceID: race.ID, RaceTypeID: sprint.ID, BibNumber: 42, Team: "Sharks",
	})
	if err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	if !p.IsActive || p.BibNumber != 42 || p.Team != "Sharks" {
		t.Errorf("unexpected participant: %#v", p)
	}

	// bib numbers are unique among active participants of a race
	_, err = svc.CreateParticipant(ctx, &models.Participant{
		UserID: seed.User().ID, RaceID: race.ID, RaceTypeID: sprint.ID, BibNumber: 42,
	})
	if !errors.Is(err, errors.ErrConflict) {
		t.Errorf("expected Conflict for duplicate bib, got %v", err)
	}

	_, err = svc.GetParticipant(ctx, 999)
	if !errors.Is(err, errors.ErrNotFound) || err.Error() != "Participant with id 999 does not exist" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParticipantService_CreateValidation(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	user := seed.User()

	tests := []struct {
		name string
		p    models.Participant
		kind errors.Kind
		msg  string
	}{
		{"zero bib", models.Participant{UserID: user.ID, RaceID: race.ID, RaceTypeID: sprint.ID}, errors.ErrValidation, "bib_number must be positive"},
		{"unknown user", models.Participant{UserID: 999, RaceID: race.ID, RaceTypeID: sprint.ID, BibNumber: 1}, errors.ErrNotFound, "User with id 999 does not exist"},
		{"unknown race", models.Participant{UserID: user.ID, RaceID: 999, RaceTypeID: sprint.ID, BibNumber: 1}, errors.ErrNotFound, "Race with id 999 does not exist"},
		{"unknown race type", models.Participant{UserID: user.ID, RaceID: race.ID, RaceTypeID: 999, BibNumber: 1}, errors.ErrNotFound, "Race Type with id 999 does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			_, err := svc.CreateParticipant(ctx, &p)
			if !errors.Is(err, tt.kind) || err.Error() != tt.msg {
				t.Errorf("expected %s %q, got %v", tt.kind, tt.msg, err)
			}
		})
	}
}

func TestParticipantService_UpdateWithOrigin(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	p := seed.Participant(race.ID, sprint.ID, 1, nil)
	other := seed.Participant(race.ID, sprint.ID, 2, nil)

	origin := &services.OriginInput{City: "Vancouver", Province: "BC", Country: "Canada"}
	updated, err := svc.UpdateParticipant(ctx, p.ID, services.ParticipantPatch{
		Team: strPtr("Orcas"), SwimTimeSeconds: intPtr(900), Origin: origin,
	})
	if err != nil {
		t.Fatalf("UpdateParticipant failed: %v", err)
	}
	if updated.Team != "Orcas" || updated.SwimTimeSeconds == nil || *updated.SwimTimeSeconds != 900 {
		t.Errorf("unexpected participant: %#v", updated)
	}
	if updated.Origin == nil || updated.Origin.City != "Vancouver" {
		t.Fatalf("expected origin to be loaded, got %#v", updated.Origin)
	}

	again, err := svc.UpdateParticipant(ctx, other.ID, services.ParticipantPatch{Origin: origin})
	if err != nil {
		t.Fatalf("UpdateParticipant failed: %v", err)
	}
	if *again.OriginID != *updated.OriginID {
		t.Errorf("expected origin to be shared, got %d and %d", *again.OriginID, *updated.OriginID)
	}

	_, err = svc.UpdateParticipant(ctx, p.ID, services.ParticipantPatch{Origin: &services.OriginInput{City: "Nowhere"}})
	if !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected Validation for incomplete origin, got %v", err)
	}
	_, err = svc.UpdateParticipant(ctx, p.ID, services.ParticipantPatch{BibNumber: intPtr(2)})
	if !errors.Is(err, errors.ErrConflict) {
		t.Errorf("expected Conflict for taken bib, got %v", err)
	}
}

func TestParticipantService_HeatMoves(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	olympic := seed.RaceType("Olympic")
	heat := seed.Heat(race.ID, sprint.ID, 10)
	olympicHeat := seed.Heat(race.ID, olympic.ID, 10)
	p := seed.Participant(race.ID, sprint.ID, 1, nil)

	_, err := svc.RemoveHeat(ctx, p.ID)
	if !errors.Is(err, errors.ErrConflict) || err.Error() != "Participant is not in a heat. Cannot remove from a heat." {
		t.Errorf("unexpected error removing without heat: %v", err)
	}

	_, err = svc.ChangeHeat(ctx, p.ID, olympicHeat.ID)
	if !errors.Is(err, errors.ErrConflict) || err.Error() != "Race Types do not match, Participant is Sprint and Heat is Olympic" {
		t.Errorf("unexpected error for mismatched heat: %v", err)
	}

	_, err = svc.ChangeHeat(ctx, p.ID, 999)
	if !errors.Is(err, errors.ErrNotFound) || err.Error() != "Heat with id 999 does not exist" {
		t.Errorf("unexpected error for unknown heat: %v", err)
	}

	moved, err := svc.ChangeHeat(ctx, p.ID, heat.ID)
	if err != nil {
		t.Fatalf("ChangeHeat failed: %v", err)
	}
	if moved.HeatID == nil || *moved.HeatID != heat.ID {
		t.Fatalf("expected heat %d, got %v", heat.ID, moved.HeatID)
	}

	_, err = svc.ChangeHeat(ctx, p.ID, heat.ID)
	if !errors.Is(err, errors.ErrConflict) || err.Error() != "Participant is in a Heat. Please remove them from their Heat first." {
		t.Errorf("unexpected error for second heat: %v", err)
	}
	_, err = svc.ChangeRaceType(ctx, p.ID, olympic.ID)
	if !errors.Is(err, errors.ErrConflict) || err.Error() != "Participant is in a heat. Please remove them from their heat first." {
		t.Errorf("unexpected error changing race type in heat: %v", err)
	}

	removed, err := svc.RemoveHeat(ctx, p.ID)
	if err != nil {
		t.Fatalf("RemoveHeat failed: %v", err)
	}
	if removed.HeatID != nil {
		t.Errorf("expected no heat, got %d", *removed.HeatID)
	}

	changed, err := svc.ChangeRaceType(ctx, p.ID, olympic.ID)
	if err != nil {
		t.Fatalf("ChangeRaceType failed: %v", err)
	}
	if changed.RaceTypeID != olympic.ID {
		t.Errorf("expected race type %d, got %d", olympic.ID, changed.RaceTypeID)
	}
	_, err = svc.ChangeRaceType(ctx, p.ID, 999)
	if !errors.Is(err, errors.ErrNotFound) || err.Error() != "Race Type with id 999 does not exist" {
		t.Errorf("unexpected error for unknown race type: %v", err)
	}
}

func TestParticipantService_DeactivateReactivate(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	heat := seed.Heat(race.ID, sprint.ID, 10)
	p := seed.Participant(race.ID, sprint.ID, 7, nil)

	off, err := svc.DeactivateParticipant(ctx, p.ID)
	if err != nil {
		t.Fatalf("DeactivateParticipant failed: %v", err)
	}
	if off.IsActive {
		t.Error("expected inactive participant")
	}

	_, err = svc.ChangeHeat(ctx, p.ID, heat.ID)
	if !errors.Is(err, errors.ErrConflict) || err.Error() != "Participant is in an inactive state. Unable to add to Heat." {
		t.Errorf("unexpected error for inactive participant: %v", err)
	}

	// the bib is free while inactive
	taker := seed.Participant(race.ID, sprint.ID, 7, nil)
	if _, err := svc.ReactivateParticipant(ctx, p.ID); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("expected Conflict reactivating onto a taken bib, got %v", err)
	}
	if _, err := svc.DeactivateParticipant(ctx, taker.ID); err != nil {
		t.Fatalf("DeactivateParticipant failed: %v", err)
	}
	on, err := svc.ReactivateParticipant(ctx, p.ID)
	if err != nil {
		t.Fatalf("ReactivateParticipant failed: %v", err)
	}
	if !on.IsActive {
		t.Error("expected active participant")
	}

	comments, err := repo.ListComments(ctx, models.EntrantParticipant, p.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 2 || !comments[0].IsSystem() || comments[0].Comment != "Participant reactivated" {
		t.Errorf("expected system comments for each change, got %#v", comments)
	}
}

func TestParticipantService_RecentlyEdited(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	for bib := 1; bib <= 3; bib++ {
		seed.Participant(race.ID, sprint.ID, bib, nil)
	}

	got, err := svc.RecentlyEdited(ctx, 2)
	if err != nil {
		t.Fatalf("RecentlyEdited failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 participants, got %d", len(got))
	}
	if _, err := svc.RecentlyEdited(ctx, 0); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for zero count, got %v", err)
	}
}

func TestParseSwimTime(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"12:30", 750, false},
		{"0:45", 45, false},
		{" 05:00 ", 300, false},
		{"", 0, true},
		{"12", 0, true},
		{"12:3a", 0, true},
		{"-1:30", 0, true},
		{"1:2:3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := services.ParseSwimTime(tt.in)
			if tt.wantErr {
				if err == nil || err.Error() != "Invalid swim_time, not in formation MM:SS" {
					t.Errorf("expected swim time error, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseSwimTime(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParticipantService_Import(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	existing := seed.Participant(race.ID, sprint.ID, 5, testutil.Minutes(10))
	newcomer := seed.User()

	rows := []services.ImportRow{
		{BibNumber: 5, Race: race.ID, RaceType: sprint.ID, User: existing.UserID, Team: "Updated", SwimTime: "20:00",
			City: "Calgary", Province: "AB", Country: "Canada"},
		{BibNumber: 6, Race: race.ID, RaceType: sprint.ID, User: newcomer.ID, SwimTime: "15:30", IsFTT: true},
		{BibNumber: 7, Race: race.ID, RaceType: sprint.ID, User: newcomer.ID, SwimTime: "bad"},
		{BibNumber: 8, Race: race.ID, RaceType: sprint.ID, User: 999, SwimTime: "10:00"},
	}
	result, err := svc.ImportParticipants(ctx, rows)
	if err != nil {
		t.Fatalf("ImportParticipants failed: %v", err)
	}

	if result.Created != 1 || result.Duplicates != 1 {
		t.Errorf("expected 1 created and 1 duplicate, got %d and %d", result.Created, result.Duplicates)
	}
	wantErrors := []string{
		"For row 4, error Invalid swim_time, not in formation MM:SS",
		"For row 5, error User with id 999 does not exist",
	}
	if len(result.Errors) != len(wantErrors) {
		t.Fatalf("expected %d errors, got %#v", len(wantErrors), result.Errors)
	}
	for i, want := range wantErrors {
		if result.Errors[i] != want {
			t.Errorf("error %d: expected %q, got %q", i, want, result.Errors[i])
		}
	}
	if result.Message != "1 participants created, 1 were already found but 2 errors encountered!" {
		t.Errorf("unexpected message: %s", result.Message)
	}

	updated, err := svc.GetParticipant(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetParticipant failed: %v", err)
	}
	if updated.Team != "Updated" || *updated.SwimTimeSeconds != 1200 || updated.Origin == nil || updated.Origin.City != "Calgary" {
		t.Errorf("expected existing participant to be refreshed, got %#v", updated)
	}
}

func TestParticipantService_ImportCleanMessage(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	user := seed.User()

	result, err := svc.ImportParticipants(context.Background(), []services.ImportRow{
		{BibNumber: 1, Race: race.ID, RaceType: sprint.ID, User: user.ID, SwimTime: "09:59"},
	})
	if err != nil {
		t.Fatalf("ImportParticipants failed: %v", err)
	}
	if result.Message != "1 participants created, 0 were already found, no errors encountered." {
		t.Errorf("unexpected message: %s", result.Message)
	}
	if len(result.Items) != 1 || *result.Items[0].SwimTimeSeconds != 599 {
		t.Errorf("unexpected items: %#v", result.Items)
	}
}

func TestParseImportCSV(t *testing.T) {
	input := "bib_number,is_ftt,team,race,race_type,user,location,city,province,country,swim_time\n" +
		"12,true,Sharks,1,2,3,Main Pool,Victoria,BC,Canada,12:30\n" +
		"13,,,1,2,4,,,,,08:00\n"

	rows, err := services.ParseImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseImportCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := services.ImportRow{
		BibNumber: 12, IsFTT: true, Team: "Sharks", Race: 1, RaceType: 2, User: 3,
		Location: "Main Pool", City: "Victoria", Province: "BC", Country: "Canada", SwimTime: "12:30",
	}
	if rows[0] != want {
		t.Errorf("expected %#v, got %#v", want, rows[0])
	}
	if rows[1].IsFTT || rows[1].User != 4 || rows[1].SwimTime != "08:00" {
		t.Errorf("unexpected second row: %#v", rows[1])
	}
}

func TestParseImportCSV_HeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"missing column", "bib_number,race,race_type,user\n1,1,1,1\n", "CSV is missing column swim_time"},
		{"missing user", "bib_number,race,race_type,swim_time\n", "CSV is missing column user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.ParseImportCSV(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrInvalidInput) || err.Error() != tt.msg {
				t.Errorf("expected %q, got %v", tt.msg, err)
			}
		})
	}

	rows, err := services.ParseImportCSV(strings.NewReader(""))
	if err != nil || len(rows) != 0 {
		t.Errorf("expected empty input to yield no rows, got %v, %v", rows, err)
	}
}

func TestImportCSV_BadRowsFailIndependently(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewParticipantService(logger.New(), repo)

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	first, second := seed.User(), seed.User()

	input := "bib_number,is_ftt,race,race_type,user,swim_time\n" +
		fmt.Sprintf("1,,%d,%d,%d,10:00\n", race.ID, sprint.ID, first.ID) +
		fmt.Sprintf("abc,,%d,%d,%d,10:00\n", race.ID, sprint.ID, first.ID) +
		fmt.Sprintf("3,maybe,%d,%d,%d,10:00\n", race.ID, sprint.ID, first.ID) +
		fmt.Sprintf("4,\"x\"y,%d,%d,%d,10:00\n", race.ID, sprint.ID, first.ID) +
		fmt.Sprintf("2,true,%d,%d,%d,11:00\n", race.ID, sprint.ID, second.ID)

	rows, err := services.ParseImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseImportCSV failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected every record to yield a row, got %d", len(rows))
	}

	result, err := svc.ImportParticipants(context.Background(), rows)
	if err != nil {
		t.Fatalf("ImportParticipants failed: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("expected the 2 valid rows to be created, got %d", result.Created)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %#v", result.Errors)
	}
	if result.Errors[0] != "For row 3, error bib_number must be a number" {
		t.Errorf("unexpected first error: %q", result.Errors[0])
	}
	if result.Errors[1] != "For row 4, error is_ftt must be true or false" {
		t.Errorf("unexpected second error: %q", result.Errors[1])
	}
	if !strings.HasPrefix(result.Errors[2], "For row 5, error malformed CSV record") {
		t.Errorf("unexpected third error: %q", result.Errors[2])
	}
	if result.Message != "2 participants created, 0 were already found but 3 errors encountered!" {
		t.Errorf("unexpected message: %s", result.Message)
	}
}
