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

func TestCommentService_Thread(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewCommentService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	p := seed.Participant(race.ID, sprint.ID, 1, nil)
	volunteer := seed.User()

	first, err := svc.CreateComment(ctx, models.EntrantParticipant, p.ID, &volunteer.ID, "Forgot goggles")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if first.IsSystem() {
		t.Error("expected a user comment")
	}
	system, err := svc.CreateComment(ctx, models.EntrantParticipant, p.ID, nil, "Bib reprinted")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if !system.IsSystem() {
		t.Error("expected a system comment")
	}

	thread, err := svc.ListComments(ctx, models.EntrantParticipant, p.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(thread) != 2 || thread[0].ID != system.ID {
		t.Errorf("expected newest first, got %#v", thread)
	}

	if err := svc.DeleteComment(ctx, models.EntrantParticipant, first.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	err = svc.DeleteComment(ctx, models.EntrantParticipant, first.ID)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
}

func TestCommentService_Validation(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	seed := testutil.NewSeed(t, repo)
	svc := services.NewCommentService(logger.New(), repo)
	ctx := context.Background()

	race := seed.Race("Summer Tri")
	relay := seed.RaceType("Relay")
	team := seed.RelayTeam(race.ID, relay.ID, 100, "Team A")

	if _, err := svc.CreateComment(ctx, models.EntrantRelayTeam, team.ID, nil, "  "); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected Validation for blank comment, got %v", err)
	}
	if _, err := svc.CreateComment(ctx, models.EntrantRelayTeam, 999, nil, "hi"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound for unknown team, got %v", err)
	}
	if _, err := svc.ListComments(ctx, models.EntrantKind("car"), 1); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for unknown kind, got %v", err)
	}
	if err := svc.DeleteComment(ctx, models.EntrantKind("car"), 1); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for unknown kind, got %v", err)
	}
}

func TestCommentService_CreateError(t *testing.T) {
	base := testutil.NewTestRepository(t)
	repo := mock.NewRepository(base)
	seed := testutil.NewSeed(t, base)
	svc := services.NewCommentService(logger.New(), repo)

	race := seed.Race("Summer Tri")
	sprint := seed.RaceType("Sprint")
	p := seed.Participant(race.ID, sprint.ID, 1, nil)

	dbErr := stderrors.New("read-only database")
	repo.CreateCommentError = dbErr
	if _, err := svc.CreateComment(context.Background(), models.EntrantParticipant, p.ID, nil, "hi"); !stderrors.Is(err, dbErr) {
		t.Errorf("expected injected error, got %v", err)
	}
}
