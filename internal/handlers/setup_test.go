package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/JPGarCar/tridu-server/internal/handlers"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
	"github.com/JPGarCar/tridu-server/internal/services"
	"github.com/JPGarCar/tridu-server/internal/storage"
	"github.com/JPGarCar/tridu-server/internal/testutil"
)

// testSetup holds a router backed by a fresh in-memory database
type testSetup struct {
	t          *testing.T
	handlers   *handlers.Handlers
	router     chi.Router
	repo       repository.FullRepository
	seed       *testutil.Seed
	staff      *models.User
	staffToken string
	userToken  string
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	return newTestSetupWithRepo(t, testutil.NewTestRepository(t))
}

func newTestSetupWithRepo(t *testing.T, repo repository.FullRepository) *testSetup {
	t.Helper()

	log := logger.New()
	h := handlers.NewForTesting(buildServices(log, repo))
	h.Log = log

	seed := testutil.NewSeed(t, repo)
	staff := seed.User()
	volunteer := seed.User()

	staffToken, _, err := h.Auth.Issue(staff.ID, staff.Username, true)
	if err != nil {
		t.Fatalf("failed to issue staff token: %v", err)
	}
	userToken, _, err := h.Auth.Issue(volunteer.ID, volunteer.Username, false)
	if err != nil {
		t.Fatalf("failed to issue user token: %v", err)
	}

	return &testSetup{
		t:          t,
		handlers:   h,
		router:     h.Router(),
		repo:       repo,
		seed:       seed,
		staff:      staff,
		staffToken: staffToken,
		userToken:  userToken,
	}
}

func buildServices(log logger.Logger, repo repository.FullRepository) handlers.Services {
	return handlers.Services{
		Users:        services.NewUserService(log, repo),
		Locations:    services.NewLocationService(log, repo),
		Races:        services.NewRaceService(log, repo),
		RaceTypes:    services.NewRaceTypeService(log, repo),
		Heats:        services.NewHeatService(log, repo),
		Schedule:     services.NewScheduleService(log, repo),
		CheckIns:     services.NewCheckInService(log, repo),
		Participants: services.NewParticipantService(log, repo),
		RelayTeams:   services.NewRelayTeamService(log, repo),
		Comments:     services.NewCommentService(log, repo),
		Wetbags:      services.NewWetbagService(log, repo, storage.NewMemory()),
	}
}

// do sends a request as the given bearer token. An empty token sends none.
func (s *testSetup) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// staffDo sends a request as a staff user
func (s *testSetup) staffDo(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(method, path, s.staffToken, body)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// expectError checks the status and the {"code","error"} body
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, rec, status)
	var body handlers.APIError
	decode(t, rec, &body)
	if body.Message != message {
		t.Errorf("expected error %q, got %q", message, body.Message)
	}
	if body.Code == "" {
		t.Error("expected an error code")
	}
}
