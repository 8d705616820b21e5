package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/JPGarCar/tridu-server/internal/handlers"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/testutil"
)

func TestEntrantWetbag_RequiresHeat(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	p := setup.seed.Participant(race.ID, sprint.ID, 7, testutil.Minutes(6))

	rec := setup.staffDo(http.MethodGet, fmt.Sprintf("/api/wetbags/participant/%d/can_have_wetbag", p.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	var can handlers.CanHaveWetbagResponse
	decode(t, rec, &can)
	if can.CanHaveWetbag {
		t.Error("expected a participant without a heat not to have a wetbag")
	}

	rec = setup.staffDo(http.MethodGet, fmt.Sprintf("/api/wetbags/participant/%d", p.ID), nil)
	expectError(t, rec, http.StatusConflict, "Having a Heat is required to have a WetBag.")
}

func TestEntrantWetbag_Lifecycle(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	heat := setup.seed.Heat(race.ID, sprint.ID, 10)
	p := setup.seed.Participant(race.ID, sprint.ID, 7, testutil.Minutes(6))
	expectStatus(t, setup.staffDo(http.MethodPatch, fmt.Sprintf("/api/participants/%d/heat/%d", p.ID, heat.ID), nil), http.StatusOK)

	rec := setup.staffDo(http.MethodGet, fmt.Sprintf("/api/wetbags/participant/%d", p.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	var wetbag models.Wetbag
	decode(t, rec, &wetbag)
	if wetbag.Status != models.WetbagNeverReceived {
		t.Errorf("expected %q, got %q", models.WetbagNeverReceived, wetbag.Status)
	}
	if wetbag.Color != heat.Color {
		t.Errorf("expected heat color %s, got %s", heat.Color, wetbag.Color)
	}
	id := models.WetbagID(models.EntrantParticipant, race.ID, heat.ID, p.ID, p.BibNumber)

	rec = setup.staffDo(http.MethodPatch, "/api/wetbags/"+id, map[string]string{"status": string(models.WetbagRequested)})
	expectStatus(t, rec, http.StatusOK)
	var updated models.Wetbag
	decode(t, rec, &updated)
	if updated.Status != models.WetbagRequested {
		t.Errorf("expected %q, got %q", models.WetbagRequested, updated.Status)
	}
	if updated.RequestedDatetime.IsZero() {
		t.Error("expected requested_datetime to be set")
	}

	rec = setup.staffDo(http.MethodGet, "/api/wetbags/"+id+"/qr", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("expected a PNG body")
	}

	rec = setup.staffDo(http.MethodPatch, "/api/wetbags/"+id, map[string]string{"status": "Lost"})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestWetbag_NotFound(t *testing.T) {
	setup := newTestSetup(t)

	expectError(t, setup.staffDo(http.MethodGet, "/api/wetbags/12345", nil),
		http.StatusNotFound, "Wetbag with the provided information does not exist.")
	expectStatus(t, setup.staffDo(http.MethodGet, "/api/wetbags/12345/qr", nil), http.StatusNotFound)
}

func TestTransferHeats(t *testing.T) {
	setup := newTestSetup(t)
	race := setup.seed.Race("Lakeside")
	sprint := setup.seed.RaceType("Sprint")
	setup.seed.Heat(race.ID, sprint.ID, 10)
	setup.seed.Heat(race.ID, sprint.ID, 10)

	rec := setup.staffDo(http.MethodPost, fmt.Sprintf("/api/wetbags/heats/transfer/%d", race.ID), nil)
	expectStatus(t, rec, http.StatusOK)

	var result handlers.TransferResponse
	decode(t, rec, &result)
	if result.Transferred != 2 {
		t.Errorf("expected 2 heats transferred, got %d", result.Transferred)
	}
}
