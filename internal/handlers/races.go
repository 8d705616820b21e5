package handlers

import (
	"context"
	"net/http"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
)

// RaceCreateRequest is the body of POST /api/races
type RaceCreateRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) handleListRaces(w http.ResponseWriter, r *http.Request) {
	races, err := h.Races.ListRaces(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, races)
}

// handleCreateRace gets or creates a race by name: 201 when new, 200 when it exists
func (h *Handlers) handleCreateRace(w http.ResponseWriter, r *http.Request) {
	var req RaceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	race, created, err := h.Races.GetOrCreateRace(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	if created {
		respondCreated(w, race)
		return
	}
	respondOK(w, race)
}

func (h *Handlers) handleGetRace(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	race, err := h.Races.GetRace(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, race)
}

// handleDeleteRace soft-deactivates a race
func (h *Handlers) handleDeleteRace(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Races.DeactivateRace(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleRaceStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	stats, err := h.Races.Stats(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleRaceBibInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	info, err := h.Races.BibInfo(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, info)
}

// handleRaceParticipants lists active participants, optionally filtered by bib
func (h *Handlers) handleRaceParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	bib, err := parseIntQuery(r, "bib")
	if err != nil {
		respondError(w, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		respondError(w, err)
		return
	}
	participants, err := h.Races.ListParticipants(r.Context(), id, bib, page)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, participants)
}

func (h *Handlers) handleRaceDisabledParticipants(w http.ResponseWriter, r *http.Request) {
	h.listRaceParticipants(w, r, h.Races.ListDisabledParticipants)
}

func (h *Handlers) handleRaceInvalidSwimTimes(w http.ResponseWriter, r *http.Request) {
	h.listRaceParticipants(w, r, h.Races.ListInvalidSwimTimes)
}

func (h *Handlers) listRaceParticipants(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, raceID int) ([]models.Participant, error)) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	participants, err := list(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, participants)
}

func (h *Handlers) handleRaceParticipations(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	userID, err := parseIntQuery(r, "user_id")
	if err != nil {
		respondError(w, err)
		return
	}
	participations, err := h.Races.ListParticipations(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, participations)
}

func (h *Handlers) handleRaceRelayTeams(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	teams, err := h.Races.ListRelayTeams(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, teams)
}

func (h *Handlers) handleRaceHeats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	raceTypeID, err := parseIntQuery(r, "race_type")
	if err != nil {
		respondError(w, err)
		return
	}
	heats, err := h.Races.ListHeats(r.Context(), id, raceTypeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, heats)
}

// handleAutoScheduleReady returns the capacity deficiencies of a race; an
// empty list means it can be auto-scheduled
func (h *Handlers) handleAutoScheduleReady(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	problems, err := h.Schedule.CheckReadiness(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if problems == nil {
		problems = []string{}
	}
	respondOK(w, problems)
}

func (h *Handlers) handleAutoSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Schedule.AutoSchedule(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, true)
}

func parsePage(r *http.Request) (services.Page, error) {
	var page services.Page
	number, err := parseIntQuery(r, "page")
	if err != nil {
		return page, err
	}
	size, err := parseIntQuery(r, "page_size")
	if err != nil {
		return page, err
	}
	if number != nil {
		page.Number = *number
	}
	if size != nil {
		page.Size = *size
	}
	return page, nil
}
