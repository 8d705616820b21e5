package handlers

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
)

const (
	participantKind = models.EntrantParticipant
	relayTeamKind   = models.EntrantRelayTeam
)

// defaultRecentlyEdited is the page size of /participants/recently_edited
const defaultRecentlyEdited = 5

func (h *Handlers) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	p, err := h.Participants.GetParticipant(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, p)
}

func (h *Handlers) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req models.Participant
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.Participants.CreateParticipant(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, p)
}

func (h *Handlers) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var patch services.ParticipantPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	p, err := h.Participants.UpdateParticipant(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, p)
}

func (h *Handlers) handleRecentlyEdited(w http.ResponseWriter, r *http.Request) {
	count := defaultRecentlyEdited
	if raw := r.URL.Query().Get("count"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, BadRequest("Invalid count query parameter"))
			return
		}
		count = v
	}
	participants, err := h.Participants.RecentlyEdited(r.Context(), count)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, participants)
}

// handleImportParticipants accepts a JSON array of rows or a text/csv upload
func (h *Handlers) handleImportParticipants(w http.ResponseWriter, r *http.Request) {
	var rows []services.ImportRow
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		parsed, err := services.ParseImportCSV(r.Body)
		if err != nil {
			respondError(w, err)
			return
		}
		rows = parsed
	} else if err := decodeJSON(r, &rows); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Participants.ImportParticipants(r.Context(), rows)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, result)
}

func (h *Handlers) handleDeactivateParticipant(w http.ResponseWriter, r *http.Request) {
	h.participantAction(w, r, h.Participants.DeactivateParticipant)
}

func (h *Handlers) handleReactivateParticipant(w http.ResponseWriter, r *http.Request) {
	h.participantAction(w, r, h.Participants.ReactivateParticipant)
}

func (h *Handlers) handleParticipantRemoveHeat(w http.ResponseWriter, r *http.Request) {
	h.participantAction(w, r, h.Participants.RemoveHeat)
}

func (h *Handlers) handleParticipantRaceType(w http.ResponseWriter, r *http.Request) {
	raceTypeID, err := parseIntParam(r, "raceType")
	if err != nil {
		respondError(w, err)
		return
	}
	h.participantAction(w, r, func(ctx context.Context, id int) (*models.Participant, error) {
		return h.Participants.ChangeRaceType(ctx, id, raceTypeID)
	})
}

func (h *Handlers) handleParticipantHeat(w http.ResponseWriter, r *http.Request) {
	heatID, err := parseIntParam(r, "heat")
	if err != nil {
		respondError(w, err)
		return
	}
	h.participantAction(w, r, func(ctx context.Context, id int) (*models.Participant, error) {
		return h.Participants.ChangeHeat(ctx, id, heatID)
	})
}

func (h *Handlers) participantAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id int) (*models.Participant, error)) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	p, err := action(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, p)
}
