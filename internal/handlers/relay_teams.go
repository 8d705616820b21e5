package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
)

// RelayMemberRequest adds a user to a relay team
type RelayMemberRequest struct {
	UserID   int                   `json:"user_id"`
	Location string                `json:"location"`
	Origin   *services.OriginInput `json:"origin"`
}

func (h *Handlers) handleGetRelayTeam(w http.ResponseWriter, r *http.Request) {
	h.relayTeamAction(w, r, h.RelayTeams.GetRelayTeam)
}

func (h *Handlers) handleGetRelayTeamByName(w http.ResponseWriter, r *http.Request) {
	team, err := h.RelayTeams.GetRelayTeamByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleCreateRelayTeam(w http.ResponseWriter, r *http.Request) {
	var req models.RelayTeam
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	team, err := h.RelayTeams.CreateRelayTeam(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, team)
}

func (h *Handlers) handleUpdateRelayTeam(w http.ResponseWriter, r *http.Request) {
	var patch services.RelayTeamPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	h.relayTeamAction(w, r, func(ctx context.Context, id int) (*models.RelayTeam, error) {
		return h.RelayTeams.UpdateRelayTeam(ctx, id, patch)
	})
}

func (h *Handlers) handleDeactivateRelayTeam(w http.ResponseWriter, r *http.Request) {
	h.relayTeamAction(w, r, h.RelayTeams.DeactivateRelayTeam)
}

func (h *Handlers) handleReactivateRelayTeam(w http.ResponseWriter, r *http.Request) {
	h.relayTeamAction(w, r, h.RelayTeams.ReactivateRelayTeam)
}

func (h *Handlers) handleRelayTeamRemoveHeat(w http.ResponseWriter, r *http.Request) {
	h.relayTeamAction(w, r, h.RelayTeams.RemoveHeat)
}

func (h *Handlers) handleRelayTeamRaceType(w http.ResponseWriter, r *http.Request) {
	raceTypeID, err := parseIntParam(r, "raceType")
	if err != nil {
		respondError(w, err)
		return
	}
	h.relayTeamAction(w, r, func(ctx context.Context, id int) (*models.RelayTeam, error) {
		return h.RelayTeams.ChangeRaceType(ctx, id, raceTypeID)
	})
}

func (h *Handlers) handleRelayTeamHeat(w http.ResponseWriter, r *http.Request) {
	heatID, err := parseIntParam(r, "heat")
	if err != nil {
		respondError(w, err)
		return
	}
	h.relayTeamAction(w, r, func(ctx context.Context, id int) (*models.RelayTeam, error) {
		return h.RelayTeams.ChangeHeat(ctx, id, heatID)
	})
}

func (h *Handlers) relayTeamAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id int) (*models.RelayTeam, error)) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	team, err := action(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleListRelayMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	members, err := h.RelayTeams.ListMembers(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, members)
}

func (h *Handlers) handleAddRelayMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req RelayMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	member, err := h.RelayTeams.AddMember(r.Context(), id, req.UserID, req.Location, req.Origin)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, member)
}

func (h *Handlers) handleGetRelayMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	member, err := h.RelayTeams.GetMember(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, member)
}

func (h *Handlers) handleUpdateRelayMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var patch services.RelayParticipantPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	member, err := h.RelayTeams.UpdateMember(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, member)
}
