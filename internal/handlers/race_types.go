package handlers

import (
	"net/http"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
)

// RaceTypeCheckInsRequest replaces the ordered check-ins of a race type
type RaceTypeCheckInsRequest struct {
	CheckInIDs []int `json:"checkin_ids"`
}

func (h *Handlers) handleListRaceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.RaceTypes.ListRaceTypes(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, types)
}

func (h *Handlers) handleGetRaceType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	rt, err := h.RaceTypes.GetRaceType(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, rt)
}

func (h *Handlers) handleCreateRaceType(w http.ResponseWriter, r *http.Request) {
	var req models.RaceType
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	rt, err := h.RaceTypes.CreateRaceType(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, rt)
}

func (h *Handlers) handleUpdateRaceType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var patch services.RaceTypePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	rt, err := h.RaceTypes.UpdateRaceType(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, rt)
}

func (h *Handlers) handleDeleteRaceType(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.RaceTypes.DeleteRaceType(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSetRaceTypeCheckIns(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req RaceTypeCheckInsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	rt, err := h.RaceTypes.SetCheckIns(r.Context(), id, req.CheckInIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, rt)
}
