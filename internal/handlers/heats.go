package handlers

import (
	"net/http"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
)

func (h *Handlers) handleGetHeat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	heat, err := h.Heats.GetHeat(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, heat)
}

func (h *Handlers) handleCreateHeat(w http.ResponseWriter, r *http.Request) {
	var req models.Heat
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	heat, err := h.Heats.CreateHeat(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, heat)
}

func (h *Handlers) handleUpdateHeat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var patch services.HeatPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	heat, err := h.Heats.UpdateHeat(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, heat)
}

// handleDeleteHeat removes a heat; its entrants are left unassigned
func (h *Handlers) handleDeleteHeat(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Heats.DeleteHeat(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
