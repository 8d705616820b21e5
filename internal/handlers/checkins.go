package handlers

import (
	"net/http"
	"strconv"

	"github.com/JPGarCar/tridu-server/internal/models"
)

func (h *Handlers) handleListCheckIns(w http.ResponseWriter, r *http.Request) {
	checkins, err := h.CheckIns.ListCheckIns(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, checkins)
}

func (h *Handlers) handleGetCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	checkin, err := h.CheckIns.GetCheckIn(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, checkin)
}

// handleCheckInChain returns a check-in followed by its dependencies
func (h *Handlers) handleCheckInChain(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	chain, err := h.CheckIns.ResolveChain(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, chain)
}

func (h *Handlers) handleCreateCheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckIn
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.CheckIns.CreateCheckIn(r.Context(), &req); err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, req)
}

func (h *Handlers) handleUpdateCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req models.CheckIn
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.ID = id
	if err := h.CheckIns.UpdateCheckIn(r.Context(), &req); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, req)
}

func (h *Handlers) handleDeleteCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.CheckIns.DeleteCheckIn(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// parseCheckInValue reads the optional ?value= flag. Absent means toggle.
func parseCheckInValue(r *http.Request) (*bool, error) {
	raw := r.URL.Query().Get("value")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, BadRequest("Invalid value query parameter")
	}
	return &v, nil
}

func (h *Handlers) handleCheckInParticipant(w http.ResponseWriter, r *http.Request) {
	id, checkinID, value, err := checkInParams(r)
	if err != nil {
		respondError(w, err)
		return
	}
	p, err := h.CheckIns.CheckInParticipant(r.Context(), id, checkinID, value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, p)
}

func (h *Handlers) handleCheckInRelayTeam(w http.ResponseWriter, r *http.Request) {
	id, checkinID, value, err := checkInParams(r)
	if err != nil {
		respondError(w, err)
		return
	}
	team, err := h.CheckIns.CheckInRelayTeam(r.Context(), id, checkinID, value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func checkInParams(r *http.Request) (int, int, *bool, error) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		return 0, 0, nil, err
	}
	checkinID, err := parseIntParam(r, "checkin")
	if err != nil {
		return 0, 0, nil, err
	}
	value, err := parseCheckInValue(r)
	if err != nil {
		return 0, 0, nil, err
	}
	return id, checkinID, value, nil
}
