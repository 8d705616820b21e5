package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/services"
)

// CanHaveWetbagResponse reports whether an entrant can be given a wetbag
type CanHaveWetbagResponse struct {
	CanHaveWetbag bool `json:"can_have_wetbag"`
}

// TransferResponse reports how many heats were copied to the document store
type TransferResponse struct {
	Transferred int `json:"transferred"`
}

func (h *Handlers) handleGetWetbag(w http.ResponseWriter, r *http.Request) {
	wetbag, err := h.Wetbags.GetWetbag(r.Context(), chi.URLParam(r, "wetbagID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wetbag)
}

func (h *Handlers) handleCreateWetbag(w http.ResponseWriter, r *http.Request) {
	var req services.WetbagInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	wetbag, err := h.Wetbags.CreateWetbag(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, wetbag)
}

func (h *Handlers) handleUpdateWetbag(w http.ResponseWriter, r *http.Request) {
	var patch services.WetbagPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, err)
		return
	}
	wetbag, err := h.Wetbags.UpdateWetbag(r.Context(), chi.URLParam(r, "wetbagID"), patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wetbag)
}

// handleEntrantWetbag returns the entrant's wetbag, creating it on first use
func (h *Handlers) handleEntrantWetbag(kind models.EntrantKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIntParam(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		wetbag, err := h.Wetbags.EntrantWetbag(r.Context(), kind, id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, wetbag)
	}
}

func (h *Handlers) handleCanHaveWetbag(kind models.EntrantKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIntParam(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		ok, err := h.Wetbags.CanHaveWetbag(r.Context(), kind, id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, CanHaveWetbagResponse{CanHaveWetbag: ok})
	}
}

// handleWetbagQR serves the PNG label of a wetbag
func (h *Handlers) handleWetbagQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Wetbags.QRCode(r.Context(), chi.URLParam(r, "wetbagID"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (h *Handlers) handleTransferHeats(w http.ResponseWriter, r *http.Request) {
	raceID, err := parseIntParam(r, "raceID")
	if err != nil {
		respondError(w, err)
		return
	}
	n, err := h.Wetbags.TransferHeats(r.Context(), raceID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, TransferResponse{Transferred: n})
}
