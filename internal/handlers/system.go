package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/JPGarCar/tridu-server/internal/services"
)

// handleHealth reports whether the database is reachable
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondOK(w, map[string]string{"status": "ok"})
}

// handleOpenAPI serves the embedded OpenAPI document
func (h *Handlers) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if len(h.openAPI) == 0 {
		respondError(w, NotFound("API document is not available"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(h.openAPI)
}

func (h *Handlers) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Locations.ListLocations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, locations)
}

// handleGetOrCreateLocation returns the location matching the body, creating it when missing
func (h *Handlers) handleGetOrCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req services.OriginInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	location, err := h.Locations.GetOrCreate(r.Context(), req.City, req.Province, req.Country)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, location)
}
