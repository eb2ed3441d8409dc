package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casalist/backend/internal/api/middleware"
	"github.com/casalist/backend/internal/application/services"
)

// AmenityHandler handles the amenity catalog. The catalog is world-readable
// and admin-writable.
type AmenityHandler struct {
	service *services.AmenityService
}

// NewAmenityHandler creates a new amenity handler.
func NewAmenityHandler(service *services.AmenityService) *AmenityHandler {
	return &AmenityHandler{service: service}
}

// CreateAmenity handles POST /api/amenities
func (h *AmenityHandler) CreateAmenity(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var payload services.CreateAmenityInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	amenity, err := h.service.Create(r.Context(), payload)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, amenity)
}

// ListAmenities handles GET /api/amenities
func (h *AmenityHandler) ListAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"amenities": amenities,
		"count":     len(amenities),
	})
}

// GetAmenity handles GET /api/amenities/{id}
func (h *AmenityHandler) GetAmenity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	amenity, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if amenity == nil {
		respondWithError(w, http.StatusNotFound, "amenity not found")
		return
	}

	respondWithJSON(w, http.StatusOK, amenity)
}

// UpdateAmenity handles PATCH /api/amenities/{id}
func (h *AmenityHandler) UpdateAmenity(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")

	var patch services.AmenityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	amenity, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if amenity == nil {
		respondWithError(w, http.StatusNotFound, "amenity not found")
		return
	}

	respondWithJSON(w, http.StatusOK, amenity)
}

// DeleteAmenity handles DELETE /api/amenities/{id}
func (h *AmenityHandler) DeleteAmenity(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "amenity not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireAdmin writes the response on failure and reports whether the caller
// carries the admin claim.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return false
	}
	if !claims.IsAdmin {
		respondWithError(w, http.StatusForbidden, "admin privileges required")
		return false
	}
	return true
}
