package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casalist/backend/internal/api/middleware"
	"github.com/casalist/backend/internal/application/services"
)

// ListingHandler handles listing management.
type ListingHandler struct {
	service *services.ListingService
	reviews *services.ReviewService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(service *services.ListingService, reviews *services.ReviewService) *ListingHandler {
	return &ListingHandler{service: service, reviews: reviews}
}

type createListingRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	Price       float64  `json:"price"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	OwnerID     string   `json:"owner_id,omitempty"`
	AmenityIDs  []string `json:"amenity_ids,omitempty"`
}

// CreateListing handles POST /api/listings
//
// The subject becomes the owner. An admin may create a listing on behalf of
// another account by supplying owner_id.
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	ownerID := claims.SubjectID
	if payload.OwnerID != "" && payload.OwnerID != claims.SubjectID {
		if !claims.IsAdmin {
			respondWithError(w, http.StatusForbidden, "cannot create a listing for another account")
			return
		}
		ownerID = payload.OwnerID
	}

	listing, err := h.service.Create(r.Context(), services.CreateListingInput{
		Name:        payload.Name,
		Description: payload.Description,
		City:        payload.City,
		Price:       payload.Price,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		OwnerID:     ownerID,
		AmenityIDs:  payload.AmenityIDs,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, listing)
}

// ListListings handles GET /api/listings
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListing handles GET /api/listings/{id}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	listing, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if listing == nil {
		respondWithError(w, http.StatusNotFound, "listing not found")
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

// GetListingReviews handles GET /api/listings/{id}/reviews
func (h *ListingHandler) GetListingReviews(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	listing, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if listing == nil {
		respondWithError(w, http.StatusNotFound, "listing not found")
		return
	}

	reviews, err := h.reviews.ListByListing(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// UpdateListing handles PATCH /api/listings/{id}
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !h.authorizeOwner(w, r, id) {
		return
	}

	var patch services.ListingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	listing, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if listing == nil {
		respondWithError(w, http.StatusNotFound, "listing not found")
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

// DeleteListing handles DELETE /api/listings/{id}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !h.authorizeOwner(w, r, id) {
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "listing not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authorizeOwner admits the listing's owner or an admin. It writes the
// response on failure and reports whether the caller may proceed.
func (h *ListingHandler) authorizeOwner(w http.ResponseWriter, r *http.Request, listingID string) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return false
	}
	if claims.IsAdmin {
		return true
	}

	isOwner, err := h.service.IsOwner(r.Context(), listingID, claims.SubjectID)
	if err != nil {
		respondWithAppError(w, err)
		return false
	}
	if !isOwner {
		respondWithError(w, http.StatusForbidden, "not the listing owner")
		return false
	}
	return true
}
