package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/casalist/backend/internal/api/middleware"
	"github.com/casalist/backend/internal/application/services"
)

// ReviewHandler handles review management.
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	AuthorID  string `json:"author_id,omitempty"`
	ListingID string `json:"listing_id"`
}

// CreateReview handles POST /api/reviews
//
// The subject becomes the author. An admin may file a review on behalf of
// another account by supplying author_id.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	authorID := claims.SubjectID
	if payload.AuthorID != "" && payload.AuthorID != claims.SubjectID {
		if !claims.IsAdmin {
			respondWithError(w, http.StatusForbidden, "cannot review as another account")
			return
		}
		authorID = payload.AuthorID
	}

	review, err := h.service.Create(r.Context(), services.CreateReviewInput{
		Text:      payload.Text,
		Rating:    payload.Rating,
		AuthorID:  authorID,
		ListingID: payload.ListingID,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	review, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if review == nil {
		respondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// UpdateReview handles PATCH /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !h.authorizeAuthor(w, r, id) {
		return
	}

	var patch services.ReviewPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	review, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if review == nil {
		respondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !h.authorizeAuthor(w, r, id) {
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// authorizeAuthor admits the review's author or an admin. It writes the
// response on failure and reports whether the caller may proceed.
func (h *ReviewHandler) authorizeAuthor(w http.ResponseWriter, r *http.Request, reviewID string) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return false
	}
	if claims.IsAdmin {
		return true
	}

	isAuthor, err := h.service.IsAuthor(r.Context(), reviewID, claims.SubjectID)
	if err != nil {
		respondWithAppError(w, err)
		return false
	}
	if !isAuthor {
		respondWithError(w, http.StatusForbidden, "not the review author")
		return false
	}
	return true
}
