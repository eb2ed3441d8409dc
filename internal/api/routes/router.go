package routes

import (
	"net/http"

	"github.com/casalist/backend/internal/api/handlers"
	"github.com/casalist/backend/internal/api/middleware"
	"github.com/casalist/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	accountHandler *handlers.AccountHandler
	listingHandler *handlers.ListingHandler
	amenityHandler *handlers.AmenityHandler
	reviewHandler  *handlers.ReviewHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	accountHandler *handlers.AccountHandler,
	listingHandler *handlers.ListingHandler,
	amenityHandler *handlers.AmenityHandler,
	reviewHandler *handlers.ReviewHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		accountHandler: accountHandler,
		listingHandler: listingHandler,
		amenityHandler: amenityHandler,
		reviewHandler:  reviewHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Account endpoints
	r.mux.HandleFunc("POST /api/accounts", r.accountHandler.CreateAccount)
	r.mux.HandleFunc("GET /api/accounts", r.accountHandler.ListAccounts)
	r.mux.HandleFunc("GET /api/accounts/{id}", r.accountHandler.GetAccount)
	r.mux.HandleFunc("PATCH /api/accounts/{id}", r.accountHandler.UpdateAccount)
	r.mux.HandleFunc("DELETE /api/accounts/{id}", r.accountHandler.DeleteAccount)
	r.mux.HandleFunc("POST /api/accounts/{id}/password", r.accountHandler.ChangePassword)

	// Listing endpoints
	r.mux.HandleFunc("POST /api/listings", r.listingHandler.CreateListing)
	r.mux.HandleFunc("GET /api/listings", r.listingHandler.ListListings)
	r.mux.HandleFunc("GET /api/listings/{id}", r.listingHandler.GetListing)
	r.mux.HandleFunc("PATCH /api/listings/{id}", r.listingHandler.UpdateListing)
	r.mux.HandleFunc("DELETE /api/listings/{id}", r.listingHandler.DeleteListing)
	r.mux.HandleFunc("GET /api/listings/{id}/reviews", r.listingHandler.GetListingReviews)

	// Amenity endpoints
	r.mux.HandleFunc("POST /api/amenities", r.amenityHandler.CreateAmenity)
	r.mux.HandleFunc("GET /api/amenities", r.amenityHandler.ListAmenities)
	r.mux.HandleFunc("GET /api/amenities/{id}", r.amenityHandler.GetAmenity)
	r.mux.HandleFunc("PATCH /api/amenities/{id}", r.amenityHandler.UpdateAmenity)
	r.mux.HandleFunc("DELETE /api/amenities/{id}", r.amenityHandler.DeleteAmenity)

	// Review endpoints
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.CreateReview)
	r.mux.HandleFunc("GET /api/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("GET /api/reviews/{id}", r.reviewHandler.GetReview)
	r.mux.HandleFunc("PATCH /api/reviews/{id}", r.reviewHandler.UpdateReview)
	r.mux.HandleFunc("DELETE /api/reviews/{id}", r.reviewHandler.DeleteReview)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.ClaimsMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.CORSMiddleware(handler)

	return handler
}
