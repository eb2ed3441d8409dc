package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casalist/backend/internal/adapters/memory"
	"github.com/casalist/backend/internal/api/handlers"
	"github.com/casalist/backend/internal/api/middleware"
	"github.com/casalist/backend/internal/api/routes"
	"github.com/casalist/backend/internal/application/services"
	"github.com/casalist/backend/internal/domain/entities"
)

// stubHasher keeps handler tests free of bcrypt's work factor.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hash:" + plaintext, nil }
func (stubHasher) Verify(hash, plaintext string) bool    { return hash == "hash:"+plaintext }

// testApp wires the full route table over an in-memory store so handler
// tests cover routing, claims extraction and authorization together.
type testApp struct {
	handler   http.Handler
	accounts  *services.AccountService
	listings  *services.ListingService
	reviews   *services.ReviewService
	amenities *services.AmenityService
}

func newTestApp() *testApp {
	store := memory.NewStore()
	accounts := services.NewAccountService(store.Accounts(), stubHasher{})
	amenities := services.NewAmenityService(store.Amenities())
	listings := services.NewListingService(store.Listings(), store.Accounts(), store.Amenities())
	reviews := services.NewReviewService(store.Reviews(), store.Accounts(), store.Listings())

	router := routes.NewRouter(
		handlers.NewAccountHandler(accounts),
		handlers.NewListingHandler(listings, reviews),
		handlers.NewAmenityHandler(amenities),
		handlers.NewReviewHandler(reviews),
		nil,
	)

	return &testApp{
		handler:   router.SetupRoutes(),
		accounts:  accounts,
		listings:  listings,
		reviews:   reviews,
		amenities: amenities,
	}
}

type requestOpts struct {
	subjectID string
	admin     bool
}

func (app *testApp) do(t *testing.T, method, path string, body interface{}, opts requestOpts) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if opts.subjectID != "" {
		req.Header.Set(middleware.HeaderSubjectID, opts.subjectID)
		if opts.admin {
			req.Header.Set(middleware.HeaderIsAdmin, "true")
		}
	}

	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func (app *testApp) createAccount(t *testing.T, email string) *entities.Account {
	t.Helper()
	account, err := app.accounts.Create(context.Background(), services.CreateAccountInput{
		FirstName: "Test", LastName: "Account",
		Email: email, Password: "secret",
	})
	require.NoError(t, err)
	return account
}

func (app *testApp) createListing(t *testing.T, ownerID string) *entities.Listing {
	t.Helper()
	listing, err := app.listings.Create(context.Background(), services.CreateListingInput{
		Name: "Loft", City: "Milan", Price: 100, OwnerID: ownerID,
	})
	require.NoError(t, err)
	return listing
}
