package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalist/backend/internal/adapters/memory"
	"github.com/casalist/backend/internal/application/services"
	"github.com/casalist/backend/internal/domain/entities"
	apperrors "github.com/casalist/backend/pkg/errors"
)

type reviewFixture struct {
	accounts *services.AccountService
	listings *services.ListingService
	reviews  *services.ReviewService
	owner    *entities.Account
	guest    *entities.Account
	listing  *entities.Listing
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	accounts := services.NewAccountService(store.Accounts(), stubHasher{})
	listings := services.NewListingService(store.Listings(), store.Accounts(), store.Amenities())
	reviews := services.NewReviewService(store.Reviews(), store.Accounts(), store.Listings())

	owner, err := accounts.Create(ctx, services.CreateAccountInput{
		Email: "owner@example.com", Password: "secret",
	})
	require.NoError(t, err)
	guest, err := accounts.Create(ctx, services.CreateAccountInput{
		Email: "guest@example.com", Password: "secret",
	})
	require.NoError(t, err)
	listing, err := listings.Create(ctx, services.CreateListingInput{
		Name: "Loft", Price: 100, OwnerID: owner.ID,
	})
	require.NoError(t, err)

	return &reviewFixture{
		accounts: accounts,
		listings: listings,
		reviews:  reviews,
		owner:    owner,
		guest:    guest,
		listing:  listing,
	}
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates review for a stay", func(t *testing.T) {
		f := newReviewFixture(t)

		review, err := f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Lovely", Rating: 5,
			AuthorID: f.guest.ID, ListingID: f.listing.ID,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, review.ID)
		assert.Equal(t, f.guest.ID, review.AuthorID)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "   ", Rating: 4,
			AuthorID: f.guest.ID, ListingID: f.listing.ID,
		})

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		f := newReviewFixture(t)

		for _, rating := range []int{0, 6, -1} {
			_, err := f.reviews.Create(ctx, services.CreateReviewInput{
				Text: "Nice", Rating: rating,
				AuthorID: f.guest.ID, ListingID: f.listing.ID,
			})
			assert.True(t, apperrors.IsValidation(err))
		}
	})

	t.Run("rejects unknown author or listing", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Nice", Rating: 4,
			AuthorID: "missing", ListingID: f.listing.ID,
		})
		assert.True(t, apperrors.IsValidation(err))

		_, err = f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Nice", Rating: 4,
			AuthorID: f.guest.ID, ListingID: "missing",
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("owner cannot review own listing", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Best place", Rating: 5,
			AuthorID: f.owner.ID, ListingID: f.listing.ID,
		})

		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("one review per author per listing", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Nice", Rating: 4,
			AuthorID: f.guest.ID, ListingID: f.listing.ID,
		})
		require.NoError(t, err)

		_, err = f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Changed my mind", Rating: 2,
			AuthorID: f.guest.ID, ListingID: f.listing.ID,
		})
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestReviewService_ListByListing(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	other, err := f.listings.Create(ctx, services.CreateListingInput{
		Name: "Cottage", Price: 80, OwnerID: f.owner.ID,
	})
	require.NoError(t, err)

	_, err = f.reviews.Create(ctx, services.CreateReviewInput{
		Text: "Nice", Rating: 4, AuthorID: f.guest.ID, ListingID: f.listing.ID,
	})
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, services.CreateReviewInput{
		Text: "Also nice", Rating: 5, AuthorID: f.guest.ID, ListingID: other.ID,
	})
	require.NoError(t, err)

	reviews, err := f.reviews.ListByListing(ctx, f.listing.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, f.listing.ID, reviews[0].ListingID)

	empty, err := f.reviews.ListByListing(ctx, "no-such-listing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReviewService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates text and rating only", func(t *testing.T) {
		f := newReviewFixture(t)
		review, err := f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Nice", Rating: 4, AuthorID: f.guest.ID, ListingID: f.listing.ID,
		})
		require.NoError(t, err)

		rating := 2
		updated, err := f.reviews.Update(ctx, review.ID, services.ReviewPatch{Rating: &rating})

		require.NoError(t, err)
		assert.Equal(t, 2, updated.Rating)
		assert.Equal(t, "Nice", updated.Text)
		assert.Equal(t, f.guest.ID, updated.AuthorID)
	})

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		f := newReviewFixture(t)
		review, err := f.reviews.Create(ctx, services.CreateReviewInput{
			Text: "Nice", Rating: 4, AuthorID: f.guest.ID, ListingID: f.listing.ID,
		})
		require.NoError(t, err)

		rating := 9
		_, err = f.reviews.Update(ctx, review.ID, services.ReviewPatch{Rating: &rating})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("returns nil for unknown id", func(t *testing.T) {
		f := newReviewFixture(t)

		updated, err := f.reviews.Update(ctx, "missing", services.ReviewPatch{})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestReviewService_Predicates(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	review, err := f.reviews.Create(ctx, services.CreateReviewInput{
		Text: "Nice", Rating: 4, AuthorID: f.guest.ID, ListingID: f.listing.ID,
	})
	require.NoError(t, err)

	isAuthor, err := f.reviews.IsAuthor(ctx, review.ID, f.guest.ID)
	require.NoError(t, err)
	assert.True(t, isAuthor)

	isAuthor, err = f.reviews.IsAuthor(ctx, review.ID, f.owner.ID)
	require.NoError(t, err)
	assert.False(t, isAuthor)

	isAuthor, err = f.reviews.IsAuthor(ctx, "missing", f.guest.ID)
	require.NoError(t, err)
	assert.False(t, isAuthor)

	reviewed, err := f.reviews.HasReviewed(ctx, f.guest.ID, f.listing.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)

	reviewed, err = f.reviews.HasReviewed(ctx, f.owner.ID, f.listing.ID)
	require.NoError(t, err)
	assert.False(t, reviewed)
}
