package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/repositories"
	apperrors "github.com/casalist/backend/pkg/errors"
)

// ReviewService enforces review invariants: an existing author and listing,
// at most one review per author/listing pair, and no reviews by the
// listing's own owner. Author and listing references are immutable after
// creation; only text and rating can be patched.
type ReviewService struct {
	repo        repositories.ReviewRepository
	accountRepo repositories.AccountRepository
	listingRepo repositories.ListingRepository
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repositories.ReviewRepository,
	accountRepo repositories.AccountRepository,
	listingRepo repositories.ListingRepository,
) *ReviewService {
	return &ReviewService{
		repo:        repo,
		accountRepo: accountRepo,
		listingRepo: listingRepo,
	}
}

// CreateReviewInput carries the fields a caller may set on creation.
type CreateReviewInput struct {
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	AuthorID  string `json:"author_id"`
	ListingID string `json:"listing_id"`
}

// ReviewPatch lists the fields eligible for update.
type ReviewPatch struct {
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty"`
}

// Create validates the input and the review business rules, then persists.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*entities.Review, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperrors.NewValidationError("review text is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	author, err := s.accountRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperrors.NewValidationError("author not found")
	}

	listing, err := s.listingRepo.GetByID(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperrors.NewValidationError("listing not found")
	}

	if listing.OwnerID == in.AuthorID {
		return nil, apperrors.NewConflictError("cannot review your own listing")
	}

	reviewed, err := s.HasReviewed(ctx, in.AuthorID, in.ListingID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, apperrors.NewConflictError("listing already reviewed by this author")
	}

	now := time.Now().UTC()
	review := &entities.Review{
		ID:        uuid.New().String(),
		Text:      text,
		Rating:    in.Rating,
		AuthorID:  in.AuthorID,
		ListingID: in.ListingID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.Save(ctx, review)
}

// Get returns the review or nil when absent.
func (s *ReviewService) Get(ctx context.Context, id string) (*entities.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all reviews.
func (s *ReviewService) List(ctx context.Context) ([]*entities.Review, error) {
	return s.repo.List(ctx)
}

// ListByListing returns the reviews for one listing. The filter runs over
// the full collection; at this scale that is acceptable, and a scale-out
// would push it into an indexed repository query.
func (s *ReviewService) ListByListing(ctx context.Context, listingID string) ([]*entities.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*entities.Review, 0, len(reviews))
	for _, review := range reviews {
		if review.ListingID == listingID {
			filtered = append(filtered, review)
		}
	}
	return filtered, nil
}

// Update applies a patch. Returns nil when no review has the given id.
func (s *ReviewService) Update(ctx context.Context, id string, patch ReviewPatch) (*entities.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, nil
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, apperrors.NewValidationError("review text cannot be empty")
		}
		review.Text = text
	}
	if patch.Rating != nil {
		if *patch.Rating < 1 || *patch.Rating > 5 {
			return nil, apperrors.NewValidationError("rating must be between 1 and 5")
		}
		review.Rating = *patch.Rating
	}

	review.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, review)
}

// Delete removes the review, reporting whether a record was removed.
func (s *ReviewService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// IsAuthor reports whether the subject wrote the review. An absent review
// yields false, never an error.
func (s *ReviewService) IsAuthor(ctx context.Context, reviewID, subjectID string) (bool, error) {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return false, err
	}
	return review != nil && review.AuthorID == subjectID, nil
}

// HasReviewed reports whether the subject already has a review for the
// listing.
func (s *ReviewService) HasReviewed(ctx context.Context, subjectID, listingID string) (bool, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, review := range reviews {
		if review.AuthorID == subjectID && review.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}
