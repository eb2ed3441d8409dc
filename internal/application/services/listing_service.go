package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/providers"
	"github.com/casalist/backend/internal/domain/repositories"
	apperrors "github.com/casalist/backend/pkg/errors"
)

// ListingService enforces listing invariants: required fields, price and
// coordinate ranges, an existing owner, and existing amenities for the
// association. The owner existence check and the save are separate
// repository calls; a concurrent owner deletion between them is an accepted
// race in this design.
type ListingService struct {
	repo        repositories.ListingRepository
	accountRepo repositories.AccountRepository
	amenityRepo repositories.AmenityRepository
	eventBus    providers.EventBus
}

// NewListingService creates a new listing service.
func NewListingService(
	repo repositories.ListingRepository,
	accountRepo repositories.AccountRepository,
	amenityRepo repositories.AmenityRepository,
) *ListingService {
	return &ListingService{
		repo:        repo,
		accountRepo: accountRepo,
		amenityRepo: amenityRepo,
	}
}

// SetEventBus enables lifecycle event publication.
func (s *ListingService) SetEventBus(bus providers.EventBus) {
	s.eventBus = bus
}

// CreateListingInput carries the fields a caller may set on creation.
type CreateListingInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	Price       float64  `json:"price"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenity_ids,omitempty"`
}

// ListingPatch lists the fields eligible for update.
type ListingPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	City        *string   `json:"city,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	AmenityIDs  *[]string `json:"amenity_ids,omitempty"`
}

// Create validates the input, resolves the owner and amenity references and
// persists the listing.
func (s *ListingService) Create(ctx context.Context, in CreateListingInput) (*entities.Listing, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("listing name is required")
	}
	if in.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative")
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return nil, apperrors.NewValidationError("owner_id is required")
	}
	owner, err := s.accountRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperrors.NewValidationError("owner not found")
	}

	if err := s.resolveAmenities(ctx, in.AmenityIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	listing := &entities.Listing{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		City:        strings.TrimSpace(in.City),
		Price:       in.Price,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OwnerID:     ownerID,
		AmenityIDs:  in.AmenityIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.repo.Save(ctx, listing)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, entities.EntityEventCreated, stored.ID)
	return stored, nil
}

// Get returns the listing or nil when absent.
func (s *ListingService) Get(ctx context.Context, id string) (*entities.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all listings.
func (s *ListingService) List(ctx context.Context) ([]*entities.Listing, error) {
	return s.repo.List(ctx)
}

// Update applies a patch. Returns nil when no listing has the given id.
// Owner and amenity changes re-run the referential checks.
func (s *ListingService) Update(ctx context.Context, id string, patch ListingPatch) (*entities.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, nil
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("listing name cannot be empty")
		}
		listing.Name = name
	}
	if patch.Description != nil {
		listing.Description = *patch.Description
	}
	if patch.City != nil {
		listing.City = strings.TrimSpace(*patch.City)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, apperrors.NewValidationError("price must not be negative")
		}
		listing.Price = *patch.Price
	}

	lat, lon := listing.Latitude, listing.Longitude
	if patch.Latitude != nil {
		lat = patch.Latitude
	}
	if patch.Longitude != nil {
		lon = patch.Longitude
	}
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	listing.Latitude, listing.Longitude = lat, lon

	if patch.OwnerID != nil {
		ownerID := strings.TrimSpace(*patch.OwnerID)
		owner, err := s.accountRepo.GetByID(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, apperrors.NewValidationError("owner not found")
		}
		listing.OwnerID = ownerID
	}

	if patch.AmenityIDs != nil {
		if err := s.resolveAmenities(ctx, *patch.AmenityIDs); err != nil {
			return nil, err
		}
		listing.AmenityIDs = *patch.AmenityIDs
	}

	listing.UpdatedAt = time.Now().UTC()
	stored, err := s.repo.Save(ctx, listing)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, entities.EntityEventUpdated, stored.ID)
	return stored, nil
}

// Delete removes the listing, reporting whether a record was removed.
// Reviews referencing the listing are left in place.
func (s *ListingService) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.publish(ctx, entities.EntityEventDeleted, id)
	}
	return removed, nil
}

// IsOwner reports whether the subject owns the listing. An absent listing
// yields false, never an error.
func (s *ListingService) IsOwner(ctx context.Context, listingID, subjectID string) (bool, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return false, err
	}
	return listing != nil && listing.OwnerID == subjectID, nil
}

func (s *ListingService) resolveAmenities(ctx context.Context, amenityIDs []string) error {
	for _, amenityID := range amenityIDs {
		amenity, err := s.amenityRepo.GetByID(ctx, amenityID)
		if err != nil {
			return err
		}
		if amenity == nil {
			return apperrors.NewValidationError("amenity " + amenityID + " not found")
		}
	}
	return nil
}

func (s *ListingService) publish(ctx context.Context, eventType entities.EntityEventType, listingID string) {
	if s.eventBus == nil {
		return
	}
	event := &entities.EntityEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		EntityKind: "listing",
		EntityID:   listingID,
		OccurredAt: time.Now().UTC(),
	}
	for _, channel := range []string{providers.EventChannelListingUpdates, providers.ListingChannel(listingID)} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to publish listing event")
		}
	}
}

func validateCoordinates(lat, lon *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}
