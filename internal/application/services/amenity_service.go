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

// AmenityService enforces amenity name uniqueness in front of the repository.
type AmenityService struct {
	repo repositories.AmenityRepository
}

// NewAmenityService creates a new amenity service.
func NewAmenityService(repo repositories.AmenityRepository) *AmenityService {
	return &AmenityService{repo: repo}
}

// CreateAmenityInput carries the fields a caller may set on creation.
type CreateAmenityInput struct {
	Name string `json:"name"`
}

// AmenityPatch lists the fields eligible for update.
type AmenityPatch struct {
	Name *string `json:"name,omitempty"`
}

// Create validates and persists an amenity. A duplicate name is a conflict.
func (s *AmenityService) Create(ctx context.Context, in CreateAmenityInput) (*entities.Amenity, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("amenity name is required")
	}

	existing, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("amenity name already in use")
	}

	now := time.Now().UTC()
	amenity := &entities.Amenity{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.Save(ctx, amenity)
}

// Get returns the amenity or nil when absent.
func (s *AmenityService) Get(ctx context.Context, id string) (*entities.Amenity, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all amenities.
func (s *AmenityService) List(ctx context.Context) ([]*entities.Amenity, error) {
	return s.repo.List(ctx)
}

// GetByName returns the amenity with the given name, or nil.
func (s *AmenityService) GetByName(ctx context.Context, name string) (*entities.Amenity, error) {
	return s.findByName(ctx, strings.TrimSpace(name))
}

// Update applies a patch, re-running the uniqueness check when the name
// changes. Returns nil when the amenity does not exist.
func (s *AmenityService) Update(ctx context.Context, id string, patch AmenityPatch) (*entities.Amenity, error) {
	amenity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if amenity == nil {
		return nil, nil
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("amenity name cannot be empty")
		}
		if name != amenity.Name {
			existing, err := s.findByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != amenity.ID {
				return nil, apperrors.NewConflictError("amenity name already in use")
			}
		}
		amenity.Name = name
	}

	amenity.UpdatedAt = time.Now().UTC()
	return s.repo.Save(ctx, amenity)
}

// Delete removes the amenity, reporting whether a record was removed.
func (s *AmenityService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *AmenityService) findByName(ctx context.Context, name string) (*entities.Amenity, error) {
	if finder, ok := s.repo.(repositories.AmenityFieldFinder); ok {
		return finder.FindByField(ctx, "name", name)
	}

	amenities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, amenity := range amenities {
		if amenity.Name == name {
			return amenity, nil
		}
	}
	return nil, nil
}
