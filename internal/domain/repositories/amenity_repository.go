package repositories

import (
	"context"

	"github.com/casalist/backend/internal/domain/entities"
)

// AmenityRepository defines storage operations for amenities.
type AmenityRepository interface {
	Save(ctx context.Context, amenity *entities.Amenity) (*entities.Amenity, error)
	GetByID(ctx context.Context, id string) (*entities.Amenity, error)
	List(ctx context.Context) ([]*entities.Amenity, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AmenityFieldFinder is the optional exact-match lookup capability for
// amenity repositories, used for the name uniqueness check.
type AmenityFieldFinder interface {
	FindByField(ctx context.Context, field, value string) (*entities.Amenity, error)
}
