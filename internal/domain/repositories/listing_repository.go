package repositories

import (
	"context"

	"github.com/casalist/backend/internal/domain/entities"
)

// ListingRepository defines storage operations for listings.
//
// Save persists the listing together with its amenity associations as a
// single atomic unit of storage work. GetByID returns (nil, nil) when absent.
type ListingRepository interface {
	Save(ctx context.Context, listing *entities.Listing) (*entities.Listing, error)
	GetByID(ctx context.Context, id string) (*entities.Listing, error)
	List(ctx context.Context) ([]*entities.Listing, error)
	Delete(ctx context.Context, id string) (bool, error)
}
