package repositories

import (
	"context"

	"github.com/casalist/backend/internal/domain/entities"
)

// ReviewRepository defines storage operations for reviews.
type ReviewRepository interface {
	Save(ctx context.Context, review *entities.Review) (*entities.Review, error)
	GetByID(ctx context.Context, id string) (*entities.Review, error)
	List(ctx context.Context) ([]*entities.Review, error)
	Delete(ctx context.Context, id string) (bool, error)
}
