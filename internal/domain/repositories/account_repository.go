package repositories

import (
	"context"

	"github.com/casalist/backend/internal/domain/entities"
)

// AccountRepository defines storage operations for accounts.
//
// GetByID returns (nil, nil) when no account has the given id; absence is a
// valid result, not an error. Save upserts by id, fully replacing any prior
// value, and returns the stored entity.
type AccountRepository interface {
	Save(ctx context.Context, account *entities.Account) (*entities.Account, error)
	GetByID(ctx context.Context, id string) (*entities.Account, error)
	List(ctx context.Context) ([]*entities.Account, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AccountFieldFinder is an optional capability: repositories that can look
// up an account by an exact field match implement it. Backends without an
// index satisfy it with a full scan; callers that need the lookup fall back
// to scanning List when the capability is absent.
type AccountFieldFinder interface {
	FindByField(ctx context.Context, field, value string) (*entities.Account, error)
}
