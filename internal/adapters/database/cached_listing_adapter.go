package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/providers"
	"github.com/casalist/backend/internal/domain/repositories"
)

// CachedListingAdapter wraps a ListingRepository with read-through caching.
// Saves and deletes invalidate the affected keys before delegating, so
// readers never observe a cached record newer than storage.
type CachedListingAdapter struct {
	adapter repositories.ListingRepository
	cache   providers.CacheProvider
}

// NewCachedListingAdapter creates a new cached listing adapter.
func NewCachedListingAdapter(adapter repositories.ListingRepository, cache providers.CacheProvider) repositories.ListingRepository {
	return &CachedListingAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	listingByIDTTL = 300
	listingListTTL = 120
)

func listingCacheKey(id string) string {
	return fmt.Sprintf("listing:%s", id)
}

const listingListCacheKey = "listings:all"

// Save writes through and drops the affected cache entries.
func (a *CachedListingAdapter) Save(ctx context.Context, listing *entities.Listing) (*entities.Listing, error) {
	stored, err := a.adapter.Save(ctx, listing)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx, stored.ID)
	return stored, nil
}

// GetByID retrieves a listing with caching. Absent listings are not cached.
func (a *CachedListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	cacheKey := listingCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var listing entities.Listing
		if err := json.Unmarshal(cached, &listing); err == nil {
			return &listing, nil
		}
		log.Warn().Str("listing_id", id).Msg("failed to unmarshal cached listing, falling through")
	}

	listing, err := a.adapter.GetByID(ctx, id)
	if err != nil || listing == nil {
		return listing, err
	}

	if data, err := json.Marshal(listing); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, listingByIDTTL); err != nil {
			log.Warn().Err(err).Str("listing_id", id).Msg("failed to cache listing")
		}
	}
	return listing, nil
}

// List returns all listings with caching.
func (a *CachedListingAdapter) List(ctx context.Context) ([]*entities.Listing, error) {
	if cached, err := a.cache.Get(ctx, listingListCacheKey); err == nil {
		var listings []*entities.Listing
		if err := json.Unmarshal(cached, &listings); err == nil {
			return listings, nil
		}
	}

	listings, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(listings); err == nil {
		if err := a.cache.Set(ctx, listingListCacheKey, data, listingListTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache listing list")
		}
	}
	return listings, nil
}

// Delete removes the listing and its cache entries.
func (a *CachedListingAdapter) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := a.adapter.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		a.invalidate(ctx, id)
	}
	return removed, nil
}

func (a *CachedListingAdapter) invalidate(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, listingCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("listing_id", id).Msg("failed to invalidate listing cache entry")
	}
	if err := a.cache.Delete(ctx, listingListCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate listing list cache entry")
	}
}
