package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/repositories"
)

// Entity kinds used as bucket keys.
const (
	kindAccount = "account"
	kindListing = "listing"
	kindAmenity = "amenity"
	kindReview  = "review"
)

// Store is the process-local repository backend: a mutex-guarded map of
// entity kind to id to record, lost on restart. A single lock scopes every
// operation, so concurrent saves, gets, deletes and lists always observe a
// consistent map, and List returns a snapshot in insertion order.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
}

type bucket struct {
	byID  map[string]any
	order []string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{buckets: make(map[string]*bucket)}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() repositories.AccountRepository { return &accountRepo{store: s} }

// Listings returns the listing repository view of the store.
func (s *Store) Listings() repositories.ListingRepository { return &listingRepo{store: s} }

// Amenities returns the amenity repository view of the store.
func (s *Store) Amenities() repositories.AmenityRepository { return &amenityRepo{store: s} }

// Reviews returns the review repository view of the store.
func (s *Store) Reviews() repositories.ReviewRepository { return &reviewRepo{store: s} }

// ensureID assigns a fresh identifier when the caller did not set one.
func ensureID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func (s *Store) save(kind, id string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[kind]
	if !ok {
		b = &bucket{byID: make(map[string]any)}
		s.buckets[kind] = b
	}
	if _, exists := b.byID[id]; !exists {
		b.order = append(b.order, id)
	}
	b.byID[id] = value
}

func (s *Store) get(kind, id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[kind]
	if !ok {
		return nil, false
	}
	v, ok := b.byID[id]
	return v, ok
}

func (s *Store) delete(kind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[kind]
	if !ok {
		return false
	}
	if _, exists := b.byID[id]; !exists {
		return false
	}
	delete(b.byID, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) list(kind string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.buckets[kind]
	if !ok {
		return nil
	}
	values := make([]any, 0, len(b.order))
	for _, id := range b.order {
		values = append(values, b.byID[id])
	}
	return values
}

// accountRepo implements repositories.AccountRepository and the
// AccountFieldFinder capability via a full scan.
type accountRepo struct {
	store *Store
}

func (r *accountRepo) Save(_ context.Context, account *entities.Account) (*entities.Account, error) {
	stored := cloneAccount(account)
	stored.ID = ensureID(stored.ID)
	r.store.save(kindAccount, stored.ID, stored)
	return cloneAccount(stored), nil
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*entities.Account, error) {
	v, ok := r.store.get(kindAccount, id)
	if !ok {
		return nil, nil
	}
	return cloneAccount(v.(*entities.Account)), nil
}

func (r *accountRepo) List(_ context.Context) ([]*entities.Account, error) {
	values := r.store.list(kindAccount)
	accounts := make([]*entities.Account, 0, len(values))
	for _, v := range values {
		accounts = append(accounts, cloneAccount(v.(*entities.Account)))
	}
	return accounts, nil
}

func (r *accountRepo) Delete(_ context.Context, id string) (bool, error) {
	return r.store.delete(kindAccount, id), nil
}

func (r *accountRepo) FindByField(_ context.Context, field, value string) (*entities.Account, error) {
	for _, v := range r.store.list(kindAccount) {
		account := v.(*entities.Account)
		if accountField(account, field) == value {
			return cloneAccount(account), nil
		}
	}
	return nil, nil
}

func accountField(a *entities.Account, field string) string {
	switch field {
	case "email":
		return a.Email
	case "first_name":
		return a.FirstName
	case "last_name":
		return a.LastName
	default:
		return ""
	}
}

type listingRepo struct {
	store *Store
}

func (r *listingRepo) Save(_ context.Context, listing *entities.Listing) (*entities.Listing, error) {
	stored := cloneListing(listing)
	stored.ID = ensureID(stored.ID)
	r.store.save(kindListing, stored.ID, stored)
	return cloneListing(stored), nil
}

func (r *listingRepo) GetByID(_ context.Context, id string) (*entities.Listing, error) {
	v, ok := r.store.get(kindListing, id)
	if !ok {
		return nil, nil
	}
	return cloneListing(v.(*entities.Listing)), nil
}

func (r *listingRepo) List(_ context.Context) ([]*entities.Listing, error) {
	values := r.store.list(kindListing)
	listings := make([]*entities.Listing, 0, len(values))
	for _, v := range values {
		listings = append(listings, cloneListing(v.(*entities.Listing)))
	}
	return listings, nil
}

func (r *listingRepo) Delete(_ context.Context, id string) (bool, error) {
	return r.store.delete(kindListing, id), nil
}

type amenityRepo struct {
	store *Store
}

func (r *amenityRepo) Save(_ context.Context, amenity *entities.Amenity) (*entities.Amenity, error) {
	stored := cloneAmenity(amenity)
	stored.ID = ensureID(stored.ID)
	r.store.save(kindAmenity, stored.ID, stored)
	return cloneAmenity(stored), nil
}

func (r *amenityRepo) GetByID(_ context.Context, id string) (*entities.Amenity, error) {
	v, ok := r.store.get(kindAmenity, id)
	if !ok {
		return nil, nil
	}
	return cloneAmenity(v.(*entities.Amenity)), nil
}

func (r *amenityRepo) List(_ context.Context) ([]*entities.Amenity, error) {
	values := r.store.list(kindAmenity)
	amenities := make([]*entities.Amenity, 0, len(values))
	for _, v := range values {
		amenities = append(amenities, cloneAmenity(v.(*entities.Amenity)))
	}
	return amenities, nil
}

func (r *amenityRepo) Delete(_ context.Context, id string) (bool, error) {
	return r.store.delete(kindAmenity, id), nil
}

func (r *amenityRepo) FindByField(_ context.Context, field, value string) (*entities.Amenity, error) {
	if field != "name" {
		return nil, nil
	}
	for _, v := range r.store.list(kindAmenity) {
		amenity := v.(*entities.Amenity)
		if amenity.Name == value {
			return cloneAmenity(amenity), nil
		}
	}
	return nil, nil
}

type reviewRepo struct {
	store *Store
}

func (r *reviewRepo) Save(_ context.Context, review *entities.Review) (*entities.Review, error) {
	stored := cloneReview(review)
	stored.ID = ensureID(stored.ID)
	r.store.save(kindReview, stored.ID, stored)
	return cloneReview(stored), nil
}

func (r *reviewRepo) GetByID(_ context.Context, id string) (*entities.Review, error) {
	v, ok := r.store.get(kindReview, id)
	if !ok {
		return nil, nil
	}
	return cloneReview(v.(*entities.Review)), nil
}

func (r *reviewRepo) List(_ context.Context) ([]*entities.Review, error) {
	values := r.store.list(kindReview)
	reviews := make([]*entities.Review, 0, len(values))
	for _, v := range values {
		reviews = append(reviews, cloneReview(v.(*entities.Review)))
	}
	return reviews, nil
}

func (r *reviewRepo) Delete(_ context.Context, id string) (bool, error) {
	return r.store.delete(kindReview, id), nil
}

// Clones keep callers from mutating stored records through shared pointers.

func cloneAccount(a *entities.Account) *entities.Account {
	cp := *a
	return &cp
}

func cloneListing(l *entities.Listing) *entities.Listing {
	cp := *l
	if l.Latitude != nil {
		v := *l.Latitude
		cp.Latitude = &v
	}
	if l.Longitude != nil {
		v := *l.Longitude
		cp.Longitude = &v
	}
	if l.AmenityIDs != nil {
		cp.AmenityIDs = append([]string(nil), l.AmenityIDs...)
	}
	return &cp
}

func cloneAmenity(a *entities.Amenity) *entities.Amenity {
	cp := *a
	return &cp
}

func cloneReview(r *entities.Review) *entities.Review {
	cp := *r
	return &cp
}
