package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/casalist/backend/internal/domain/entities"
	"github.com/casalist/backend/internal/domain/repositories"
	"github.com/casalist/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/casalist/backend/pkg/errors"
)

// ListingAdapter implements listing persistence in Postgres. The amenity
// association lives in the listing_amenities join table and is replaced
// together with the listing row inside one transaction, so a Save is a
// single atomic unit of storage work.
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new listing adapter.
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const listingColumns = `id, name, description, city, price, latitude, longitude, owner_id, created_at, updated_at`

// Save upserts a listing and replaces its amenity associations.
func (a *ListingAdapter) Save(ctx context.Context, listing *entities.Listing) (*entities.Listing, error) {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	record := goqu.Record{
		"id":          listing.ID,
		"name":        listing.Name,
		"description": listing.Description,
		"city":        listing.City,
		"price":       listing.Price,
		"latitude":    nullFloat(listing.Latitude),
		"longitude":   nullFloat(listing.Longitude),
		"owner_id":    listing.OwnerID,
		"created_at":  listing.CreatedAt,
		"updated_at":  listing.UpdatedAt,
	}

	upsert, upsertArgs, err := a.db.Insert("listings").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build listing upsert query", err)
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to begin listing save", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
		return nil, apperrors.NewInternalError("failed to save listing", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM listing_amenities WHERE listing_id = $1`, listing.ID); err != nil {
		return nil, apperrors.NewInternalError("failed to clear listing amenities", err)
	}
	for _, amenityID := range listing.AmenityIDs {
		insert, args, err := a.db.Insert("listing_amenities").
			Rows(goqu.Record{"listing_id": listing.ID, "amenity_id": amenityID}).
			ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build listing amenity insert", err)
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return nil, apperrors.NewInternalError("failed to save listing amenity", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewInternalError("failed to commit listing save", err)
	}
	return listing, nil
}

// GetByID retrieves a listing and its amenity ids, (nil, nil) when absent.
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get listing", err)
	}

	if err := a.loadAmenities(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// List returns all listings with their amenity ids.
func (a *ListingAdapter) List(ctx context.Context) ([]*entities.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list listings", err)
	}
	defer rows.Close()

	var listings []*entities.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate listings", err)
	}

	for _, listing := range listings {
		if err := a.loadAmenities(ctx, listing); err != nil {
			return nil, err
		}
	}
	return listings, nil
}

// Delete removes a listing and its associations.
func (a *ListingAdapter) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return false, apperrors.NewInternalError("failed to begin listing delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listing_amenities WHERE listing_id = $1`, id); err != nil {
		return false, apperrors.NewInternalError("failed to delete listing amenities", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete listing", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read delete result", err)
	}

	if err := tx.Commit(); err != nil {
		return false, apperrors.NewInternalError("failed to commit listing delete", err)
	}
	return affected > 0, nil
}

func (a *ListingAdapter) loadAmenities(ctx context.Context, listing *entities.Listing) error {
	rows, err := a.client.DB().QueryContext(ctx,
		`SELECT amenity_id FROM listing_amenities WHERE listing_id = $1`, listing.ID)
	if err != nil {
		return apperrors.NewInternalError("failed to load listing amenities", err)
	}
	defer rows.Close()

	for rows.Next() {
		var amenityID string
		if err := rows.Scan(&amenityID); err != nil {
			return apperrors.NewInternalError("failed to scan listing amenity", err)
		}
		listing.AmenityIDs = append(listing.AmenityIDs, amenityID)
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewInternalError("failed to iterate listing amenities", err)
	}
	return nil
}

func scanListing(row rowScanner) (*entities.Listing, error) {
	listing := &entities.Listing{}
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&listing.ID,
		&listing.Name,
		&listing.Description,
		&listing.City,
		&listing.Price,
		&lat,
		&lon,
		&listing.OwnerID,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		listing.Latitude = &lat.Float64
	}
	if lon.Valid {
		listing.Longitude = &lon.Float64
	}
	return listing, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
