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

// AmenityAdapter implements amenity persistence in Postgres.
type AmenityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAmenityAdapter creates a new amenity adapter.
func NewAmenityAdapter(client *postgres.Client) repositories.AmenityRepository {
	return &AmenityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const amenityColumns = `id, name, created_at, updated_at`

// Save upserts an amenity keyed by id.
func (a *AmenityAdapter) Save(ctx context.Context, amenity *entities.Amenity) (*entities.Amenity, error) {
	if amenity.ID == "" {
		amenity.ID = uuid.New().String()
	}
	record := goqu.Record{
		"id":         amenity.ID,
		"name":       amenity.Name,
		"created_at": amenity.CreatedAt,
		"updated_at": amenity.UpdatedAt,
	}

	query, args, err := a.db.Insert("amenities").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build amenity upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to save amenity", err)
	}
	return amenity, nil
}

// GetByID retrieves an amenity by id, (nil, nil) when absent.
func (a *AmenityAdapter) GetByID(ctx context.Context, id string) (*entities.Amenity, error) {
	query := `SELECT ` + amenityColumns + ` FROM amenities WHERE id = $1`

	amenity, err := scanAmenity(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get amenity", err)
	}
	return amenity, nil
}

// List returns all amenities.
func (a *AmenityAdapter) List(ctx context.Context) ([]*entities.Amenity, error) {
	rows, err := a.client.DB().QueryContext(ctx, `SELECT `+amenityColumns+` FROM amenities`)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list amenities", err)
	}
	defer rows.Close()

	var amenities []*entities.Amenity
	for rows.Next() {
		amenity, err := scanAmenity(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan amenity", err)
		}
		amenities = append(amenities, amenity)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate amenities", err)
	}
	return amenities, nil
}

// Delete removes an amenity, reporting whether a row was deleted.
func (a *AmenityAdapter) Delete(ctx context.Context, id string) (bool, error) {
	result, err := a.client.DB().ExecContext(ctx, `DELETE FROM amenities WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete amenity", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read delete result", err)
	}
	return affected > 0, nil
}

// FindByField implements the indexed lookup capability; amenities only
// support lookup by name.
func (a *AmenityAdapter) FindByField(ctx context.Context, field, value string) (*entities.Amenity, error) {
	if field != "name" {
		return nil, apperrors.NewInternalError("amenity lookup supports only the name field", nil)
	}

	query := `SELECT ` + amenityColumns + ` FROM amenities WHERE name = $1 LIMIT 1`

	amenity, err := scanAmenity(a.client.DB().QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find amenity", err)
	}
	return amenity, nil
}

func scanAmenity(row rowScanner) (*entities.Amenity, error) {
	amenity := &entities.Amenity{}
	err := row.Scan(
		&amenity.ID,
		&amenity.Name,
		&amenity.CreatedAt,
		&amenity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return amenity, nil
}
