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

// ReviewAdapter implements review persistence in Postgres.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter.
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const reviewColumns = `id, text, rating, author_id, listing_id, created_at, updated_at`

// Save upserts a review keyed by id.
func (a *ReviewAdapter) Save(ctx context.Context, review *entities.Review) (*entities.Review, error) {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	record := goqu.Record{
		"id":         review.ID,
		"text":       review.Text,
		"rating":     review.Rating,
		"author_id":  review.AuthorID,
		"listing_id": review.ListingID,
		"created_at": review.CreatedAt,
		"updated_at": review.UpdatedAt,
	}

	query, args, err := a.db.Insert("reviews").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to save review", err)
	}
	return review, nil
}

// GetByID retrieves a review by id, (nil, nil) when absent.
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}
	return review, nil
}

// List returns all reviews.
func (a *ReviewAdapter) List(ctx context.Context) ([]*entities.Review, error) {
	rows, err := a.client.DB().QueryContext(ctx, `SELECT `+reviewColumns+` FROM reviews`)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []*entities.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}
	return reviews, nil
}

// Delete removes a review, reporting whether a row was deleted.
func (a *ReviewAdapter) Delete(ctx context.Context, id string) (bool, error) {
	result, err := a.client.DB().ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete review", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read delete result", err)
	}
	return affected > 0, nil
}

func scanReview(row rowScanner) (*entities.Review, error) {
	review := &entities.Review{}
	err := row.Scan(
		&review.ID,
		&review.Text,
		&review.Rating,
		&review.AuthorID,
		&review.ListingID,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}
