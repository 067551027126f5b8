package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/sqlerr"
)

const reviewsTable = "reviews"

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) CreateReview(ctx context.Context, review *model.Review) (*model.Review, error) {
	stmt := `
		INSERT INTO reviews (customer_id, appointment_id, rating, comment, created_by)
		VALUES (@customer_id, @appointment_id, @rating, @comment, @created_by)
		RETURNING *
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"customer_id":    review.CustomerID,
		"appointment_id": review.AppointmentID,
		"rating":         review.Rating,
		"comment":        review.Comment,
		"created_by":     review.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create review query: %w", err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return nil, sqlerr.WithTable(fmt.Errorf("failed to collect created review: %w", err), reviewsTable)
	}

	return &created, nil
}

func (r *ReviewRepository) GetReviewByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM reviews WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get review query: %w", err)
	}

	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return nil, sqlerr.WithTable(fmt.Errorf("failed to collect review %s: %w", id, err), reviewsTable)
	}

	return &review, nil
}

// UpdateReview replaces the editable fields of review.
func (r *ReviewRepository) UpdateReview(ctx context.Context, review *model.Review) (*model.Review, error) {
	stmt := `
		UPDATE reviews
		SET appointment_id = @appointment_id,
			rating = @rating,
			comment = @comment,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = @id
		RETURNING *
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":             review.ID,
		"appointment_id": review.AppointmentID,
		"rating":         review.Rating,
		"comment":        review.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update review query: %w", err)
	}

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return nil, sqlerr.WithTable(fmt.Errorf("failed to collect updated review: %w", err), reviewsTable)
	}

	return &updated, nil
}
