package repositories

import (
	"context"
	"database/sql"
	"time"

	"jmlastro/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

// CreateReview inserts the review and refreshes the astrologer's rating and
// review count in one transaction. The astrologer row stays locked until
// commit so concurrent reviews cannot lose an update.
func (r *ReviewRepository) CreateReview(ctx context.Context, rev models.Review) (models.Review, models.RatingAggregate, error) {
	var agg models.RatingAggregate
	rev.CreatedAt = time.Now().UTC()

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := lockRatingTarget(ctx, tx, astrologerRating, rev.AstrologerID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reviews WHERE user_id = ? AND consultation_id = ?`,
			rev.UserID, rev.ConsultationID).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return models.ErrAlreadyReviewed
		}

		query := `
			INSERT INTO reviews (id, user_id, astrologer_id, consultation_id, rating, comment, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query,
			rev.ID, rev.UserID, rev.AstrologerID, rev.ConsultationID, rev.Rating, nullString(rev.Comment), rev.CreatedAt,
		); err != nil {
			if isDuplicateKeyError(err) {
				return models.ErrAlreadyReviewed
			}
			return err
		}

		var err error
		agg, err = recomputeRating(ctx, tx, astrologerRating, rev.AstrologerID)
		return err
	})
	if err != nil {
		return models.Review{}, models.RatingAggregate{}, err
	}
	return rev, agg, nil
}

func (r *ReviewRepository) GetReviewsByAstrologerID(ctx context.Context, astrologerID string) ([]models.Review, error) {
	query := `
		SELECT id, user_id, astrologer_id, consultation_id, rating, COALESCE(comment, ''), created_at
		FROM reviews
		WHERE astrologer_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, astrologerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.AstrologerID, &rev.ConsultationID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

type ServiceReviewRepository struct {
	DB *sql.DB
}

// CreateServiceReview mirrors CreateReview for services: one review per order.
func (r *ServiceReviewRepository) CreateServiceReview(ctx context.Context, rev models.ServiceReview) (models.ServiceReview, models.RatingAggregate, error) {
	var agg models.RatingAggregate
	now := time.Now().UTC()
	rev.CreatedAt, rev.UpdatedAt = now, now

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := lockRatingTarget(ctx, tx, serviceRating, rev.ServiceID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM service_reviews WHERE user_id = ? AND order_id = ?`,
			rev.UserID, rev.OrderID).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return models.ErrAlreadyReviewed
		}

		query := `
			INSERT INTO service_reviews (id, order_id, user_id, service_id, rating, title, comment,
				is_verified, is_public, helpful_votes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, query,
			rev.ID, rev.OrderID, rev.UserID, rev.ServiceID, rev.Rating, nullString(rev.Title), nullString(rev.Comment),
			rev.IsVerified, rev.IsPublic, rev.CreatedAt, rev.UpdatedAt,
		); err != nil {
			if isDuplicateKeyError(err) {
				return models.ErrAlreadyReviewed
			}
			return err
		}

		var err error
		agg, err = recomputeRating(ctx, tx, serviceRating, rev.ServiceID)
		return err
	})
	if err != nil {
		return models.ServiceReview{}, models.RatingAggregate{}, err
	}
	return rev, agg, nil
}

func (r *ServiceReviewRepository) GetPublicReviewsByServiceID(ctx context.Context, serviceID string) ([]models.ServiceReview, error) {
	query := `
		SELECT id, order_id, user_id, service_id, rating, COALESCE(title, ''), COALESCE(comment, ''),
			is_verified, is_public, helpful_votes, created_at, updated_at
		FROM service_reviews
		WHERE service_id = ? AND is_public = TRUE
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.ServiceReview{}
	for rows.Next() {
		var rev models.ServiceReview
		if err := rows.Scan(&rev.ID, &rev.OrderID, &rev.UserID, &rev.ServiceID, &rev.Rating, &rev.Title, &rev.Comment,
			&rev.IsVerified, &rev.IsPublic, &rev.HelpfulVotes, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
