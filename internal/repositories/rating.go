package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"jmlastro/internal/models"
)

// ratingTarget names the row that carries a denormalized rating and the
// review table feeding it.
type ratingTarget struct {
	table       string
	reviewTable string
	fkColumn    string
	notFound    error
}

var (
	astrologerRating = ratingTarget{table: "astrologers", reviewTable: "reviews", fkColumn: "astrologer_id", notFound: models.ErrAstrologerNotFound}
	serviceRating    = ratingTarget{table: "services", reviewTable: "service_reviews", fkColumn: "service_id", notFound: models.ErrServiceNotFound}
)

// computeAggregate returns the mean rounded to two decimals and the count.
func computeAggregate(ratings []int) models.RatingAggregate {
	if len(ratings) == 0 {
		return models.RatingAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return models.RatingAggregate{Rating: math.Round(mean*100) / 100, Count: len(ratings)}
}

// lockRatingTarget takes the row lock that serializes aggregate updates for id.
func lockRatingTarget(ctx context.Context, tx *sql.Tx, t ratingTarget, id string) error {
	var locked string
	err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT id FROM %s WHERE id = ? FOR UPDATE", t.table), id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return t.notFound
	}
	return err
}

// recomputeRating re-reads every rating for id and writes mean and count
// back. Must run in the transaction holding the lock from lockRatingTarget.
func recomputeRating(ctx context.Context, tx *sql.Tx, t ratingTarget, id string) (models.RatingAggregate, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("SELECT rating FROM %s WHERE %s = ?", t.reviewTable, t.fkColumn), id)
	if err != nil {
		return models.RatingAggregate{}, err
	}
	var ratings []int
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			rows.Close()
			return models.RatingAggregate{}, err
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return models.RatingAggregate{}, err
	}
	rows.Close()

	agg := computeAggregate(ratings)
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET rating = ?, review_count = ?, updated_at = NOW() WHERE id = ?", t.table),
		agg.Rating, agg.Count, id)
	if err != nil {
		return models.RatingAggregate{}, err
	}
	return agg, nil
}
