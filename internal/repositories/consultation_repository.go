package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jmlastro/internal/fsm"
	"jmlastro/internal/models"
)

type ConsultationRepository struct {
	DB *sql.DB
}

const consultationSelect = `
	SELECT id, user_id, astrologer_id, type, duration, price, status, COALESCE(topic, ''),
		scheduled_at, started_at, ended_at, created_at, updated_at
	FROM consultations
`

func scanConsultation(row rowScanner) (models.Consultation, error) {
	var c models.Consultation
	var scheduled, started, ended sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &c.AstrologerID, &c.Type, &c.Duration, &c.Price, &c.Status, &c.Topic,
		&scheduled, &started, &ended, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.ScheduledAt, c.StartedAt, c.EndedAt = timePtr(scheduled), timePtr(started), timePtr(ended)
	return c, nil
}

func insertConsultation(ctx context.Context, db DBTX, c models.Consultation) error {
	query := `
		INSERT INTO consultations (id, user_id, astrologer_id, type, duration, price, status, topic,
			scheduled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		c.ID, c.UserID, c.AstrologerID, c.Type, c.Duration, c.Price, c.Status, nullString(c.Topic),
		c.ScheduledAt, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *ConsultationRepository) CreateConsultation(ctx context.Context, c models.Consultation) (models.Consultation, error) {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := insertConsultation(ctx, r.DB, c); err != nil {
		if isForeignKeyConstraintError(err) {
			return models.Consultation{}, models.NewValidationError("astrologer does not exist", "astrologerId")
		}
		return models.Consultation{}, err
	}
	return c, nil
}

func (r *ConsultationRepository) GetConsultationByID(ctx context.Context, id string) (models.Consultation, error) {
	c, err := scanConsultation(r.DB.QueryRowContext(ctx, consultationSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Consultation{}, models.ErrConsultationNotFound
	}
	return c, err
}

func (r *ConsultationRepository) GetConsultationsByUserID(ctx context.Context, userID string) ([]models.Consultation, error) {
	rows, err := r.DB.QueryContext(ctx, consultationSelect+` WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	consultations := []models.Consultation{}
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, c)
	}
	return consultations, rows.Err()
}

// UpdateStatus moves a consultation through its state machine and stamps
// started_at / ended_at on the way.
func (r *ConsultationRepository) UpdateStatus(ctx context.Context, c models.Consultation, to string) (models.Consultation, error) {
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := fsm.Consultation.Apply(ctx, tx, c.ID, c.Status, to); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrInvalidTransition
			}
			return err
		}
		switch to {
		case models.ConsultationActive:
			_, err := tx.ExecContext(ctx, `UPDATE consultations SET started_at = NOW() WHERE id = ?`, c.ID)
			return err
		case models.ConsultationCompleted, models.ConsultationCancelled:
			_, err := tx.ExecContext(ctx, `UPDATE consultations SET ended_at = NOW() WHERE id = ?`, c.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Consultation{}, err
	}
	return r.GetConsultationByID(ctx, c.ID)
}
