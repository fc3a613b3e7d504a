package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jmlastro/internal/fsm"
	"jmlastro/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentSelect = `
	SELECT id, order_id, user_id, amount, currency, payment_method, provider,
		COALESCE(bank_transaction_id, ''), COALESCE(bank_reference_id, ''), bank_response, status,
		COALESCE(failure_reason, ''), created_at, updated_at, completed_at
	FROM payments
`

func scanPayment(row rowScanner) (models.Payment, error) {
	var p models.Payment
	var completed sql.NullTime
	err := row.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Currency, &p.PaymentMethod, &p.Provider,
		&p.BankTransactionID, &p.BankReferenceID, &p.BankResponse, &p.Status,
		&p.FailureReason, &p.CreatedAt, &p.UpdatedAt, &completed)
	p.CompletedAt = timePtr(completed)
	return p, err
}

func insertPayment(ctx context.Context, db DBTX, p models.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, user_id, amount, currency, payment_method, provider, status,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		p.ID, p.OrderID, p.UserID, p.Amount, p.Currency, p.PaymentMethod, p.Provider, p.Status,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// CreatePayment inserts a pending payment and links it to its order.
func (r *PaymentRepository) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := insertPayment(ctx, tx, p); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE orders SET payment_id = ?, updated_at = NOW() WHERE id = ?`, p.ID, p.OrderID)
		return err
	})
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) GetPaymentForUser(ctx context.Context, id, userID string) (models.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx, paymentSelect+` WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	return p, err
}

// MarkProcessing records the gateway reference once the provider accepted
// the payment.
func (r *PaymentRepository) MarkProcessing(ctx context.Context, p models.Payment, providerRef string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := applyPaymentStatus(ctx, tx, p.ID, p.Status, models.PaymentProcessing); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE payments SET bank_reference_id = ? WHERE id = ?`, nullString(providerRef), p.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE orders SET payment_status = ?, updated_at = NOW() WHERE id = ? AND payment_status IN (?, ?)`,
			models.OrderPaymentProcessing, p.OrderID, models.OrderPaymentPending, models.OrderPaymentFailed)
		return err
	})
}

// MarkFailed is used when the gateway rejects initiation outright.
func (r *PaymentRepository) MarkFailed(ctx context.Context, p models.Payment, reason string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := applyPaymentStatus(ctx, tx, p.ID, p.Status, models.PaymentFailed); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE payments SET failure_reason = ? WHERE id = ?`, nullString(reason), p.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE orders SET payment_status = ?, updated_at = NOW() WHERE id = ? AND payment_status <> ?`,
			models.OrderPaymentFailed, p.OrderID, models.OrderPaymentCompleted)
		return err
	})
}

func applyPaymentStatus(ctx context.Context, tx *sql.Tx, id, from, to string) error {
	err := fsm.Payment.Apply(ctx, tx, id, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrInvalidTransition
	}
	return err
}

// ApplyWebhook settles a payment from a gateway callback. Payments owned by
// another provider are reported as not found. The payment row is
// locked so concurrent deliveries of the same event serialize; a repeat of an
// already applied status returns Changed=false without writing.
func (r *PaymentRepository) ApplyWebhook(ctx context.Context, ev models.PaymentWebhook) (models.PaymentOutcome, error) {
	var out models.PaymentOutcome
	to := models.PaymentFailed
	if ev.Status == "success" {
		to = models.PaymentSuccess
	}

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		p, err := scanPayment(tx.QueryRowContext(ctx, paymentSelect+` WHERE id = ? FOR UPDATE`, ev.PaymentID))
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrPaymentNotFound
		}
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}
		// A callback may only settle payments created through the gateway that verified it.
		if p.Provider != ev.Provider {
			return models.ErrPaymentNotFound
		}
		if !fsm.Payment.CanTransition(p.Status, to) {
			return fmt.Errorf("%w: payment %s -> %s", models.ErrInvalidTransition, p.Status, to)
		}

		o, err := scanOrder(tx.QueryRowContext(ctx, orderSelect+` WHERE id = ? FOR UPDATE`, p.OrderID))
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		if p.Status == to {
			out = models.PaymentOutcome{Payment: p, Order: o}
			return nil
		}

		if err := applyPaymentStatus(ctx, tx, p.ID, p.Status, to); err != nil {
			return err
		}
		now := time.Now().UTC()
		var completedAt sql.NullTime
		if to == models.PaymentSuccess {
			completedAt = sql.NullTime{Time: now, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE payments
			SET bank_transaction_id = ?, bank_response = ?, failure_reason = ?, completed_at = ?
			WHERE id = ?`,
			nullString(ev.BankTransactionID), ev.BankResponse, nullString(ev.FailureReason), completedAt, p.ID); err != nil {
			return err
		}

		if to == models.PaymentSuccess {
			if o.Status == models.OrderPending {
				if err := fsm.Order.Apply(ctx, tx, o.ID, o.Status, models.OrderConfirmed); err != nil {
					return err
				}
				o.Status = models.OrderConfirmed
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE orders SET payment_status = ?, payment_id = ?, updated_at = NOW() WHERE id = ?`,
				models.OrderPaymentCompleted, p.ID, o.ID); err != nil {
				return err
			}
			o.PaymentStatus = models.OrderPaymentCompleted
			o.PaymentID = &p.ID
		} else if o.PaymentStatus != models.OrderPaymentCompleted {
			if _, err := tx.ExecContext(ctx,
				`UPDATE orders SET payment_status = ?, updated_at = NOW() WHERE id = ?`,
				models.OrderPaymentFailed, o.ID); err != nil {
				return err
			}
			o.PaymentStatus = models.OrderPaymentFailed
		}

		p.Status = to
		p.BankTransactionID = ev.BankTransactionID
		p.BankResponse = ev.BankResponse
		p.FailureReason = ev.FailureReason
		p.CompletedAt = timePtr(completedAt)
		p.UpdatedAt, o.UpdatedAt = now, now
		out = models.PaymentOutcome{Payment: p, Order: o, Changed: true}
		return nil
	})
	if err != nil {
		return models.PaymentOutcome{}, err
	}
	return out, nil
}
