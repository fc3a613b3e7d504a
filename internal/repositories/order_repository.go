package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"jmlastro/internal/fsm"
	"jmlastro/internal/models"
)

type OrderRepository struct {
	DB *sql.DB
}

const orderSelect = `
	SELECT id, user_id, booking_type, service_id, astrologer_id, consultation_id, order_number, status,
		total_amount, currency, payment_status, payment_id, customer_details, COALESCE(requirements, ''),
		COALESCE(notes, ''), idempotency_key, delivery_date, completed_at, created_at, updated_at
	FROM orders
`

func scanOrder(row rowScanner) (models.Order, error) {
	var o models.Order
	var serviceID, astrologerID, consultationID, paymentID, idemKey sql.NullString
	var delivery, completed sql.NullTime
	err := row.Scan(&o.ID, &o.UserID, &o.BookingType, &serviceID, &astrologerID, &consultationID, &o.OrderNumber, &o.Status,
		&o.TotalAmount, &o.Currency, &o.PaymentStatus, &paymentID, &o.CustomerDetails, &o.Requirements,
		&o.Notes, &idemKey, &delivery, &completed, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.ServiceID, o.AstrologerID, o.ConsultationID = stringPtr(serviceID), stringPtr(astrologerID), stringPtr(consultationID)
	o.PaymentID, o.IdempotencyKey = stringPtr(paymentID), stringPtr(idemKey)
	o.DeliveryDate, o.CompletedAt = timePtr(delivery), timePtr(completed)
	return o, nil
}

func insertOrder(ctx context.Context, db DBTX, o models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, booking_type, service_id, astrologer_id, consultation_id, order_number,
			status, total_amount, currency, payment_status, payment_id, customer_details, requirements, notes,
			idempotency_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		o.ID, o.UserID, o.BookingType, nullStringPtr(o.ServiceID), nullStringPtr(o.AstrologerID),
		nullStringPtr(o.ConsultationID), o.OrderNumber, o.Status, o.TotalAmount, o.Currency, o.PaymentStatus,
		nullStringPtr(o.PaymentID), o.CustomerDetails, nullString(o.Requirements), nullString(o.Notes),
		nullStringPtr(o.IdempotencyKey), o.CreatedAt, o.UpdatedAt,
	)
	return err
}

// classifyOrderInsertError maps unique and foreign key violations on orders.
func classifyOrderInsertError(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}
	switch mysqlErr.Number {
	case 1062:
		if strings.Contains(mysqlErr.Message, "idempotency") {
			return models.ErrIdempotencyReplay
		}
		if strings.Contains(mysqlErr.Message, "order_number") {
			return models.ErrDuplicateOrderNumber
		}
	case 1452:
		return models.NewValidationError("referenced record does not exist", "bookingType")
	}
	return err
}

// CreateOrder writes the order together with its optional consultation and
// payment rows. Either all rows are committed or none.
func (r *OrderRepository) CreateOrder(ctx context.Context, b models.OrderBundle) (models.OrderBundle, error) {
	now := time.Now().UTC()
	b.Order.CreatedAt, b.Order.UpdatedAt = now, now
	if b.Consultation != nil {
		b.Consultation.CreatedAt, b.Consultation.UpdatedAt = now, now
	}
	if b.Payment != nil {
		b.Payment.CreatedAt, b.Payment.UpdatedAt = now, now
	}

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if b.Consultation != nil {
			if err := insertConsultation(ctx, tx, *b.Consultation); err != nil {
				return classifyOrderInsertError(err)
			}
		}
		if err := insertOrder(ctx, tx, b.Order); err != nil {
			return classifyOrderInsertError(err)
		}
		if b.Payment != nil {
			if err := insertPayment(ctx, tx, *b.Payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.OrderBundle{}, err
	}
	return b, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (models.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, models.ErrOrderNotFound
	}
	return o, err
}

// GetOrderForUser hides orders of other users behind ErrOrderNotFound.
func (r *OrderRepository) GetOrderForUser(ctx context.Context, id, userID string) (models.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, models.ErrOrderNotFound
	}
	return o, err
}

func (r *OrderRepository) GetOrderByIdempotencyKey(ctx context.Context, userID, key string) (models.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE user_id = ? AND idempotency_key = ?`, userID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, models.ErrOrderNotFound
	}
	return o, err
}

func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := r.DB.QueryContext(ctx, orderSelect+` WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CancelOrder moves a pending order to cancelled.
func (r *OrderRepository) CancelOrder(ctx context.Context, o models.Order) (models.Order, error) {
	err := fsm.Order.Apply(ctx, r.DB, o.ID, o.Status, models.OrderCancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, models.ErrInvalidTransition
	}
	if err != nil {
		return models.Order{}, err
	}
	return r.GetOrderByID(ctx, o.ID)
}

func (r *OrderRepository) GetDeliverables(ctx context.Context, orderID string) ([]models.Deliverable, error) {
	query := `
		SELECT id, order_id, type, title, COALESCE(description, ''), COALESCE(content, ''), file_urls,
			COALESCE(access_url, ''), valid_until, download_count, is_delivered, delivered_at, created_at
		FROM service_deliverables
		WHERE order_id = ?
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliverables := []models.Deliverable{}
	for rows.Next() {
		var d models.Deliverable
		var validUntil, deliveredAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Type, &d.Title, &d.Description, &d.Content, &d.FileURLs,
			&d.AccessURL, &validUntil, &d.DownloadCount, &d.IsDelivered, &deliveredAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.ValidUntil, d.DeliveredAt = timePtr(validUntil), timePtr(deliveredAt)
		deliverables = append(deliverables, d)
	}
	return deliverables, rows.Err()
}
