package fsm

import (
	"context"
	"database/sql"
	"fmt"

	"jmlastro/internal/models"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Machine is a status transition table bound to the table/column it guards.
type Machine struct {
	table       string
	column      string
	transitions map[string]map[string]struct{}
}

var Order = &Machine{
	table:  "orders",
	column: "status",
	transitions: map[string]map[string]struct{}{
		models.OrderPending:    {models.OrderConfirmed: {}, models.OrderCancelled: {}},
		models.OrderConfirmed:  {models.OrderInProgress: {}, models.OrderCompleted: {}},
		models.OrderInProgress: {models.OrderCompleted: {}},
		models.OrderCompleted:  {},
		models.OrderCancelled:  {},
	},
}

var Payment = &Machine{
	table:  "payments",
	column: "status",
	transitions: map[string]map[string]struct{}{
		models.PaymentPending: {
			models.PaymentProcessing: {},
			models.PaymentSuccess:    {},
			models.PaymentFailed:     {},
			models.PaymentCancelled:  {},
		},
		models.PaymentProcessing: {
			models.PaymentSuccess:   {},
			models.PaymentFailed:    {},
			models.PaymentCancelled: {},
		},
		models.PaymentSuccess:   {},
		models.PaymentFailed:    {},
		models.PaymentCancelled: {},
	},
}

var Consultation = &Machine{
	table:  "consultations",
	column: "status",
	transitions: map[string]map[string]struct{}{
		models.ConsultationPending:   {models.ConsultationActive: {}, models.ConsultationCancelled: {}},
		models.ConsultationActive:    {models.ConsultationCompleted: {}},
		models.ConsultationCompleted: {},
		models.ConsultationCancelled: {},
	},
}

// CanTransition returns whether a row can move from the current status to the target status.
// Staying in the same status is always allowed.
func (m *Machine) CanTransition(from, to string) bool {
	if from == to {
		_, known := m.transitions[from]
		return known
	}
	allowed, ok := m.transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Apply updates the status of row id using optimistic validation: the row
// must still be in fromStatus. sql.ErrNoRows means another writer got there first.
func (m *Machine) Apply(ctx context.Context, tx Execer, id, fromStatus, toStatus string) error {
	if !m.CanTransition(fromStatus, toStatus) {
		return fmt.Errorf("%s %s -> %s: %w", m.table, fromStatus, toStatus, models.ErrInvalidTransition)
	}
	if fromStatus == toStatus {
		return nil
	}
	query := fmt.Sprintf("UPDATE %s SET %s = ?, updated_at = NOW() WHERE id = ? AND %s = ?", m.table, m.column, m.column)
	res, err := tx.ExecContext(ctx, query, toStatus, id, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
