package fsm

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"jmlastro/internal/models"
)

func TestOrderTransitions(t *testing.T) {
	if !Order.CanTransition(models.OrderPending, models.OrderConfirmed) {
		t.Fatal("expected pending -> confirmed to be allowed")
	}
	if !Order.CanTransition(models.OrderConfirmed, models.OrderCompleted) {
		t.Fatal("expected confirmed -> completed to be allowed")
	}
	if !Order.CanTransition(models.OrderPending, models.OrderCancelled) {
		t.Fatal("expected pending -> cancelled to be allowed")
	}
	if Order.CanTransition(models.OrderConfirmed, models.OrderCancelled) {
		t.Fatal("cancel is only allowed from pending")
	}
	if Order.CanTransition(models.OrderPending, models.OrderCompleted) {
		t.Fatal("unexpected pending -> completed")
	}
	if Order.CanTransition("shipped", "shipped") {
		t.Fatal("unknown statuses must not be accepted")
	}
}

func TestPaymentTransitions(t *testing.T) {
	if !Payment.CanTransition(models.PaymentPending, models.PaymentProcessing) {
		t.Fatal("expected pending -> processing to be allowed")
	}
	if !Payment.CanTransition(models.PaymentProcessing, models.PaymentSuccess) {
		t.Fatal("expected processing -> success to be allowed")
	}
	if !Payment.CanTransition(models.PaymentSuccess, models.PaymentSuccess) {
		t.Fatal("repeated success must be a no-op")
	}
	if Payment.CanTransition(models.PaymentSuccess, models.PaymentFailed) {
		t.Fatal("success is terminal")
	}
	if Payment.CanTransition(models.PaymentFailed, models.PaymentProcessing) {
		t.Fatal("failed is terminal")
	}
}

func TestConsultationTransitions(t *testing.T) {
	if !Consultation.CanTransition(models.ConsultationPending, models.ConsultationActive) {
		t.Fatal("expected pending -> active to be allowed")
	}
	if Consultation.CanTransition(models.ConsultationActive, models.ConsultationCancelled) {
		t.Fatal("cancel is only allowed from pending")
	}
}

func TestApply(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE orders SET status = \?, updated_at = NOW\(\) WHERE id = \? AND status = \?`).
		WithArgs(models.OrderConfirmed, "o1", models.OrderPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(models.OrderConfirmed, "o2", models.OrderPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := Order.Apply(ctx, db, "o1", models.OrderPending, models.OrderConfirmed); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := Order.Apply(ctx, db, "o2", models.OrderPending, models.OrderConfirmed); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for a stale status, got %v", err)
	}
	if err := Order.Apply(ctx, db, "o3", models.OrderCompleted, models.OrderPending); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
