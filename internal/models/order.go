package models

import (
	"time"
)

const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderInProgress = "in_progress"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Order.PaymentStatus values.
const (
	OrderPaymentPending    = "pending"
	OrderPaymentProcessing = "processing"
	OrderPaymentCompleted  = "completed"
	OrderPaymentFailed     = "failed"
)

const OrderNumberPrefix = "JML"

type Order struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	BookingType     string     `json:"bookingType"`
	ServiceID       *string    `json:"serviceId,omitempty"`
	AstrologerID    *string    `json:"astrologerId,omitempty"`
	ConsultationID  *string    `json:"consultationId,omitempty"`
	OrderNumber     string     `json:"orderNumber"`
	Status          string     `json:"status"`
	TotalAmount     Money      `json:"totalAmount"`
	Currency        string     `json:"currency"`
	PaymentStatus   string     `json:"paymentStatus"`
	PaymentID       *string    `json:"paymentId,omitempty"`
	CustomerDetails RawJSON    `json:"customerDetails,omitempty"`
	Requirements    string     `json:"requirements,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	IdempotencyKey  *string    `json:"-"`
	DeliveryDate    *time.Time `json:"deliveryDate,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// OrderBundle is everything written by one order placement. Consultation and
// Payment are optional and are inserted in the same transaction as Order.
type OrderBundle struct {
	Order        Order
	Consultation *Consultation
	Payment      *Payment
}

type OrderResponse struct {
	Order        Order         `json:"order"`
	Consultation *Consultation `json:"consultation,omitempty"`
	Payment      *Payment      `json:"payment,omitempty"`
}
