package models

import (
	"time"
)

const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentSuccess    = "success"
	PaymentFailed     = "failed"
	PaymentCancelled  = "cancelled"
)

type Payment struct {
	ID                  string     `json:"id"`
	OrderID             string     `json:"orderId"`
	UserID              string     `json:"userId"`
	Amount              Money      `json:"amount"`
	Currency            string     `json:"currency"`
	PaymentMethod       string     `json:"paymentMethod"`
	Provider            string     `json:"provider"`
	BankTransactionID   string     `json:"bankTransactionId,omitempty"`
	BankReferenceID     string     `json:"bankReferenceId,omitempty"`
	BankResponse        RawJSON    `json:"bankResponse,omitempty"`
	Status              string     `json:"status"`
	FailureReason       string     `json:"failureReason,omitempty"`
	RefundAmount        *Money     `json:"refundAmount,omitempty"`
	RefundStatus        string     `json:"refundStatus,omitempty"`
	RefundTransactionID string     `json:"refundTransactionId,omitempty"`
	ProcessingFee       *Money     `json:"processingFee,omitempty"`
	NetAmount           *Money     `json:"netAmount,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

type InitiatePaymentRequest struct {
	OrderID       string `json:"orderId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=upi card netbanking wallet"`
}

type InitiatePaymentResponse struct {
	PaymentID      string `json:"paymentId"`
	OrderNumber    string `json:"orderNumber"`
	Amount         Money  `json:"amount"`
	BankPaymentURL string `json:"bankPaymentUrl,omitempty"`
	QRCode         string `json:"qrCode,omitempty"`
	ClientSecret   string `json:"clientSecret,omitempty"`
	Message        string `json:"message"`
}

// PaymentWebhook is the mock bank callback body.
type PaymentWebhook struct {
	PaymentID         string  `json:"paymentId" validate:"required"`
	Status            string  `json:"status" validate:"required,oneof=success failed"`
	BankTransactionID string  `json:"bankTransactionId"`
	BankResponse      RawJSON `json:"bankResponse"`
	FailureReason     string  `json:"failureReason"`
	// Provider is the gateway that verified the callback; set by the server.
	Provider string `json:"-"`
}

// PaymentOutcome is what applying a webhook changed.
type PaymentOutcome struct {
	Payment Payment
	Order   Order
	Changed bool
}

type PaymentStatusResponse struct {
	Status        string    `json:"status"`
	Amount        Money     `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}
