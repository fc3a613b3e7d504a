// Package payment abstracts the external payment provider behind Gateway.
package payment

import (
	"context"
	"net/http"

	"jmlastro/internal/models"
)

// Gateway starts payments and turns provider callbacks into events.
type Gateway interface {
	Name() string
	Initiate(ctx context.Context, req InitiateRequest) (InitiateResult, error)
	// Confirm authenticates and decodes a provider callback.
	Confirm(payload []byte, header http.Header) (WebhookEvent, error)
}

type InitiateRequest struct {
	PaymentID   string
	OrderID     string
	OrderNumber string
	UserID      string
	Amount      models.Money
	Currency    string
	Method      string
	Description string
}

type InitiateResult struct {
	RedirectURL  string
	QRPayload    string
	ProviderRef  string
	ClientSecret string
}

// WebhookEvent is a provider-neutral payment outcome. Ignored is set for
// callbacks that carry no outcome (for example unrelated Stripe events).
type WebhookEvent struct {
	PaymentID     string
	Status        string
	TransactionID string
	FailureReason string
	Raw           models.RawJSON
	Ignored       bool
}
