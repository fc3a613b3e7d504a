package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"jmlastro/internal/models"
)

const stripeSignatureHeader = "Stripe-Signature"

// StripeGateway creates PaymentIntents and reads payment_intent.* webhooks.
// The local payment id travels in the intent metadata.
type StripeGateway struct {
	WebhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{WebhookSecret: webhookSecret}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) Initiate(ctx context.Context, req InitiateRequest) (InitiateResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(req.Amount)),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"payment_id":   req.PaymentID,
			"order_id":     req.OrderID,
			"order_number": req.OrderNumber,
			"user_id":      req.UserID,
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("payment-" + req.PaymentID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return InitiateResult{}, fmt.Errorf("stripe payment intent: %w", err)
	}
	return InitiateResult{
		ProviderRef:  intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// Confirm only accepts events signed with the configured endpoint secret.
func (g *StripeGateway) Confirm(payload []byte, header http.Header) (WebhookEvent, error) {
	if g.WebhookSecret == "" {
		return WebhookEvent{}, fmt.Errorf("%w: stripe webhook secret not configured", models.ErrInvalidSignature)
	}
	event, err := webhook.ConstructEvent(payload, header.Get(stripeSignatureHeader), g.WebhookSecret)
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", models.ErrInvalidSignature, err)
	}

	var status string
	switch event.Type {
	case "payment_intent.succeeded":
		status = models.PaymentSuccess
	case "payment_intent.payment_failed":
		status = models.PaymentFailed
	default:
		return WebhookEvent{Ignored: true}, nil
	}

	if event.Data == nil {
		return WebhookEvent{}, models.NewValidationError("missing event data", "data")
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return WebhookEvent{}, models.NewValidationError("invalid payment intent", "data", "object")
	}
	paymentID := pi.Metadata["payment_id"]
	if paymentID == "" {
		return WebhookEvent{}, models.NewValidationError("Required", "data", "object", "metadata", "payment_id")
	}

	ev := WebhookEvent{
		PaymentID:     paymentID,
		Status:        status,
		TransactionID: pi.ID,
		Raw:           models.RawJSON(event.Data.Raw),
	}
	if pi.LastPaymentError != nil {
		ev.FailureReason = pi.LastPaymentError.Msg
	}
	return ev, nil
}
