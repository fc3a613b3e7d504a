package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"jmlastro/internal/models"
)

const SignatureHeader = "X-Signature"

// MockGateway simulates the partner bank: initiation waits a fixed delay and
// returns a redirect URL plus a UPI payload; the bank reports back through
// the signed JSON webhook.
type MockGateway struct {
	Delay         time.Duration
	RedirectBase  string
	PayeeID       string
	PayeeName     string
	WebhookSecret string
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) Initiate(ctx context.Context, req InitiateRequest) (InitiateResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return InitiateResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	return InitiateResult{
		RedirectURL: g.RedirectBase + "?paymentId=" + url.QueryEscape(req.PaymentID),
		QRPayload:   UPIURI(g.PayeeID, g.PayeeName, req.Amount, req.Currency, req.OrderNumber),
		ProviderRef: "MOCK" + req.PaymentID,
	}, nil
}

// Confirm verifies X-Signature when a webhook secret is configured and decodes the body.
func (g *MockGateway) Confirm(payload []byte, header http.Header) (WebhookEvent, error) {
	if g.WebhookSecret != "" && !VerifyHMAC(payload, header.Get(SignatureHeader), g.WebhookSecret) {
		return WebhookEvent{}, models.ErrInvalidSignature
	}

	var body models.PaymentWebhook
	if err := json.Unmarshal(payload, &body); err != nil {
		return WebhookEvent{}, models.NewValidationError("invalid JSON body", "body")
	}
	if err := models.Validate(body); err != nil {
		return WebhookEvent{}, err
	}

	return WebhookEvent{
		PaymentID:     body.PaymentID,
		Status:        body.Status,
		TransactionID: body.BankTransactionID,
		FailureReason: body.FailureReason,
		Raw:           body.BankResponse,
	}, nil
}
