package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"jmlastro/internal/models"
)

func newMock() *MockGateway {
	return &MockGateway{
		RedirectBase:  "/api/payments/mock-bank-redirect",
		PayeeID:       "merchant@jmlastro",
		PayeeName:     "JML Astro",
		WebhookSecret: "whsec_test",
	}
}

func TestUPIURI(t *testing.T) {
	uri := UPIURI("merchant@jmlastro", "JML Astro", models.Money(30000), "INR", "JML1700000000000")
	assert.Equal(t, "upi://pay?pa=merchant@jmlastro&pn=JML%20Astro&am=300.00&cu=INR&tn=JML1700000000000", uri)
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("upi://pay?pa=merchant@jmlastro")
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestMockInitiate(t *testing.T) {
	g := newMock()
	res, err := g.Initiate(context.Background(), InitiateRequest{
		PaymentID:   "p1",
		OrderNumber: "JML1",
		Amount:      models.Money(45000),
		Currency:    "INR",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/payments/mock-bank-redirect?paymentId=p1", res.RedirectURL)
	assert.Contains(t, res.QRPayload, "am=450.00")
	assert.Contains(t, res.QRPayload, "tn=JML1")
}

func TestMockInitiateHonoursCancellation(t *testing.T) {
	g := newMock()
	g.Delay = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Initiate(ctx, InitiateRequest{PaymentID: "p1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockConfirm(t *testing.T) {
	g := newMock()
	body := []byte(`{"paymentId":"p1","status":"success"}`)

	t.Run("valid signature", func(t *testing.T) {
		h := http.Header{}
		h.Set(SignatureHeader, Sign(body, g.WebhookSecret))
		ev, err := g.Confirm(body, h)
		require.NoError(t, err)
		assert.Equal(t, "p1", ev.PaymentID)
		assert.Equal(t, models.PaymentSuccess, ev.Status)
	})

	t.Run("bad signature", func(t *testing.T) {
		h := http.Header{}
		h.Set(SignatureHeader, "deadbeef")
		_, err := g.Confirm(body, h)
		assert.ErrorIs(t, err, models.ErrInvalidSignature)
	})

	t.Run("unknown status", func(t *testing.T) {
		g := newMock()
		g.WebhookSecret = ""
		_, err := g.Confirm([]byte(`{"paymentId":"p1","status":"maybe"}`), http.Header{})
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"status"}, verr.Fields[0].Path)
	})
}

const testStripeSecret = "whsec_stripe_test"

func signedStripeHeader(payload string) http.Header {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testStripeSecret,
	})
	h := http.Header{}
	h.Set(stripeSignatureHeader, signed.Header)
	return h
}

func stripeEvent(kind, object string) string {
	return fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, kind, object)
}

func TestStripeConfirmIgnoresUnrelatedEvents(t *testing.T) {
	g := &StripeGateway{WebhookSecret: testStripeSecret}
	payload := stripeEvent("customer.created", `{}`)
	ev, err := g.Confirm([]byte(payload), signedStripeHeader(payload))
	require.NoError(t, err)
	assert.True(t, ev.Ignored)
}

func TestStripeConfirmReadsPaymentIntent(t *testing.T) {
	g := &StripeGateway{WebhookSecret: testStripeSecret}
	payload := stripeEvent("payment_intent.succeeded",
		`{"id":"pi_123","object":"payment_intent","metadata":{"payment_id":"p9"}}`)
	ev, err := g.Confirm([]byte(payload), signedStripeHeader(payload))
	require.NoError(t, err)
	assert.Equal(t, "p9", ev.PaymentID)
	assert.Equal(t, models.PaymentSuccess, ev.Status)
	assert.Equal(t, "pi_123", ev.TransactionID)
}

func TestStripeConfirmRejectsUnsignedEvents(t *testing.T) {
	payload := stripeEvent("payment_intent.succeeded",
		`{"id":"pi_123","object":"payment_intent","metadata":{"payment_id":"p9"}}`)

	_, err := (&StripeGateway{}).Confirm([]byte(payload), http.Header{})
	assert.ErrorIs(t, err, models.ErrInvalidSignature)

	_, err = (&StripeGateway{WebhookSecret: testStripeSecret}).Confirm([]byte(payload), http.Header{})
	assert.ErrorIs(t, err, models.ErrInvalidSignature)

	forged := http.Header{}
	forged.Set(stripeSignatureHeader, signedStripeHeader(`{"other":"body"}`).Get(stripeSignatureHeader))
	_, err = (&StripeGateway{WebhookSecret: testStripeSecret}).Confirm([]byte(payload), forged)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)
}
