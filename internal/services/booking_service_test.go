package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmlastro/internal/models"
)

type memDrafts struct {
	drafts map[string]models.BookingDraft
}

func (m *memDrafts) Save(_ context.Context, d models.BookingDraft) (models.BookingDraft, error) {
	m.drafts[d.UserID] = d
	return d, nil
}

func (m *memDrafts) Get(_ context.Context, userID string) (models.BookingDraft, error) {
	d, ok := m.drafts[userID]
	if !ok {
		return models.BookingDraft{}, models.ErrDraftNotFound
	}
	return d, nil
}

func (m *memDrafts) Delete(_ context.Context, userID string) error {
	delete(m.drafts, userID)
	return nil
}

func newBookingFixture() (*BookingService, *memDrafts, *paymentFixture) {
	pf := newPaymentFixture()
	orders := newOrderService(pf.orders)
	drafts := &memDrafts{drafts: map[string]models.BookingDraft{}}
	return &BookingService{DraftRepo: drafts, Orders: orders, Payments: pf.svc}, drafts, pf
}

func TestSaveDraftStoresServerQuote(t *testing.T) {
	svc, drafts, _ := newBookingFixture()

	d, err := svc.SaveDraft(context.Background(), "u1", consultationBooking(nil))
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, models.NewMoney(300), d.Quote.Amount)
	assert.Contains(t, drafts.drafts, "u1")

	replaced, err := svc.SaveDraft(context.Background(), "u1", models.BookingRequest{
		BookingType: models.BookingDonation,
		Donation:    &models.DonationBooking{Amount: models.NewMoney(51)},
	})
	require.NoError(t, err)
	assert.Equal(t, replaced.ID, drafts.drafts["u1"].ID)
	assert.Len(t, drafts.drafts, 1)
}

func TestSaveDraftRejectsInvalidBooking(t *testing.T) {
	svc, drafts, _ := newBookingFixture()

	_, err := svc.SaveDraft(context.Background(), "u1", models.BookingRequest{
		BookingType:  models.BookingConsultation,
		Consultation: &models.ConsultationBooking{AstrologerID: "a1", ConsultationType: "smoke", Duration: 20},
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, drafts.drafts)
}

func TestCheckoutPlacesOrderInitiatesPaymentAndClearsDraft(t *testing.T) {
	svc, drafts, pf := newBookingFixture()
	d, err := svc.SaveDraft(context.Background(), "u1", consultationBooking(nil))
	require.NoError(t, err)

	res, err := svc.Checkout(context.Background(), "u1", models.CheckoutRequest{PaymentMethod: "upi"})
	require.NoError(t, err)

	assert.Equal(t, models.NewMoney(300), res.Order.TotalAmount)
	require.NotNil(t, res.Order.IdempotencyKey)
	assert.Equal(t, "draft:"+d.ID, *res.Order.IdempotencyKey)
	assert.Equal(t, res.Order.ID, pf.payments.created[0].OrderID)
	assert.NotEmpty(t, res.Payment.PaymentID)
	assert.Empty(t, drafts.drafts)
}

func TestCheckoutWithoutDraft(t *testing.T) {
	svc, _, _ := newBookingFixture()
	_, err := svc.Checkout(context.Background(), "u1", models.CheckoutRequest{PaymentMethod: "upi"})
	assert.ErrorIs(t, err, models.ErrDraftNotFound)
}

func TestCheckoutRetryReusesOrder(t *testing.T) {
	svc, drafts, pf := newBookingFixture()
	_, err := svc.SaveDraft(context.Background(), "u1", consultationBooking(nil))
	require.NoError(t, err)
	saved := drafts.drafts["u1"]

	pf.gateway.err = assert.AnError
	_, err = svc.Checkout(context.Background(), "u1", models.CheckoutRequest{PaymentMethod: "upi"})
	require.ErrorIs(t, err, models.ErrGateway)
	assert.Contains(t, drafts.drafts, "u1")

	pf.gateway.err = nil
	drafts.drafts["u1"] = saved
	_, err = svc.Checkout(context.Background(), "u1", models.CheckoutRequest{PaymentMethod: "upi"})
	require.NoError(t, err)
	assert.Len(t, pf.orders.bundles, 1)
	assert.Len(t, pf.payments.created, 2)
}
