package services

import (
	"context"

	"github.com/google/uuid"

	"jmlastro/internal/models"
)

type DraftStore interface {
	Save(ctx context.Context, d models.BookingDraft) (models.BookingDraft, error)
	Get(ctx context.Context, userID string) (models.BookingDraft, error)
	Delete(ctx context.Context, userID string) error
}

type OrderPlacer interface {
	Quote(ctx context.Context, b models.BookingRequest) (models.Quote, error)
	PlaceOrder(ctx context.Context, userID string, b models.BookingRequest, idemKey string) (models.OrderResponse, bool, error)
}

type PaymentInitiator interface {
	Initiate(ctx context.Context, userID string, req models.InitiatePaymentRequest) (models.InitiatePaymentResponse, error)
}

// BookingService holds one pending booking per user until checkout.
type BookingService struct {
	DraftRepo DraftStore
	Orders    OrderPlacer
	Payments  PaymentInitiator
}

func (s *BookingService) SaveDraft(ctx context.Context, userID string, b models.BookingRequest) (models.BookingDraft, error) {
	if err := b.Validate(); err != nil {
		return models.BookingDraft{}, err
	}
	q, err := s.Orders.Quote(ctx, b)
	if err != nil {
		return models.BookingDraft{}, err
	}
	return s.DraftRepo.Save(ctx, models.BookingDraft{
		ID:      uuid.NewString(),
		UserID:  userID,
		Booking: b,
		Quote:   q,
	})
}

func (s *BookingService) GetDraft(ctx context.Context, userID string) (models.BookingDraft, error) {
	return s.DraftRepo.Get(ctx, userID)
}

func (s *BookingService) DiscardDraft(ctx context.Context, userID string) error {
	return s.DraftRepo.Delete(ctx, userID)
}

// Checkout turns the draft into an order and starts its payment. The draft id
// doubles as idempotency key, so retrying a checkout never creates a second
// order. The draft is removed once the payment has been handed to the gateway.
func (s *BookingService) Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (models.CheckoutResponse, error) {
	if err := models.Validate(req); err != nil {
		return models.CheckoutResponse{}, err
	}
	draft, err := s.DraftRepo.Get(ctx, userID)
	if err != nil {
		return models.CheckoutResponse{}, err
	}

	booking := draft.Booking
	booking.PaymentMethod = ""
	placed, _, err := s.Orders.PlaceOrder(ctx, userID, booking, "draft:"+draft.ID)
	if err != nil {
		return models.CheckoutResponse{}, err
	}

	pay, err := s.Payments.Initiate(ctx, userID, models.InitiatePaymentRequest{
		OrderID:       placed.Order.ID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return models.CheckoutResponse{}, err
	}

	if err := s.DraftRepo.Delete(ctx, userID); err != nil {
		return models.CheckoutResponse{}, err
	}
	return models.CheckoutResponse{Order: placed.Order, Payment: pay}, nil
}
