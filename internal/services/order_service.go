package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"jmlastro/internal/models"
)

const orderNumberAttempts = 3

type OrderStore interface {
	CreateOrder(ctx context.Context, b models.OrderBundle) (models.OrderBundle, error)
	GetOrderForUser(ctx context.Context, id, userID string) (models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, userID, key string) (models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	CancelOrder(ctx context.Context, o models.Order) (models.Order, error)
	GetDeliverables(ctx context.Context, orderID string) ([]models.Deliverable, error)
}

type ServiceGetter interface {
	GetServiceByID(ctx context.Context, id string) (models.Service, error)
}

type OrderService struct {
	OrderRepo      OrderStore
	AstrologerRepo AstrologerGetter
	ServiceRepo    ServiceGetter
	Currency       string
	// Provider is recorded on payments created together with an order.
	Provider string
	Now      func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func orderNumber(t time.Time) string {
	return models.OrderNumberPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// Quote prices a booking from server-side data only.
func (s *OrderService) Quote(ctx context.Context, b models.BookingRequest) (models.Quote, error) {
	switch b.BookingType {
	case models.BookingConsultation:
		c := b.Consultation
		a, price, err := consultationQuote(ctx, s.AstrologerRepo, c.AstrologerID, c.Duration, c.TotalPrice, "totalPrice")
		if err != nil {
			return models.Quote{}, err
		}
		ppm := a.PricePerMinute
		return models.Quote{
			Description:    fmt.Sprintf("%d min %s consultation with %s", c.Duration, c.ConsultationType, a.Name),
			AstrologerName: a.Name,
			PricePerMinute: &ppm,
			Duration:       c.Duration,
			Amount:         price,
			Currency:       s.Currency,
		}, nil
	case models.BookingService:
		svc, err := s.ServiceRepo.GetServiceByID(ctx, b.Service.ServiceID)
		if errors.Is(err, models.ErrServiceNotFound) {
			return models.Quote{}, models.NewValidationError("service does not exist", "serviceId")
		}
		if err != nil {
			return models.Quote{}, err
		}
		if id := b.Service.AstrologerID; id != "" {
			if _, err := s.AstrologerRepo.GetAstrologerByID(ctx, id); err != nil {
				if errors.Is(err, models.ErrAstrologerNotFound) {
					return models.Quote{}, models.NewValidationError("astrologer does not exist", "astrologerId")
				}
				return models.Quote{}, err
			}
		}
		currency := svc.Currency
		if currency == "" {
			currency = s.Currency
		}
		return models.Quote{
			Description: svc.Name,
			ServiceName: svc.Name,
			Amount:      svc.Price,
			Currency:    currency,
		}, nil
	case models.BookingDonation:
		return models.Quote{
			Description: "Donation",
			Amount:      b.Donation.Amount,
			Currency:    s.Currency,
		}, nil
	}
	return models.Quote{}, models.NewValidationError("unknown booking type", "bookingType")
}

// bundle builds every row an order placement writes.
func (s *OrderService) bundle(userID string, b models.BookingRequest, q models.Quote, idemKey string) models.OrderBundle {
	o := models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		BookingType:   b.BookingType,
		Status:        models.OrderPending,
		TotalAmount:   q.Amount,
		Currency:      q.Currency,
		PaymentStatus: models.OrderPaymentPending,
	}
	if idemKey != "" {
		o.IdempotencyKey = &idemKey
	}

	var bundle models.OrderBundle
	switch b.BookingType {
	case models.BookingConsultation:
		c := b.Consultation
		consultation := models.Consultation{
			ID:           uuid.NewString(),
			UserID:       userID,
			AstrologerID: c.AstrologerID,
			Type:         c.ConsultationType,
			Duration:     c.Duration,
			Price:        q.Amount,
			Status:       models.ConsultationPending,
			Topic:        c.Topic,
			ScheduledAt:  c.ScheduledAt,
		}
		o.AstrologerID = &consultation.AstrologerID
		o.ConsultationID = &consultation.ID
		o.Notes = c.Topic
		bundle.Consultation = &consultation
	case models.BookingService:
		svc := b.Service
		o.ServiceID = &svc.ServiceID
		if svc.AstrologerID != "" {
			o.AstrologerID = &svc.AstrologerID
		}
		o.Requirements = svc.Requirements
		o.Notes = svc.Notes
		o.CustomerDetails = svc.CustomerDetails
	case models.BookingDonation:
		o.Notes = b.Donation.Message
	}

	if b.PaymentMethod != "" {
		p := models.Payment{
			ID:            uuid.NewString(),
			OrderID:       o.ID,
			UserID:        userID,
			Amount:        o.TotalAmount,
			Currency:      o.Currency,
			PaymentMethod: b.PaymentMethod,
			Provider:      s.Provider,
			Status:        models.PaymentPending,
		}
		o.PaymentID = &p.ID
		bundle.Payment = &p
	}
	bundle.Order = o
	return bundle
}

// maxIdempotencyKeyLen matches orders.idempotency_key VARCHAR(100).
const maxIdempotencyKeyLen = 100

// PlaceOrder validates and prices the booking and writes the order with its
// consultation and payment rows. A repeated idempotency key returns the
// order created first and created=false.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, b models.BookingRequest, idemKey string) (models.OrderResponse, bool, error) {
	if err := b.Validate(); err != nil {
		return models.OrderResponse{}, false, err
	}
	idemKey = strings.TrimSpace(idemKey)
	if utf8.RuneCountInString(idemKey) > maxIdempotencyKeyLen {
		return models.OrderResponse{}, false, models.NewValidationError(
			fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLen), "Idempotency-Key")
	}
	if idemKey != "" {
		existing, err := s.OrderRepo.GetOrderByIdempotencyKey(ctx, userID, idemKey)
		if err == nil {
			return models.OrderResponse{Order: existing}, false, nil
		}
		if !errors.Is(err, models.ErrOrderNotFound) {
			return models.OrderResponse{}, false, err
		}
	}

	q, err := s.Quote(ctx, b)
	if err != nil {
		return models.OrderResponse{}, false, err
	}

	bundle := s.bundle(userID, b, q, idemKey)
	start := s.now()
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		bundle.Order.OrderNumber = orderNumber(start.Add(time.Duration(attempt) * time.Millisecond))
		created, err := s.OrderRepo.CreateOrder(ctx, bundle)
		switch {
		case err == nil:
			return models.OrderResponse{
				Order:        created.Order,
				Consultation: created.Consultation,
				Payment:      created.Payment,
			}, true, nil
		case errors.Is(err, models.ErrDuplicateOrderNumber):
			continue
		case errors.Is(err, models.ErrIdempotencyReplay):
			existing, err := s.OrderRepo.GetOrderByIdempotencyKey(ctx, userID, idemKey)
			if err != nil {
				return models.OrderResponse{}, false, err
			}
			return models.OrderResponse{Order: existing}, false, nil
		default:
			return models.OrderResponse{}, false, err
		}
	}
	return models.OrderResponse{}, false, fmt.Errorf("%w after %d attempts", models.ErrDuplicateOrderNumber, orderNumberAttempts)
}

func (s *OrderService) GetOrder(ctx context.Context, userID, id string) (models.Order, error) {
	return s.OrderRepo.GetOrderForUser(ctx, id, userID)
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.OrderRepo.GetOrdersByUserID(ctx, userID)
}

// CancelOrder is allowed while the order is pending and unpaid.
func (s *OrderService) CancelOrder(ctx context.Context, userID, id string) (models.Order, error) {
	o, err := s.OrderRepo.GetOrderForUser(ctx, id, userID)
	if err != nil {
		return models.Order{}, err
	}
	if o.PaymentStatus == models.OrderPaymentCompleted {
		return models.Order{}, models.ErrAlreadyPaid
	}
	if o.Status != models.OrderPending {
		return models.Order{}, models.ErrInvalidTransition
	}
	return s.OrderRepo.CancelOrder(ctx, o)
}

func (s *OrderService) Deliverables(ctx context.Context, userID, id string) ([]models.Deliverable, error) {
	if _, err := s.OrderRepo.GetOrderForUser(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.OrderRepo.GetDeliverables(ctx, id)
}
