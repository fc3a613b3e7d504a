package services

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"jmlastro/internal/models"
	"jmlastro/internal/payment"
)

var testLog = zap.NewNop().Sugar()

type stubAstrologers struct {
	byID map[string]models.Astrologer
}

func (s *stubAstrologers) GetAstrologerByID(_ context.Context, id string) (models.Astrologer, error) {
	a, ok := s.byID[id]
	if !ok {
		return models.Astrologer{}, models.ErrAstrologerNotFound
	}
	return a, nil
}

type stubServices struct {
	byID map[string]models.Service
}

func (s *stubServices) GetServiceByID(_ context.Context, id string) (models.Service, error) {
	svc, ok := s.byID[id]
	if !ok {
		return models.Service{}, models.ErrServiceNotFound
	}
	return svc, nil
}

// stubOrders keeps orders in memory and can fail the first N inserts with a
// duplicate order number.
type stubOrders struct {
	mu              sync.Mutex
	orders          map[string]models.Order
	bundles         []models.OrderBundle
	duplicateNumber int
	numbers         []string
}

func newStubOrders() *stubOrders {
	return &stubOrders{orders: map[string]models.Order{}}
}

func (s *stubOrders) CreateOrder(_ context.Context, b models.OrderBundle) (models.OrderBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numbers = append(s.numbers, b.Order.OrderNumber)
	if s.duplicateNumber > 0 {
		s.duplicateNumber--
		return models.OrderBundle{}, models.ErrDuplicateOrderNumber
	}
	s.orders[b.Order.ID] = b.Order
	s.bundles = append(s.bundles, b)
	return b, nil
}

func (s *stubOrders) GetOrderByID(_ context.Context, id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	return o, nil
}

func (s *stubOrders) GetOrderForUser(ctx context.Context, id, userID string) (models.Order, error) {
	o, err := s.GetOrderByID(ctx, id)
	if err != nil || o.UserID != userID {
		return models.Order{}, models.ErrOrderNotFound
	}
	return o, nil
}

func (s *stubOrders) GetOrderByIdempotencyKey(_ context.Context, userID, key string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.UserID == userID && o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			return o, nil
		}
	}
	return models.Order{}, models.ErrOrderNotFound
}

func (s *stubOrders) GetOrdersByUserID(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrders) CancelOrder(_ context.Context, o models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.Status = models.OrderCancelled
	s.orders[o.ID] = o
	return o, nil
}

func (s *stubOrders) GetDeliverables(context.Context, string) ([]models.Deliverable, error) {
	return []models.Deliverable{}, nil
}

type stubPayments struct {
	created    []models.Payment
	processing map[string]string
	failed     map[string]string
	outcome    models.PaymentOutcome
	applied    []models.PaymentWebhook
}

func newStubPayments() *stubPayments {
	return &stubPayments{processing: map[string]string{}, failed: map[string]string{}}
}

func (s *stubPayments) CreatePayment(_ context.Context, p models.Payment) (models.Payment, error) {
	s.created = append(s.created, p)
	return p, nil
}

func (s *stubPayments) GetPaymentForUser(_ context.Context, id, userID string) (models.Payment, error) {
	for _, p := range s.created {
		if p.ID == id && p.UserID == userID {
			return p, nil
		}
	}
	return models.Payment{}, models.ErrPaymentNotFound
}

func (s *stubPayments) MarkProcessing(_ context.Context, p models.Payment, ref string) error {
	s.processing[p.ID] = ref
	return nil
}

func (s *stubPayments) MarkFailed(_ context.Context, p models.Payment, reason string) error {
	s.failed[p.ID] = reason
	return nil
}

func (s *stubPayments) ApplyWebhook(_ context.Context, ev models.PaymentWebhook) (models.PaymentOutcome, error) {
	s.applied = append(s.applied, ev)
	return s.outcome, nil
}

type stubGateway struct {
	name    string
	err     error
	event   payment.WebhookEvent
	initReq payment.InitiateRequest
}

func (g *stubGateway) Name() string { return g.name }

func (g *stubGateway) Initiate(_ context.Context, req payment.InitiateRequest) (payment.InitiateResult, error) {
	g.initReq = req
	if g.err != nil {
		return payment.InitiateResult{}, g.err
	}
	return payment.InitiateResult{
		RedirectURL: "/bank?paymentId=" + req.PaymentID,
		QRPayload:   "upi://pay?pa=test",
		ProviderRef: "REF" + req.PaymentID,
	}, nil
}

func (g *stubGateway) Confirm([]byte, http.Header) (payment.WebhookEvent, error) {
	return g.event, nil
}

type publishedEvent struct {
	userID  string
	payload interface{}
}

type stubPublisher struct {
	events []publishedEvent
}

func (p *stubPublisher) Publish(userID string, payload interface{}) {
	p.events = append(p.events, publishedEvent{userID, payload})
}

type stubMailer struct {
	sent []models.Order
}

func (m *stubMailer) SendPaymentConfirmation(_ context.Context, _ models.User, o models.Order, _ models.Payment) error {
	m.sent = append(m.sent, o)
	return nil
}

type stubUsers struct {
	byID map[string]models.User
}

func (s *stubUsers) GetUserByID(_ context.Context, id string) (models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}
