package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jmlastro/internal/models"
	"jmlastro/internal/payment"
)

type PaymentStore interface {
	CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error)
	GetPaymentForUser(ctx context.Context, id, userID string) (models.Payment, error)
	MarkProcessing(ctx context.Context, p models.Payment, providerRef string) error
	MarkFailed(ctx context.Context, p models.Payment, reason string) error
	ApplyWebhook(ctx context.Context, ev models.PaymentWebhook) (models.PaymentOutcome, error)
}

type PaymentOrderStore interface {
	GetOrderByID(ctx context.Context, id string) (models.Order, error)
	GetOrderForUser(ctx context.Context, id, userID string) (models.Order, error)
}

// EventPublisher delivers realtime events to a connected user.
type EventPublisher interface {
	Publish(userID string, payload interface{})
}

type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// PaymentEvent is pushed over the order websocket after a payment settles.
type PaymentEvent struct {
	Type        string `json:"type"`
	PaymentID   string `json:"paymentId"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	OrderStatus string `json:"orderStatus"`
}

const (
	paymentEventType       = "payment.updated"
	paymentInitiatedMsg    = "Payment initiated successfully"
	notificationSendWindow = 30 * time.Second
)

type PaymentService struct {
	PaymentRepo PaymentStore
	OrderRepo   PaymentOrderStore
	UserRepo    UserGetter
	// Gateway starts new payments. Confirmers verify callbacks per provider name.
	Gateway    payment.Gateway
	Confirmers map[string]payment.Gateway
	Events     EventPublisher
	Mailer     Mailer
	PayeeID    string
	PayeeName  string
	Log        *zap.SugaredLogger
}

// Initiate creates a payment for a pending unpaid order and hands it to the
// gateway. A gateway error leaves the payment failed and returns ErrGateway.
func (s *PaymentService) Initiate(ctx context.Context, userID string, req models.InitiatePaymentRequest) (models.InitiatePaymentResponse, error) {
	if err := models.Validate(req); err != nil {
		return models.InitiatePaymentResponse{}, err
	}
	order, err := s.OrderRepo.GetOrderForUser(ctx, req.OrderID, userID)
	if err != nil {
		return models.InitiatePaymentResponse{}, err
	}
	if order.PaymentStatus == models.OrderPaymentCompleted {
		return models.InitiatePaymentResponse{}, models.ErrAlreadyPaid
	}
	if order.Status != models.OrderPending {
		return models.InitiatePaymentResponse{}, models.ErrInvalidTransition
	}

	p, err := s.PaymentRepo.CreatePayment(ctx, models.Payment{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		UserID:        userID,
		Amount:        order.TotalAmount,
		Currency:      order.Currency,
		PaymentMethod: req.PaymentMethod,
		Provider:      s.Gateway.Name(),
		Status:        models.PaymentPending,
	})
	if err != nil {
		return models.InitiatePaymentResponse{}, err
	}

	res, err := s.Gateway.Initiate(ctx, payment.InitiateRequest{
		PaymentID:   p.ID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      userID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Method:      p.PaymentMethod,
		Description: "JML Astro order " + order.OrderNumber,
	})
	if err != nil {
		if markErr := s.PaymentRepo.MarkFailed(context.WithoutCancel(ctx), p, err.Error()); markErr != nil {
			s.Log.Errorw("mark payment failed", "payment_id", p.ID, "error", markErr)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return models.InitiatePaymentResponse{}, err
		}
		return models.InitiatePaymentResponse{}, fmt.Errorf("%w: %v", models.ErrGateway, err)
	}

	if err := s.PaymentRepo.MarkProcessing(ctx, p, res.ProviderRef); err != nil {
		return models.InitiatePaymentResponse{}, err
	}

	s.Log.Infow("payment initiated", "payment_id", p.ID, "order_id", order.ID, "provider", s.Gateway.Name())
	return models.InitiatePaymentResponse{
		PaymentID:      p.ID,
		OrderNumber:    order.OrderNumber,
		Amount:         p.Amount,
		BankPaymentURL: res.RedirectURL,
		QRCode:         res.QRPayload,
		ClientSecret:   res.ClientSecret,
		Message:        paymentInitiatedMsg,
	}, nil
}

// HandleWebhook verifies a provider callback and applies it. Events that carry
// no outcome are acknowledged without touching storage.
func (s *PaymentService) HandleWebhook(ctx context.Context, provider string, payload []byte, header http.Header) (models.PaymentOutcome, error) {
	gw, ok := s.Confirmers[provider]
	if !ok {
		return models.PaymentOutcome{}, models.ErrNoRecord
	}
	ev, err := gw.Confirm(payload, header)
	if err != nil {
		return models.PaymentOutcome{}, err
	}
	if ev.Ignored {
		return models.PaymentOutcome{}, nil
	}

	out, err := s.PaymentRepo.ApplyWebhook(ctx, models.PaymentWebhook{
		PaymentID:         ev.PaymentID,
		Status:            ev.Status,
		BankTransactionID: ev.TransactionID,
		BankResponse:      ev.Raw,
		FailureReason:     ev.FailureReason,
		Provider:          gw.Name(),
	})
	if err != nil {
		return models.PaymentOutcome{}, err
	}
	if out.Changed {
		s.Log.Infow("payment settled", "payment_id", out.Payment.ID, "status", out.Payment.Status,
			"order_id", out.Order.ID, "order_status", out.Order.Status)
		s.notify(context.WithoutCancel(ctx), out)
	}
	return out, nil
}

// notify runs after commit; failures are logged only.
func (s *PaymentService) notify(ctx context.Context, out models.PaymentOutcome) {
	if s.Events != nil {
		s.Events.Publish(out.Payment.UserID, PaymentEvent{
			Type:        paymentEventType,
			PaymentID:   out.Payment.ID,
			OrderID:     out.Order.ID,
			Status:      out.Payment.Status,
			OrderStatus: out.Order.Status,
		})
	}

	if s.Mailer == nil || out.Payment.Status != models.PaymentSuccess {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notificationSendWindow)
	defer cancel()
	user, err := s.UserRepo.GetUserByID(ctx, out.Payment.UserID)
	if err != nil {
		s.Log.Errorw("load user for confirmation email", "user_id", out.Payment.UserID, "error", err)
		return
	}
	if err := s.Mailer.SendPaymentConfirmation(ctx, user, out.Order, out.Payment); err != nil {
		s.Log.Errorw("send confirmation email", "order_id", out.Order.ID, "error", err)
	}
}

func (s *PaymentService) Status(ctx context.Context, userID, paymentID string) (models.PaymentStatusResponse, error) {
	p, err := s.PaymentRepo.GetPaymentForUser(ctx, paymentID, userID)
	if err != nil {
		return models.PaymentStatusResponse{}, err
	}
	return models.PaymentStatusResponse{
		Status:        p.Status,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		CreatedAt:     p.CreatedAt,
	}, nil
}

// QRCode renders the UPI payment URI of a payment as PNG.
func (s *PaymentService) QRCode(ctx context.Context, userID, paymentID string) ([]byte, error) {
	p, err := s.PaymentRepo.GetPaymentForUser(ctx, paymentID, userID)
	if err != nil {
		return nil, err
	}
	order, err := s.OrderRepo.GetOrderByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	return payment.QRCodePNG(payment.UPIURI(s.PayeeID, s.PayeeName, p.Amount, p.Currency, order.OrderNumber))
}
