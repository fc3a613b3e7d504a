package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"jmlastro/internal/config"
	"jmlastro/internal/models"
)

type Mailer interface {
	SendPaymentConfirmation(ctx context.Context, user models.User, order models.Order, p models.Payment) error
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func paymentConfirmationMsg(from string, user models.User, order models.Order, p models.Payment) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(user.Email); err != nil {
		return nil, err
	}
	msg.Subject(fmt.Sprintf("Payment received for order %s", order.OrderNumber))

	var b strings.Builder
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "We received your payment of %s %s for order %s.\n", p.Amount, p.Currency, order.OrderNumber)
	fmt.Fprintf(&b, "Payment reference: %s\n", p.ID)
	if p.BankTransactionID != "" {
		fmt.Fprintf(&b, "Bank transaction: %s\n", p.BankTransactionID)
	}
	fmt.Fprintf(&b, "Order status: %s\n\nThank you for choosing JML Astro.\n", order.Status)
	msg.SetBodyString(mail.TypeTextPlain, b.String())
	return msg, nil
}

func (m *SMTPMailer) SendPaymentConfirmation(ctx context.Context, user models.User, order models.Order, p models.Payment) error {
	msg, err := paymentConfirmationMsg(m.cfg.From, user, order, p)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
