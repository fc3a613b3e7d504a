package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	BookingConsultation = "consultation"
	BookingService      = "service"
	BookingDonation     = "donation"
)

type ConsultationBooking struct {
	AstrologerID     string     `json:"astrologerId" validate:"required"`
	ConsultationType string     `json:"consultationType" validate:"required,oneof=chat call video"`
	Duration         int        `json:"duration" validate:"required,oneof=15 30 45 60"`
	Topic            string     `json:"topic" validate:"max=500"`
	ScheduledAt      *time.Time `json:"scheduledAt,omitempty"`
	TotalPrice       *Money     `json:"totalPrice,omitempty" validate:"omitempty,gt=0,money_max"`
}

type ServiceBooking struct {
	ServiceID       string  `json:"serviceId" validate:"required"`
	AstrologerID    string  `json:"astrologerId,omitempty"`
	Requirements    string  `json:"requirements,omitempty" validate:"max=5000"`
	Notes           string  `json:"notes,omitempty" validate:"max=2000"`
	CustomerDetails RawJSON `json:"customerDetails,omitempty"`
}

type DonationBooking struct {
	Amount  Money  `json:"amount" validate:"gt=0,money_max"`
	Message string `json:"message,omitempty" validate:"max=1000"`
}

// BookingRequest is a tagged union on BookingType. Exactly one of the variant
// pointers is set after decoding. On the wire the variant fields sit next to
// bookingType in a flat object.
type BookingRequest struct {
	BookingType   string
	PaymentMethod string

	Consultation *ConsultationBooking
	Service      *ServiceBooking
	Donation     *DonationBooking
}

type bookingHeader struct {
	BookingType   string `json:"bookingType"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func (b *BookingRequest) UnmarshalJSON(data []byte) error {
	var head bookingHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.BookingType == "" {
		head.BookingType = BookingService
	}

	out := BookingRequest{BookingType: head.BookingType, PaymentMethod: head.PaymentMethod}
	switch head.BookingType {
	case BookingConsultation:
		out.Consultation = &ConsultationBooking{}
		if err := json.Unmarshal(data, out.Consultation); err != nil {
			return err
		}
	case BookingService:
		out.Service = &ServiceBooking{}
		if err := json.Unmarshal(data, out.Service); err != nil {
			return err
		}
	case BookingDonation:
		out.Donation = &DonationBooking{}
		if err := json.Unmarshal(data, out.Donation); err != nil {
			return err
		}
	}
	*b = out
	return nil
}

func (b BookingRequest) MarshalJSON() ([]byte, error) {
	fields := map[string]any{}
	var variant any
	switch {
	case b.Consultation != nil:
		variant = b.Consultation
	case b.Service != nil:
		variant = b.Service
	case b.Donation != nil:
		variant = b.Donation
	}
	if variant != nil {
		raw, err := json.Marshal(variant)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
	}
	fields["bookingType"] = b.BookingType
	if b.PaymentMethod != "" {
		fields["paymentMethod"] = b.PaymentMethod
	}
	return json.Marshal(fields)
}

// Validate checks the discriminator and the selected variant.
func (b BookingRequest) Validate() error {
	if b.PaymentMethod != "" {
		switch b.PaymentMethod {
		case "upi", "card", "netbanking", "wallet":
		default:
			return NewValidationError("must be one of: upi, card, netbanking, wallet", "paymentMethod")
		}
	}
	switch b.BookingType {
	case BookingConsultation:
		if b.Consultation == nil {
			return NewValidationError("Required", "astrologerId")
		}
		return Validate(b.Consultation)
	case BookingService:
		if b.Service == nil {
			return NewValidationError("Required", "serviceId")
		}
		return Validate(b.Service)
	case BookingDonation:
		if b.Donation == nil {
			return NewValidationError("Required", "amount")
		}
		return Validate(b.Donation)
	default:
		return NewValidationError(
			fmt.Sprintf("must be one of: %s, %s, %s", BookingConsultation, BookingService, BookingDonation),
			"bookingType",
		)
	}
}

// Quote is the server-computed price of a booking.
type Quote struct {
	Description    string `json:"description"`
	AstrologerName string `json:"astrologerName,omitempty"`
	ServiceName    string `json:"serviceName,omitempty"`
	PricePerMinute *Money `json:"pricePerMinute,omitempty"`
	Duration       int    `json:"duration,omitempty"`
	Amount         Money  `json:"amount"`
	Currency       string `json:"currency"`
}

// BookingDraft is the server-held booking awaiting payment.
type BookingDraft struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Booking   BookingRequest `json:"booking"`
	Quote     Quote          `json:"quote"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=upi card netbanking wallet"`
}

type CheckoutResponse struct {
	Order   Order                   `json:"order"`
	Payment InitiatePaymentResponse `json:"payment"`
}
