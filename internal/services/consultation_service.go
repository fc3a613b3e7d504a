package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"jmlastro/internal/models"
)

type ConsultationStore interface {
	CreateConsultation(ctx context.Context, c models.Consultation) (models.Consultation, error)
	GetConsultationByID(ctx context.Context, id string) (models.Consultation, error)
	GetConsultationsByUserID(ctx context.Context, userID string) ([]models.Consultation, error)
	UpdateStatus(ctx context.Context, c models.Consultation, to string) (models.Consultation, error)
}

type AstrologerGetter interface {
	GetAstrologerByID(ctx context.Context, id string) (models.Astrologer, error)
}

type ConsultationService struct {
	ConsultationRepo ConsultationStore
	AstrologerRepo   AstrologerGetter
}

// consultationQuote prices a session as duration × pricePerMinute. A client
// supplied price must match exactly.
func consultationQuote(ctx context.Context, astrologers AstrologerGetter, astrologerID string, duration int, supplied *models.Money, pricePath string) (models.Astrologer, models.Money, error) {
	a, err := astrologers.GetAstrologerByID(ctx, astrologerID)
	if errors.Is(err, models.ErrAstrologerNotFound) {
		return a, 0, models.NewValidationError("astrologer does not exist", "astrologerId")
	}
	if err != nil {
		return a, 0, err
	}
	price := models.ConsultationPrice(a.PricePerMinute, duration)
	if !price.InRange() {
		return a, 0, models.NewValidationError("must be at most "+models.MaxMoney.String(), "duration")
	}
	if supplied != nil && *supplied != price {
		return a, 0, models.NewValidationError("must equal duration × pricePerMinute ("+price.String()+")", pricePath)
	}
	return a, price, nil
}

func (s *ConsultationService) CreateConsultation(ctx context.Context, userID string, req models.CreateConsultationRequest) (models.Consultation, error) {
	if err := models.Validate(req); err != nil {
		return models.Consultation{}, err
	}
	_, price, err := consultationQuote(ctx, s.AstrologerRepo, req.AstrologerID, req.Duration, req.Price, "price")
	if err != nil {
		return models.Consultation{}, err
	}
	return s.ConsultationRepo.CreateConsultation(ctx, models.Consultation{
		ID:           uuid.NewString(),
		UserID:       userID,
		AstrologerID: req.AstrologerID,
		Type:         req.Type,
		Duration:     req.Duration,
		Price:        price,
		Status:       models.ConsultationPending,
		Topic:        req.Topic,
		ScheduledAt:  req.ScheduledAt,
	})
}

func (s *ConsultationService) ListConsultations(ctx context.Context, userID string) ([]models.Consultation, error) {
	return s.ConsultationRepo.GetConsultationsByUserID(ctx, userID)
}

// UpdateStatus lets the owner (or an admin) move a consultation along its lifecycle.
func (s *ConsultationService) UpdateStatus(ctx context.Context, userID, role, id string, req models.ConsultationStatusRequest) (models.Consultation, error) {
	if err := models.Validate(req); err != nil {
		return models.Consultation{}, err
	}
	c, err := s.ConsultationRepo.GetConsultationByID(ctx, id)
	if err != nil {
		return models.Consultation{}, err
	}
	if c.UserID != userID && role != models.RoleAdmin {
		return models.Consultation{}, models.ErrConsultationNotFound
	}
	return s.ConsultationRepo.UpdateStatus(ctx, c, req.Status)
}
