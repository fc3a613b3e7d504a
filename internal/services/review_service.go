package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jmlastro/internal/models"
)

type ReviewStore interface {
	CreateReview(ctx context.Context, rev models.Review) (models.Review, models.RatingAggregate, error)
	GetReviewsByAstrologerID(ctx context.Context, astrologerID string) ([]models.Review, error)
}

type ServiceReviewStore interface {
	CreateServiceReview(ctx context.Context, rev models.ServiceReview) (models.ServiceReview, models.RatingAggregate, error)
	GetPublicReviewsByServiceID(ctx context.Context, serviceID string) ([]models.ServiceReview, error)
}

type ConsultationGetter interface {
	GetConsultationByID(ctx context.Context, id string) (models.Consultation, error)
}

type OrderGetter interface {
	GetOrderForUser(ctx context.Context, id, userID string) (models.Order, error)
}

type ReviewService struct {
	ReviewRepo        ReviewStore
	ServiceReviewRepo ServiceReviewStore
	ConsultationRepo  ConsultationGetter
	OrderRepo         OrderGetter
}

type ReviewResult struct {
	Review    models.Review          `json:"review"`
	Aggregate models.RatingAggregate `json:"astrologer"`
}

type ServiceReviewResult struct {
	Review    models.ServiceReview   `json:"review"`
	Aggregate models.RatingAggregate `json:"service"`
}

// CreateReview accepts one review per consultation. The consultation must
// be the reviewer's own session with that astrologer.
func (s *ReviewService) CreateReview(ctx context.Context, userID string, req models.CreateReviewRequest) (ReviewResult, error) {
	if err := models.Validate(req); err != nil {
		return ReviewResult{}, err
	}
	c, err := s.ConsultationRepo.GetConsultationByID(ctx, req.ConsultationID)
	if errors.Is(err, models.ErrConsultationNotFound) {
		return ReviewResult{}, models.NewValidationError("consultation does not exist", "consultationId")
	}
	if err != nil {
		return ReviewResult{}, err
	}
	if c.UserID != userID || c.AstrologerID != req.AstrologerID {
		return ReviewResult{}, models.NewValidationError("consultation does not belong to this user and astrologer", "consultationId")
	}

	rev, agg, err := s.ReviewRepo.CreateReview(ctx, models.Review{
		ID:             uuid.NewString(),
		UserID:         userID,
		AstrologerID:   req.AstrologerID,
		ConsultationID: req.ConsultationID,
		Rating:         req.Rating,
		Comment:        strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return ReviewResult{}, err
	}
	return ReviewResult{Review: rev, Aggregate: agg}, nil
}

func (s *ReviewService) ListAstrologerReviews(ctx context.Context, astrologerID string) ([]models.Review, error) {
	return s.ReviewRepo.GetReviewsByAstrologerID(ctx, astrologerID)
}

// CreateServiceReview accepts one review per order. Reviews of paid orders are marked verified.
func (s *ReviewService) CreateServiceReview(ctx context.Context, userID string, req models.CreateServiceReviewRequest) (ServiceReviewResult, error) {
	if err := models.Validate(req); err != nil {
		return ServiceReviewResult{}, err
	}
	o, err := s.OrderRepo.GetOrderForUser(ctx, req.OrderID, userID)
	if errors.Is(err, models.ErrOrderNotFound) {
		return ServiceReviewResult{}, models.NewValidationError("order does not exist", "orderId")
	}
	if err != nil {
		return ServiceReviewResult{}, err
	}
	if o.ServiceID == nil || *o.ServiceID != req.ServiceID {
		return ServiceReviewResult{}, models.NewValidationError("order is not for this service", "serviceId")
	}

	rev, agg, err := s.ServiceReviewRepo.CreateServiceReview(ctx, models.ServiceReview{
		ID:         uuid.NewString(),
		OrderID:    req.OrderID,
		UserID:     userID,
		ServiceID:  req.ServiceID,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		Comment:    strings.TrimSpace(req.Comment),
		IsVerified: o.PaymentStatus == models.OrderPaymentCompleted,
		IsPublic:   true,
	})
	if err != nil {
		return ServiceReviewResult{}, err
	}
	return ServiceReviewResult{Review: rev, Aggregate: agg}, nil
}

func (s *ReviewService) ListServiceReviews(ctx context.Context, serviceID string) ([]models.ServiceReview, error) {
	return s.ServiceReviewRepo.GetPublicReviewsByServiceID(ctx, serviceID)
}
