package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmlastro/internal/models"
)

type memConsultations map[string]models.Consultation

func (m memConsultations) GetConsultationByID(_ context.Context, id string) (models.Consultation, error) {
	c, ok := m[id]
	if !ok {
		return models.Consultation{}, models.ErrConsultationNotFound
	}
	return c, nil
}

type recordingReviews struct {
	saved []models.Review
}

func (r *recordingReviews) CreateReview(_ context.Context, rev models.Review) (models.Review, models.RatingAggregate, error) {
	r.saved = append(r.saved, rev)
	return rev, models.RatingAggregate{Rating: float64(rev.Rating), Count: len(r.saved)}, nil
}

func (r *recordingReviews) GetReviewsByAstrologerID(context.Context, string) ([]models.Review, error) {
	return r.saved, nil
}

type recordingServiceReviews struct {
	saved []models.ServiceReview
}

func (r *recordingServiceReviews) CreateServiceReview(_ context.Context, rev models.ServiceReview) (models.ServiceReview, models.RatingAggregate, error) {
	r.saved = append(r.saved, rev)
	return rev, models.RatingAggregate{Rating: float64(rev.Rating), Count: 1}, nil
}

func (r *recordingServiceReviews) GetPublicReviewsByServiceID(context.Context, string) ([]models.ServiceReview, error) {
	return r.saved, nil
}

func TestCreateReviewChecksConsultationOwnership(t *testing.T) {
	reviews := &recordingReviews{}
	svc := &ReviewService{
		ReviewRepo: reviews,
		ConsultationRepo: memConsultations{
			"c1": {ID: "c1", UserID: "u1", AstrologerID: "a1"},
		},
	}
	ctx := context.Background()

	res, err := svc.CreateReview(ctx, "u1", models.CreateReviewRequest{AstrologerID: "a1", ConsultationID: "c1", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, models.RatingAggregate{Rating: 5, Count: 1}, res.Aggregate)
	assert.NotEmpty(t, res.Review.ID)

	tests := []struct {
		name   string
		userID string
		req    models.CreateReviewRequest
		path   string
	}{
		{"other user", "u2", models.CreateReviewRequest{AstrologerID: "a1", ConsultationID: "c1", Rating: 4}, "consultationId"},
		{"other astrologer", "u1", models.CreateReviewRequest{AstrologerID: "a2", ConsultationID: "c1", Rating: 4}, "consultationId"},
		{"unknown consultation", "u1", models.CreateReviewRequest{AstrologerID: "a1", ConsultationID: "zz", Rating: 4}, "consultationId"},
		{"rating out of range", "u1", models.CreateReviewRequest{AstrologerID: "a1", ConsultationID: "c1", Rating: 6}, "rating"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReview(ctx, tt.userID, tt.req)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tt.path}, verr.Fields[0].Path)
		})
	}
	assert.Len(t, reviews.saved, 1)
}

func TestCreateServiceReviewMarksPaidOrdersVerified(t *testing.T) {
	orders := newStubOrders()
	s1 := "s1"
	orders.orders["o1"] = models.Order{ID: "o1", UserID: "u1", ServiceID: &s1, PaymentStatus: models.OrderPaymentCompleted}
	orders.orders["o2"] = models.Order{ID: "o2", UserID: "u1", ServiceID: &s1, PaymentStatus: models.OrderPaymentPending}
	reviews := &recordingServiceReviews{}
	svc := &ReviewService{ServiceReviewRepo: reviews, OrderRepo: orders}
	ctx := context.Background()

	res, err := svc.CreateServiceReview(ctx, "u1", models.CreateServiceReviewRequest{OrderID: "o1", ServiceID: "s1", Rating: 4})
	require.NoError(t, err)
	assert.True(t, res.Review.IsVerified)
	assert.True(t, res.Review.IsPublic)

	res, err = svc.CreateServiceReview(ctx, "u1", models.CreateServiceReviewRequest{OrderID: "o2", ServiceID: "s1", Rating: 3})
	require.NoError(t, err)
	assert.False(t, res.Review.IsVerified)

	_, err = svc.CreateServiceReview(ctx, "u1", models.CreateServiceReviewRequest{OrderID: "o1", ServiceID: "s2", Rating: 3})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"serviceId"}, verr.Fields[0].Path)
}
