package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmlastro/internal/models"
)

func newDraftRepo(t *testing.T) (*DraftRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &DraftRepository{Client: client, TTL: 30 * time.Minute}, srv
}

func TestDraftRepositoryRoundTrip(t *testing.T) {
	repo, srv := newDraftRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, models.BookingDraft{
		ID:     "d1",
		UserID: "u1",
		Booking: models.BookingRequest{
			BookingType: models.BookingDonation,
			Donation:    &models.DonationBooking{Amount: models.NewMoney(501), Message: "for the temple"},
		},
		Quote: models.Quote{Description: "Donation", Amount: models.NewMoney(501), Currency: "INR"},
	})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, saved.ExpiresAt.Sub(saved.CreatedAt))
	assert.Equal(t, 30*time.Minute, srv.TTL("booking:draft:u1"))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)
	require.NotNil(t, got.Booking.Donation)
	assert.Equal(t, models.NewMoney(501), got.Booking.Donation.Amount)
	assert.Equal(t, models.NewMoney(501), got.Quote.Amount)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrDraftNotFound)
}

func TestDraftRepositoryExpires(t *testing.T) {
	repo, srv := newDraftRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, models.BookingDraft{
		ID: "d1", UserID: "u1",
		Booking: models.BookingRequest{BookingType: models.BookingService, Service: &models.ServiceBooking{ServiceID: "s1"}},
	})
	require.NoError(t, err)

	srv.FastForward(31 * time.Minute)
	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrDraftNotFound)
}
