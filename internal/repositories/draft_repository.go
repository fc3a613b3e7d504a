package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jmlastro/internal/models"
)

const draftKeyPrefix = "booking:draft:"

// DraftRepository keeps one pending booking per user in Redis. Entries expire
// on their own after TTL.
type DraftRepository struct {
	Client *redis.Client
	TTL    time.Duration
}

func draftKey(userID string) string {
	return draftKeyPrefix + userID
}

// Save replaces any previous draft of the same user.
func (r *DraftRepository) Save(ctx context.Context, d models.BookingDraft) (models.BookingDraft, error) {
	d.CreatedAt = time.Now().UTC()
	d.ExpiresAt = d.CreatedAt.Add(r.TTL)
	payload, err := json.Marshal(d)
	if err != nil {
		return models.BookingDraft{}, fmt.Errorf("encode draft: %w", err)
	}
	if err := r.Client.Set(ctx, draftKey(d.UserID), payload, r.TTL).Err(); err != nil {
		return models.BookingDraft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

func (r *DraftRepository) Get(ctx context.Context, userID string) (models.BookingDraft, error) {
	payload, err := r.Client.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.BookingDraft{}, models.ErrDraftNotFound
	}
	if err != nil {
		return models.BookingDraft{}, fmt.Errorf("load draft: %w", err)
	}
	var d models.BookingDraft
	if err := json.Unmarshal(payload, &d); err != nil {
		return models.BookingDraft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}

func (r *DraftRepository) Delete(ctx context.Context, userID string) error {
	if err := r.Client.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
