package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"jmlastro/internal/models"
)

type BlogStore interface {
	GetPublishedPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPublishedPostBySlug(ctx context.Context, slug string) (models.BlogPost, error)
}

type BlogService struct {
	BlogRepo BlogStore
}

func (s *BlogService) ListPosts(ctx context.Context) ([]models.BlogPost, error) {
	return s.BlogRepo.GetPublishedPosts(ctx)
}

func (s *BlogService) GetPost(ctx context.Context, slug string) (models.BlogPost, error) {
	return s.BlogRepo.GetPublishedPostBySlug(ctx, strings.TrimSpace(slug))
}

type HoroscopeStore interface {
	GetForDay(ctx context.Context, sign, kind string, dayStart time.Time) (models.Horoscope, error)
	GetLatest(ctx context.Context, sign, kind string) (models.Horoscope, error)
	GetLatestByType(ctx context.Context, kind string, limit int) ([]models.Horoscope, error)
}

const latestHoroscopesLimit = 12

type HoroscopeService struct {
	HoroscopeRepo HoroscopeStore
	Now           func() time.Time
}

// NormalizeSign turns "aries" / "ARIES" into "Aries". ok is false for
// anything that is not one of the twelve signs.
func NormalizeSign(sign string) (string, bool) {
	sign = strings.TrimSpace(sign)
	if sign == "" {
		return "", false
	}
	sign = strings.ToUpper(sign[:1]) + strings.ToLower(sign[1:])
	return sign, slices.Contains(models.ZodiacSigns, sign)
}

func (s *HoroscopeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetHoroscope looks up sign/type. An explicit date (YYYY-MM-DD) must match a
// row on that day. Without a date today's row wins, then the latest one.
func (s *HoroscopeService) GetHoroscope(ctx context.Context, sign, kind, date string) (models.Horoscope, error) {
	sign, ok := NormalizeSign(sign)
	if !ok {
		return models.Horoscope{}, models.ErrHoroscopeNotFound
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = models.HoroscopeDaily
	}
	if !slices.Contains(models.HoroscopeTypes, kind) {
		return models.Horoscope{}, models.ErrHoroscopeNotFound
	}

	if date = strings.TrimSpace(date); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return models.Horoscope{}, models.NewValidationError("must be a date in YYYY-MM-DD format", "date")
		}
		return s.HoroscopeRepo.GetForDay(ctx, sign, kind, day)
	}

	h, err := s.HoroscopeRepo.GetForDay(ctx, sign, kind, startOfDay(s.now()))
	if errors.Is(err, models.ErrHoroscopeNotFound) {
		return s.HoroscopeRepo.GetLatest(ctx, sign, kind)
	}
	return h, err
}

func (s *HoroscopeService) LatestHoroscopes(ctx context.Context, kind string) ([]models.Horoscope, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = models.HoroscopeDaily
	}
	if !slices.Contains(models.HoroscopeTypes, kind) {
		return nil, models.NewValidationError("must be one of: daily, weekly, monthly, yearly", "type")
	}
	return s.HoroscopeRepo.GetLatestByType(ctx, kind, latestHoroscopesLimit)
}
