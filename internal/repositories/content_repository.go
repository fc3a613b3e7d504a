package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jmlastro/internal/models"
)

type BlogRepository struct {
	DB *sql.DB
}

const blogSelect = `
	SELECT id, title, slug, COALESCE(excerpt, ''), content, COALESCE(category, ''), COALESCE(author_id, ''),
		COALESCE(featured_image_url, ''), is_published, created_at, updated_at
	FROM blog_posts
`

func scanBlogPost(row rowScanner) (models.BlogPost, error) {
	var p models.BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Category, &p.AuthorID,
		&p.FeaturedImageURL, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *BlogRepository) GetPublishedPosts(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := r.DB.QueryContext(ctx, blogSelect+` WHERE is_published = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *BlogRepository) GetPublishedPostBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	p, err := scanBlogPost(r.DB.QueryRowContext(ctx, blogSelect+` WHERE slug = ? AND is_published = TRUE`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return models.BlogPost{}, models.ErrBlogPostNotFound
	}
	return p, err
}

type HoroscopeRepository struct {
	DB *sql.DB
}

const horoscopeSelect = `
	SELECT id, zodiac_sign, type, content, date, created_at
	FROM horoscopes
`

func scanHoroscope(row rowScanner) (models.Horoscope, error) {
	var h models.Horoscope
	err := row.Scan(&h.ID, &h.ZodiacSign, &h.Type, &h.Content, &h.Date, &h.CreatedAt)
	return h, err
}

// GetForDay returns the newest row for sign/type dated inside [dayStart, dayStart+24h).
func (r *HoroscopeRepository) GetForDay(ctx context.Context, sign, kind string, dayStart time.Time) (models.Horoscope, error) {
	h, err := scanHoroscope(r.DB.QueryRowContext(ctx,
		horoscopeSelect+` WHERE zodiac_sign = ? AND type = ? AND date >= ? AND date < ? ORDER BY date DESC LIMIT 1`,
		sign, kind, dayStart, dayStart.Add(24*time.Hour)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Horoscope{}, models.ErrHoroscopeNotFound
	}
	return h, err
}

func (r *HoroscopeRepository) GetLatest(ctx context.Context, sign, kind string) (models.Horoscope, error) {
	h, err := scanHoroscope(r.DB.QueryRowContext(ctx,
		horoscopeSelect+` WHERE zodiac_sign = ? AND type = ? ORDER BY date DESC LIMIT 1`, sign, kind))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Horoscope{}, models.ErrHoroscopeNotFound
	}
	return h, err
}

func (r *HoroscopeRepository) GetLatestByType(ctx context.Context, kind string, limit int) ([]models.Horoscope, error) {
	rows, err := r.DB.QueryContext(ctx, horoscopeSelect+` WHERE type = ? ORDER BY date DESC LIMIT ?`, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	horoscopes := []models.Horoscope{}
	for rows.Next() {
		h, err := scanHoroscope(rows)
		if err != nil {
			return nil, err
		}
		horoscopes = append(horoscopes, h)
	}
	return horoscopes, rows.Err()
}

func (r *HoroscopeRepository) CreateHoroscope(ctx context.Context, h models.Horoscope) (models.Horoscope, error) {
	h.CreatedAt = time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO horoscopes (id, zodiac_sign, type, content, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.ZodiacSign, h.Type, h.Content, h.Date, h.CreatedAt)
	if err != nil {
		return models.Horoscope{}, err
	}
	return h, nil
}
