package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"jmlastro/internal/models"
)

type ServiceRepository struct {
	DB *sql.DB
}

var serviceColumns = []any{
	"id", "category_id", "name", "description",
	goqu.L("COALESCE(short_description, '')"),
	"price", "currency", "duration",
	goqu.L("COALESCE(delivery_time, '')"),
	"features", "requirements", "service_type", "is_digital", "max_revisions",
	goqu.L("COALESCE(thumbnail_url, '')"),
	"gallery_urls", "is_active", "is_featured", "tags", "rating", "review_count",
	"created_at", "updated_at",
}

func scanService(row rowScanner) (models.Service, error) {
	var s models.Service
	var duration sql.NullInt64
	err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.ShortDescription,
		&s.Price, &s.Currency, &duration, &s.DeliveryTime,
		&s.Features, &s.Requirements, &s.ServiceType, &s.IsDigital, &s.MaxRevisions,
		&s.ThumbnailURL, &s.GalleryURLs, &s.IsActive, &s.IsFeatured, &s.Tags, &s.Rating, &s.ReviewCount,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		s.Duration = &d
	}
	return s, nil
}

func (r *ServiceRepository) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), COALESCE(icon, ''), display_order, is_active, created_at
		FROM service_categories
		WHERE is_active = TRUE
		ORDER BY display_order, name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.ServiceCategory{}
	for rows.Next() {
		var c models.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.DisplayOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// serviceListQuery builds the active-services catalog query, featured first.
func serviceListQuery(f models.ServiceFilter) (string, []any, error) {
	ds := dialect.From("services").Select(serviceColumns...).Where(goqu.C("is_active").IsTrue())

	if f.CategoryID != "" {
		ds = ds.Where(goqu.C("category_id").Eq(f.CategoryID))
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		ds = ds.Where(goqu.Or(
			goqu.L("LOWER(name) LIKE ?", like),
			goqu.L("LOWER(description) LIKE ?", like),
			jsonArraySearch("tags", like),
		))
	}
	if f.Featured {
		ds = ds.Where(goqu.C("is_featured").IsTrue())
	}

	return ds.Order(goqu.I("is_featured").Desc(), goqu.I("name").Asc()).Prepared(true).ToSQL()
}

func (r *ServiceRepository) ListServices(ctx context.Context, f models.ServiceFilter) ([]models.Service, error) {
	query, args, err := serviceListQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// GetServiceByID returns an active service.
func (r *ServiceRepository) GetServiceByID(ctx context.Context, id string) (models.Service, error) {
	query, args, err := dialect.From("services").Select(serviceColumns...).
		Where(goqu.Ex{"id": id}, goqu.C("is_active").IsTrue()).Prepared(true).ToSQL()
	if err != nil {
		return models.Service{}, err
	}
	s, err := scanService(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Service{}, models.ErrServiceNotFound
	}
	return s, err
}

func (r *ServiceRepository) CreateService(ctx context.Context, s models.Service) (models.Service, error) {
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	var duration sql.NullInt64
	if s.Duration != nil {
		duration = sql.NullInt64{Int64: int64(*s.Duration), Valid: true}
	}

	query := `
		INSERT INTO services (id, category_id, name, description, short_description, price, currency,
			duration, delivery_time, features, requirements, service_type, is_digital, max_revisions,
			thumbnail_url, gallery_urls, is_active, is_featured, tags, rating, review_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)
	`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.CategoryID, s.Name, s.Description, nullString(s.ShortDescription), s.Price, s.Currency,
		duration, nullString(s.DeliveryTime), s.Features, s.Requirements, s.ServiceType, s.IsDigital, s.MaxRevisions,
		nullString(s.ThumbnailURL), s.GalleryURLs, s.IsActive, s.IsFeatured, s.Tags, s.CreatedAt, s.UpdatedAt,
	)
	if isForeignKeyConstraintError(err) {
		return models.Service{}, models.NewValidationError("category does not exist", "categoryId")
	}
	if err != nil {
		return models.Service{}, err
	}
	return s, nil
}
