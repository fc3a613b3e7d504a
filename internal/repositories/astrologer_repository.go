package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"jmlastro/internal/models"
)

type AstrologerRepository struct {
	DB *sql.DB
}

var astrologerColumns = []any{
	"id", "name", "email",
	goqu.L("COALESCE(profile_image_url, '')"),
	"specialization", "languages", "experience", "rating", "review_count",
	"price_per_minute", "is_online", "status",
	goqu.L("COALESCE(bio, '')"),
	"created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAstrologer(row rowScanner) (models.Astrologer, error) {
	var a models.Astrologer
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.ProfileImageURL,
		&a.Specialization, &a.Languages, &a.Experience, &a.Rating, &a.ReviewCount,
		&a.PricePerMinute, &a.IsOnline, &a.Status, &a.Bio,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// likePattern wraps s for a case-insensitive substring LIKE, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// jsonArraySearch matches a LIKE pattern against the string elements of a JSON
// array column only, so brackets, quotes and commas in the document never match.
func jsonArraySearch(column, pattern string) exp.LiteralExpression {
	return goqu.L("JSON_SEARCH(LOWER(CAST("+column+" AS CHAR)), 'one', ?) IS NOT NULL", pattern)
}

func jsonArrayContains(column, value string) exp.LiteralExpression {
	return goqu.L("JSON_CONTAINS("+column+", JSON_QUOTE(?))", value)
}

// astrologerListQuery builds the catalog query. The filter is expected to be
// normalized already: empty fields add no condition.
func astrologerListQuery(f models.AstrologerFilter) (string, []any, error) {
	ds := dialect.From("astrologers").Select(astrologerColumns...)

	if f.Search != "" {
		like := likePattern(f.Search)
		ds = ds.Where(goqu.Or(
			goqu.L("LOWER(name) LIKE ?", like),
			jsonArraySearch("specialization", like),
			jsonArraySearch("languages", like),
		))
	}
	if f.Specialization != "" {
		ds = ds.Where(jsonArrayContains("specialization", f.Specialization))
	}
	if f.Language != "" {
		ds = ds.Where(jsonArrayContains("languages", f.Language))
	}

	return ds.Order(goqu.I("rating").Desc(), goqu.I("name").Asc()).Prepared(true).ToSQL()
}

func (r *AstrologerRepository) ListAstrologers(ctx context.Context, f models.AstrologerFilter) ([]models.Astrologer, error) {
	query, args, err := astrologerListQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	astrologers := []models.Astrologer{}
	for rows.Next() {
		a, err := scanAstrologer(rows)
		if err != nil {
			return nil, err
		}
		astrologers = append(astrologers, a)
	}
	return astrologers, rows.Err()
}

func (r *AstrologerRepository) GetAstrologerByID(ctx context.Context, id string) (models.Astrologer, error) {
	query, args, err := dialect.From("astrologers").Select(astrologerColumns...).
		Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return models.Astrologer{}, err
	}
	a, err := scanAstrologer(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Astrologer{}, models.ErrAstrologerNotFound
	}
	return a, err
}

func (r *AstrologerRepository) CreateAstrologer(ctx context.Context, a models.Astrologer) (models.Astrologer, error) {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	query := `
		INSERT INTO astrologers (id, name, email, profile_image_url, specialization, languages,
			experience, rating, review_count, price_per_minute, is_online, status, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, nullString(a.ProfileImageURL), a.Specialization, a.Languages,
		a.Experience, a.PricePerMinute, a.IsOnline, a.Status, nullString(a.Bio), a.CreatedAt, a.UpdatedAt,
	)
	if isDuplicateKeyError(err) {
		return models.Astrologer{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.Astrologer{}, err
	}
	a.Rating, a.ReviewCount = 0, 0
	return a, nil
}

// UpdateAstrologer writes the editable profile columns. rating and
// review_count are never touched here.
func (r *AstrologerRepository) UpdateAstrologer(ctx context.Context, a models.Astrologer) (models.Astrologer, error) {
	a.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE astrologers
		SET name = ?, email = ?, profile_image_url = ?, specialization = ?, languages = ?,
			experience = ?, price_per_minute = ?, is_online = ?, status = ?, bio = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.DB.ExecContext(ctx, query,
		a.Name, a.Email, nullString(a.ProfileImageURL), a.Specialization, a.Languages,
		a.Experience, a.PricePerMinute, a.IsOnline, a.Status, nullString(a.Bio), a.UpdatedAt, a.ID,
	)
	if isDuplicateKeyError(err) {
		return models.Astrologer{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.Astrologer{}, err
	}
	return r.GetAstrologerByID(ctx, a.ID)
}

func (r *AstrologerRepository) UpdateProfileImage(ctx context.Context, id, url string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE astrologers SET profile_image_url = ?, updated_at = ? WHERE id = ?`,
		url, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrAstrologerNotFound
	}
	return nil
}
