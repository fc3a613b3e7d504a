package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jmlastro/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userSelect = `
	SELECT id, email, password, first_name, COALESCE(last_name, ''), COALESCE(profile_image_url, ''),
		role, created_at, updated_at
	FROM users
`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var updated sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.Role, &u.CreatedAt, &updated)
	u.UpdatedAt = timePtr(updated)
	return u, err
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (id, email, password, first_name, last_name, profile_image_url, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = &user.CreatedAt
	_, err := r.DB.ExecContext(ctx, query,
		user.ID, user.Email, user.Password, user.FirstName, nullString(user.LastName),
		nullString(user.ProfileImageURL), user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if isDuplicateKeyError(err) {
		return models.User{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, profile_image_url = ?, updated_at = ? WHERE id = ?`,
		user.FirstName, nullString(user.LastName), nullString(user.ProfileImageURL), now, user.ID)
	if err != nil {
		return models.User{}, err
	}
	return r.GetUserByID(ctx, user.ID)
}

func (r *UserRepository) SetSession(ctx context.Context, id string, session models.Session) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET refresh_token = ?, expires_at = ? WHERE id = ?`,
		nullString(session.RefreshToken), session.ExpiresAt, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// GetByRefreshToken returns the user owning an unexpired refresh token.
func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (models.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx,
		userSelect+` WHERE refresh_token = ? AND expires_at > ?`, token, time.Now().UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUnauthorized
	}
	return user, err
}

func (r *UserRepository) ClearSession(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET refresh_token = NULL, expires_at = NULL WHERE id = ?`, id)
	return err
}
