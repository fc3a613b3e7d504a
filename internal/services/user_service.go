package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jmlastro/internal/models"
	"jmlastro/utils"
)

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User) (models.User, error)
	SetSession(ctx context.Context, id string, session models.Session) error
	GetByRefreshToken(ctx context.Context, token string) (models.User, error)
	ClearSession(ctx context.Context, id string) error
}

type UserService struct {
	UserRepo     UserStore
	TokenManager *utils.Manager
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return models.AuthResponse{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, err
	}

	user, err := s.UserRepo.CreateUser(ctx, models.User{
		ID:        uuid.NewString(),
		Email:     normalizeEmail(req.Email),
		Password:  string(hashedPassword),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      models.RoleUser,
	})
	if err != nil {
		return models.AuthResponse{}, err
	}

	tokens, err := s.CreateSession(ctx, user)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{User: user, Tokens: tokens}, nil
}

// SignIn answers ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResponse, error) {
	if err := models.Validate(req); err != nil {
		return models.AuthResponse{}, err
	}

	user, err := s.UserRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrUserNotFound) {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.AuthResponse{}, models.ErrInvalidCredentials
	}

	tokens, err := s.CreateSession(ctx, user)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{User: user, Tokens: tokens}, nil
}

// CreateSession issues an access token and stores a fresh refresh token.
func (s *UserService) CreateSession(ctx context.Context, user models.User) (models.Tokens, error) {
	var res models.Tokens

	accessToken, err := s.TokenManager.NewJWT(user.ID, user.Role, s.AccessTTL)
	if err != nil {
		return res, err
	}
	res.AccessToken = accessToken

	res.RefreshToken, err = s.TokenManager.NewRefreshToken()
	if err != nil {
		return res, err
	}

	session := models.Session{
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().UTC().Add(s.RefreshTTL),
	}
	if err := s.UserRepo.SetSession(ctx, user.ID, session); err != nil {
		return res, err
	}
	return res, nil
}

// Refresh trades a valid refresh token for a new token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.AuthResponse, error) {
	if refreshToken == "" {
		return models.AuthResponse{}, models.ErrUnauthorized
	}
	user, err := s.UserRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return models.AuthResponse{}, err
	}
	tokens, err := s.CreateSession(ctx, user)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *UserService) LogOut(ctx context.Context, userID string) error {
	return s.UserRepo.ClearSession(ctx, userID)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (models.User, error) {
	if err := models.Validate(req); err != nil {
		return models.User{}, err
	}
	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
		if user.FirstName == "" {
			return models.User{}, models.NewValidationError("Required", "firstName")
		}
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = *req.ProfileImageURL
	}
	return s.UserRepo.UpdateProfile(ctx, user)
}
