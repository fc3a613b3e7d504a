package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"jmlastro/internal/models"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

type AstrologerStore interface {
	ListAstrologers(ctx context.Context, f models.AstrologerFilter) ([]models.Astrologer, error)
	GetAstrologerByID(ctx context.Context, id string) (models.Astrologer, error)
	CreateAstrologer(ctx context.Context, a models.Astrologer) (models.Astrologer, error)
	UpdateAstrologer(ctx context.Context, a models.Astrologer) (models.Astrologer, error)
	UpdateProfileImage(ctx context.Context, id, url string) error
}

// ImageUploader is implemented by utils.Uploader.
type ImageUploader interface {
	Upload(ctx context.Context, file []byte, fileName, folder string) (string, error)
}

type AstrologerService struct {
	AstrologerRepo AstrologerStore
	Uploader       ImageUploader
}

// catalogFilter trims a query parameter; "all" means no filter.
func catalogFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func (s *AstrologerService) ListAstrologers(ctx context.Context, f models.AstrologerFilter) ([]models.Astrologer, error) {
	f.Search = catalogFilter(f.Search)
	f.Specialization = catalogFilter(f.Specialization)
	f.Language = catalogFilter(f.Language)
	return s.AstrologerRepo.ListAstrologers(ctx, f)
}

func (s *AstrologerService) GetAstrologer(ctx context.Context, id string) (models.Astrologer, error) {
	return s.AstrologerRepo.GetAstrologerByID(ctx, id)
}

func (s *AstrologerService) CreateAstrologer(ctx context.Context, req models.CreateAstrologerRequest) (models.Astrologer, error) {
	if err := models.Validate(req); err != nil {
		return models.Astrologer{}, err
	}
	status := req.Status
	if status == "" {
		status = models.AstrologerAvailable
	}
	return s.AstrologerRepo.CreateAstrologer(ctx, models.Astrologer{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Email:           normalizeEmail(req.Email),
		ProfileImageURL: req.ProfileImageURL,
		Specialization:  models.StringList(req.Specialization),
		Languages:       models.StringList(req.Languages),
		Experience:      req.Experience,
		PricePerMinute:  req.PricePerMinute,
		IsOnline:        req.IsOnline,
		Status:          status,
		Bio:             req.Bio,
	})
}

func (s *AstrologerService) UpdateAstrologer(ctx context.Context, id string, req models.UpdateAstrologerRequest) (models.Astrologer, error) {
	if err := models.Validate(req); err != nil {
		return models.Astrologer{}, err
	}
	current, err := s.AstrologerRepo.GetAstrologerByID(ctx, id)
	if err != nil {
		return models.Astrologer{}, err
	}
	req.Apply(&current)
	return s.AstrologerRepo.UpdateAstrologer(ctx, current)
}

// UploadImage stores the picture in object storage and points the profile at it.
func (s *AstrologerService) UploadImage(ctx context.Context, id string, file []byte, fileName string) (models.Astrologer, error) {
	if s.Uploader == nil {
		return models.Astrologer{}, ErrStorageDisabled
	}
	if _, err := s.AstrologerRepo.GetAstrologerByID(ctx, id); err != nil {
		return models.Astrologer{}, err
	}
	name := fmt.Sprintf("%s-%s%s", id, uuid.NewString()[:8], strings.ToLower(path.Ext(fileName)))
	url, err := s.Uploader.Upload(ctx, file, name, "astrologers")
	if err != nil {
		return models.Astrologer{}, err
	}
	if err := s.AstrologerRepo.UpdateProfileImage(ctx, id, url); err != nil {
		return models.Astrologer{}, err
	}
	return s.AstrologerRepo.GetAstrologerByID(ctx, id)
}
