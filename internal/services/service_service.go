package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"jmlastro/internal/models"
)

type ServiceStore interface {
	ListCategories(ctx context.Context) ([]models.ServiceCategory, error)
	ListServices(ctx context.Context, f models.ServiceFilter) ([]models.Service, error)
	GetServiceByID(ctx context.Context, id string) (models.Service, error)
	CreateService(ctx context.Context, s models.Service) (models.Service, error)
}

type ServiceService struct {
	ServiceRepo     ServiceStore
	DefaultCurrency string
}

func (s *ServiceService) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return s.ServiceRepo.ListCategories(ctx)
}

func (s *ServiceService) ListServices(ctx context.Context, f models.ServiceFilter) ([]models.Service, error) {
	f.CategoryID = catalogFilter(f.CategoryID)
	f.Search = catalogFilter(f.Search)
	return s.ServiceRepo.ListServices(ctx, f)
}

func (s *ServiceService) GetService(ctx context.Context, id string) (models.Service, error) {
	return s.ServiceRepo.GetServiceByID(ctx, id)
}

func (s *ServiceService) CreateService(ctx context.Context, req models.CreateServiceRequest) (models.Service, error) {
	if err := models.Validate(req); err != nil {
		return models.Service{}, err
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.DefaultCurrency
	}
	isDigital := true
	if req.IsDigital != nil {
		isDigital = *req.IsDigital
	}
	return s.ServiceRepo.CreateService(ctx, models.Service{
		ID:               uuid.NewString(),
		CategoryID:       req.CategoryID,
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		Currency:         currency,
		Duration:         req.Duration,
		DeliveryTime:     req.DeliveryTime,
		Features:         models.StringList(req.Features),
		Requirements:     models.StringList(req.Requirements),
		ServiceType:      req.ServiceType,
		IsDigital:        isDigital,
		MaxRevisions:     req.MaxRevisions,
		ThumbnailURL:     req.ThumbnailURL,
		GalleryURLs:      models.StringList(req.GalleryURLs),
		IsActive:         true,
		IsFeatured:       req.IsFeatured,
		Tags:             models.StringList(req.Tags),
	})
}
