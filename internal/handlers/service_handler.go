package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

type ServiceCatalog interface {
	ListCategories(ctx context.Context) ([]models.ServiceCategory, error)
	ListServices(ctx context.Context, f models.ServiceFilter) ([]models.Service, error)
	GetService(ctx context.Context, id string) (models.Service, error)
	CreateService(ctx context.Context, req models.CreateServiceRequest) (models.Service, error)
}

type ServiceHandler struct {
	Service ServiceCatalog
	Log     *zap.SugaredLogger
}

func (h *ServiceHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Service.ListCategories(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if cats == nil {
		cats = []models.ServiceCategory{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// ListServices reads categoryId (or category), search and featured.
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("categoryId")
	if category == "" {
		category = q.Get("category")
	}
	featured, _ := strconv.ParseBool(q.Get("featured"))

	list, err := h.Service.ListServices(r.Context(), models.ServiceFilter{
		CategoryID: category,
		Search:     q.Get("search"),
		Featured:   featured,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Service{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.GetService(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, err := h.Service.CreateService(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}
