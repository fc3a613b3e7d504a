package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
	"jmlastro/internal/services"
)

type ReviewServicer interface {
	CreateReview(ctx context.Context, userID string, req models.CreateReviewRequest) (services.ReviewResult, error)
	ListAstrologerReviews(ctx context.Context, astrologerID string) ([]models.Review, error)
	CreateServiceReview(ctx context.Context, userID string, req models.CreateServiceReviewRequest) (services.ServiceReviewResult, error)
	ListServiceReviews(ctx context.Context, serviceID string) ([]models.ServiceReview, error)
}

type ReviewHandler struct {
	Service ReviewServicer
	Log     *zap.SugaredLogger
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CreateReview(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReviewHandler) GetReviewsByAstrologerID(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListAstrologerReviews(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Review{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReviewHandler) CreateServiceReview(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateServiceReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CreateServiceReview(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReviewHandler) GetReviewsByServiceID(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListServiceReviews(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.ServiceReview{}
	}
	writeJSON(w, http.StatusOK, list)
}
