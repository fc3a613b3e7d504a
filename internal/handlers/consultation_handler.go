package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

type ConsultationServicer interface {
	CreateConsultation(ctx context.Context, userID string, req models.CreateConsultationRequest) (models.Consultation, error)
	ListConsultations(ctx context.Context, userID string) ([]models.Consultation, error)
	UpdateStatus(ctx context.Context, userID, role, id string, req models.ConsultationStatusRequest) (models.Consultation, error)
}

type ConsultationHandler struct {
	Service ConsultationServicer
	Log     *zap.SugaredLogger
}

func (h *ConsultationHandler) ListConsultations(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.Service.ListConsultations(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Consultation{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ConsultationHandler) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateConsultationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.CreateConsultation(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ConsultationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.ConsultationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.UpdateStatus(r.Context(), userID, role, getParam(r, "id"), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
