package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

type BookingServicer interface {
	SaveDraft(ctx context.Context, userID string, b models.BookingRequest) (models.BookingDraft, error)
	GetDraft(ctx context.Context, userID string) (models.BookingDraft, error)
	DiscardDraft(ctx context.Context, userID string) error
	Checkout(ctx context.Context, userID string, req models.CheckoutRequest) (models.CheckoutResponse, error)
}

type BookingHandler struct {
	Service BookingServicer
	Log     *zap.SugaredLogger
}

func (h *BookingHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.Service.SaveDraft(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *BookingHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.Service.GetDraft(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *BookingHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.DiscardDraft(r.Context(), userID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.Checkout(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// PaymentPage backs the payment step. Without a draft, or without a login,
// the browser is sent back to the astrologer catalog.
func (h *BookingHandler) PaymentPage(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, catalogPath, http.StatusSeeOther)
		return
	}
	d, err := h.Service.GetDraft(r.Context(), userID)
	if errors.Is(err, models.ErrDraftNotFound) {
		http.Redirect(w, r, catalogPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draftId":   d.ID,
		"booking":   d.Booking,
		"quote":     d.Quote,
		"expiresAt": d.ExpiresAt,
	})
}
