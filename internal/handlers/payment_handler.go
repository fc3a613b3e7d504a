package handlers

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

type PaymentServicer interface {
	Initiate(ctx context.Context, userID string, req models.InitiatePaymentRequest) (models.InitiatePaymentResponse, error)
	HandleWebhook(ctx context.Context, provider string, payload []byte, header http.Header) (models.PaymentOutcome, error)
	Status(ctx context.Context, userID, paymentID string) (models.PaymentStatusResponse, error)
	QRCode(ctx context.Context, userID, paymentID string) ([]byte, error)
}

type PaymentHandler struct {
	Service PaymentServicer
	Log     *zap.SugaredLogger
}

func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.InitiatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.Initiate(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Webhook receives the mock bank callback. The raw body is passed on so the
// signature can be checked against exactly what was sent.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	h.webhook(w, r, "mock")
}

func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	h.webhook(w, r, "stripe")
}

func (h *PaymentHandler) webhook(w http.ResponseWriter, r *http.Request, provider string) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	out, err := h.Service.HandleWebhook(r.Context(), provider, payload, r.Header)
	if err != nil {
		if h.Log != nil {
			h.Log.Warnw("webhook rejected", "provider", provider, "error", err)
		}
		writeError(w, h.Log, err)
		return
	}

	resp := map[string]interface{}{"received": true}
	if out.Payment.ID != "" {
		resp["paymentId"] = out.Payment.ID
		resp["status"] = out.Payment.Status
		resp["orderStatus"] = out.Order.Status
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	res, err := h.Service.Status(r.Context(), userID, getParam(r, "payment_id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	png, err := h.Service.QRCode(r.Context(), userID, getParam(r, "payment_id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
