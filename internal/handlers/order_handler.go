package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

const IdempotencyHeader = "Idempotency-Key"

type OrderServicer interface {
	PlaceOrder(ctx context.Context, userID string, b models.BookingRequest, idemKey string) (models.OrderResponse, bool, error)
	GetOrder(ctx context.Context, userID, id string) (models.Order, error)
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	CancelOrder(ctx context.Context, userID, id string) (models.Order, error)
	Deliverables(ctx context.Context, userID, id string) ([]models.Deliverable, error)
}

type OrderHandler struct {
	Service OrderServicer
	Log     *zap.SugaredLogger
}

// CreateOrder answers 201 for a new order and 200 when the Idempotency-Key
// matched an order placed earlier.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, created, err := h.Service.PlaceOrder(r.Context(), userID, req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		if h.Log != nil {
			h.Log.Infow("order placed", "order_id", res.Order.ID, "order_number", res.Order.OrderNumber,
				"booking_type", res.Order.BookingType, "user_id", userID)
		}
	}
	writeJSON(w, status, res)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.Service.ListOrders(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	o, err := h.Service.GetOrder(r.Context(), userID, getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	o, err := h.Service.CancelOrder(r.Context(), userID, getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Deliverables(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.Service.Deliverables(r.Context(), userID, getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Deliverable{}
	}
	writeJSON(w, http.StatusOK, list)
}
