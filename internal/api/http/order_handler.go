package http

import (
	"net/http"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type createOrderRequest struct {
	ToolID   int32  `json:"tool_id" validate:"required,gt=0"`
	Quantity int32  `json:"quantity" validate:"required,gte=1"`
	Notes    string `json:"notes"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), actor, req.ToolID, req.Quantity, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	orders, err := h.orderService.ListOrders(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected fulfilled"`
	Notes  string `json:"notes"`
}

func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondValidationError(w, err)
		return
	}
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.orderService.SetOrderStatus(r.Context(), actor, id, domain.OrderStatus(req.Status), req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
