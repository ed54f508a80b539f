package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/ec-order-pipeline/internal/domain/cart"
	"github.com/example/ec-order-pipeline/internal/domain/order"
)

type Handlers struct {
	carts  *cart.Service
	orders *order.Service
}

func NewHandlers(carts *cart.Service, orders *order.Service) *Handlers {
	return &Handlers{
		carts:  carts,
		orders: orders,
	}
}

// Cart Handlers

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.carts.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, cart.ErrUserServiceUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	items, err := h.carts.Items(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []cart.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(extractPathParam(r.URL.Path, "/api/cart/items/"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	removed, err := h.carts.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !removed {
		http.Error(w, "cart item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Order Handlers

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	resp, err := h.orders.CreateOrder(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart), errors.Is(err, order.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, order.ErrUserServiceUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(extractPathParam(r.URL.Path, "/api/orders/"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Helpers

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		http.Error(w, "X-User-Id header is required", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
