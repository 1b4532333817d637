package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Vision-Tey/scandi-shop-client/internal/cart"
	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
	"github.com/Vision-Tey/scandi-shop-client/internal/history"
	"github.com/Vision-Tey/scandi-shop-client/internal/order"
)

type orderLister interface {
	OrdersBySession(ctx context.Context, sessionID string) ([]history.Record, error)
}

type OrderHandler struct {
	carts   *cart.Service
	orders  *order.Service
	history orderLister
}

func NewOrderHandler(carts *cart.Service, orders *order.Service, lister orderLister) *OrderHandler {
	return &OrderHandler{
		carts:   carts,
		orders:  orders,
		history: lister,
	}
}

type SubmitOrderRequestDTO struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`
}

type SubmitOrderResponseDTO struct {
	OrderID    string  `json:"order_id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
}

// Submit builds an order from the session's cart and sends it to the
// order backend. The cart is cleared only after the backend acknowledged;
// on failure cart and form state stay intact for a retry.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req SubmitOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer", "customer_name is required")
		return
	}
	if !strings.Contains(req.CustomerEmail, "@") {
		respondError(w, http.StatusBadRequest, "invalid_customer", "customer_email is invalid")
		return
	}
	if strings.TrimSpace(req.CustomerAddress) == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer", "customer_address is required")
		return
	}

	c, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	draft, err := order.BuildDraft(c, domain.CustomerDetails{
		Name:    req.CustomerName,
		Email:   req.CustomerEmail,
		Address: req.CustomerAddress,
	})
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to build order")
		return
	}

	orderID, err := h.orders.Submit(r.Context(), sessionID, draft)
	if err != nil {
		respondError(w, http.StatusBadGateway, "submission_failed", "order backend rejected the submission")
		return
	}

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		// The order went through; an uncleared cart is recoverable.
		respondError(w, http.StatusInternalServerError, "internal_error", "order created but cart not cleared")
		return
	}

	respondJSON(w, http.StatusCreated, SubmitOrderResponseDTO{
		OrderID:    orderID,
		Status:     draft.Status,
		TotalPrice: draft.TotalPrice,
	})
}

// List returns the session's previously acknowledged orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	if h.history == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"orders": []history.Record{}})
		return
	}

	records, err := h.history.OrdersBySession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	if records == nil {
		records = []history.Record{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": records})
}
