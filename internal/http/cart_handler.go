package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vision-Tey/scandi-shop-client/internal/cart"
	"github.com/Vision-Tey/scandi-shop-client/internal/catalog"
	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
	"github.com/Vision-Tey/scandi-shop-client/internal/selection"
)

type CartHandler struct {
	catalog *catalog.Store
	carts   *cart.Service
}

func NewCartHandler(store *catalog.Store, carts *cart.Service) *CartHandler {
	return &CartHandler{
		catalog: store,
		carts:   carts,
	}
}

type AddItemRequestDTO struct {
	ProductID  string            `json:"product_id"`
	Quantity   int               `json:"quantity"`
	Attributes map[string]string `json:"attributes"`
}

type LineRequestDTO struct {
	ProductID  string            `json:"product_id"`
	Attributes map[string]string `json:"attributes"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	c, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

// AddItem is the single insertion path into the cart: defaults come from
// the product's attribute groups, explicit choices override them, and the
// resulting entry merges with any existing line for the same variant.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.Product(req.ProductID)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	if !product.InStock {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return
	}

	sel := selection.New(product)
	for name, value := range req.Attributes {
		kind, ok := domain.KindForName(name)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_attribute", "unknown attribute: "+name)
			return
		}
		if err := sel.Choose(kind, value); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_attribute", err.Error())
			return
		}
	}
	if !sel.Ready() {
		respondError(w, http.StatusBadRequest, "incomplete_selection", "all attributes must be selected")
		return
	}

	entry := domain.NewEntry(product, sel.Chosen(), req.Quantity)
	c, err := h.carts.AddEntry(r.Context(), sessionID, entry)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add to cart")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) IncrementLine(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.carts.IncrementLine)
}

func (h *CartHandler) DecrementLine(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, h.carts.DecrementLine)
}

func (h *CartHandler) lineOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sessionID, productID string, attrs domain.SelectedAttributes) (*domain.Cart, error)) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req LineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	attrs, err := parseAttributes(req.Attributes)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_attribute", err.Error())
		return
	}

	c, err := op(r.Context(), sessionID, req.ProductID, attrs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

// RemoveLine deletes one line, identified by product id plus variant
// attributes from the query string (e.g. ?color=red&size=M).
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	raw := make(map[string]string)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			raw[name] = values[0]
		}
	}
	attrs, err := parseAttributes(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_attribute", err.Error())
		return
	}

	c, err := h.carts.RemoveLine(r.Context(), sessionID, productID, attrs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func parseAttributes(raw map[string]string) (domain.SelectedAttributes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	attrs := make(domain.SelectedAttributes, len(raw))
	for name, value := range raw {
		kind, ok := domain.KindForName(name)
		if !ok {
			return nil, &unknownAttributeError{name: name}
		}
		attrs[kind] = value
	}
	return attrs, nil
}

type unknownAttributeError struct {
	name string
}

func (e *unknownAttributeError) Error() string {
	return "unknown attribute: " + e.name
}

type CartResponseDTO struct {
	SessionID string             `json:"session_id"`
	Entries   []domain.CartEntry `json:"entries"`
	Total     float64            `json:"total"`
	Count     int                `json:"count"`
}

func cartResponse(c *domain.Cart) CartResponseDTO {
	entries := c.Entries
	if entries == nil {
		entries = []domain.CartEntry{}
	}
	return CartResponseDTO{
		SessionID: c.SessionID,
		Entries:   entries,
		Total:     c.Total(),
		Count:     len(entries),
	}
}
