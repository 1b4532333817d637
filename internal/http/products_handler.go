package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vision-Tey/scandi-shop-client/internal/catalog"
)

type ProductHandler struct {
	catalog *catalog.Store
}

func NewProductHandler(store *catalog.Store) *ProductHandler {
	return &ProductHandler{catalog: store}
}

// ListProducts returns the visible product subset for the active
// category. Browsing is the user action that retries a failed catalog
// load.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	_ = h.catalog.EnsureLoaded(r.Context())

	active := r.URL.Query().Get("category")
	if active == "" {
		active = catalog.AllCategories
	}

	products, err := h.catalog.VisibleProducts(active)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"category": active,
		"products": products,
	})
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	_ = h.catalog.EnsureLoaded(r.Context())

	id := chi.URLParam(r, "id")
	product, err := h.catalog.Product(id)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	_ = h.catalog.EnsureLoaded(r.Context())

	categories, err := h.catalog.Categories()
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
