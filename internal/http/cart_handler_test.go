package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vision-Tey/scandi-shop-client/internal/cache"
	"github.com/Vision-Tey/scandi-shop-client/internal/cart"
	"github.com/Vision-Tey/scandi-shop-client/internal/catalog"
	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
	"github.com/Vision-Tey/scandi-shop-client/internal/order"
	"github.com/Vision-Tey/scandi-shop-client/internal/repository"
)

type stubFetcher struct {
	categories []domain.Category
	products   []domain.Product
	err        error
	calls      int
}

func (f *stubFetcher) FetchCatalog(ctx context.Context) ([]domain.Category, []domain.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.categories, f.products, nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return nil, cache.ErrCacheMiss
}

func (noopCache) Set(ctx context.Context, sessionID string, c *domain.Cart) error { return nil }

func (noopCache) Delete(ctx context.Context, sessionID string) error { return nil }

type stubBackend struct {
	ack   string
	err   error
	calls int
}

func (b *stubBackend) CreateOrder(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	b.calls++
	if b.err != nil {
		return "", b.err
	}
	return b.ack, nil
}

func testHoodie() domain.Product {
	return domain.Product{
		ID:       "hoodie",
		Name:     "Hoodie",
		Category: "clothes",
		InStock:  true,
		Gallery:  []string{"https://img.example/hoodie.png"},
		Prices:   []domain.Price{{Amount: 10.0, Currency: domain.Currency{Label: "USD", Symbol: "$"}}},
		Attributes: []domain.AttributeGroup{
			{Name: "Size", Items: []domain.AttributeItem{{ID: "S", Value: "S"}, {ID: "M", Value: "M"}}},
			{Name: "Color", Items: []domain.AttributeItem{{ID: "red", Value: "red"}, {ID: "blue", Value: "blue"}}},
		},
	}
}

func testConsole() domain.Product {
	return domain.Product{
		ID:       "ps-5",
		Name:     "PlayStation 5",
		Category: "tech",
		InStock:  false,
		Prices:   []domain.Price{{Amount: 499.99, Currency: domain.Currency{Label: "USD", Symbol: "$"}}},
	}
}

type testEnv struct {
	router  http.Handler
	fetcher *stubFetcher
	backend *stubBackend
	lister  orderLister
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		fetcher: &stubFetcher{
			categories: []domain.Category{{Name: "all"}, {Name: "clothes"}, {Name: "tech"}},
			products:   []domain.Product{testHoodie(), testConsole()},
		},
		backend: &stubBackend{ack: "backend-ref-1"},
	}

	logger := zap.NewNop()
	store := catalog.NewStore(env.fetcher, logger)
	require.NoError(t, store.Load(context.Background()))

	carts := cart.NewService(repository.NewMemoryRepository(), noopCache{}, logger)
	orders := order.NewService(env.backend, nil, nil, logger)

	env.router = NewRouter(
		RouterConfig{AllowedOrigins: []string{"*"}, RequestTimeout: 5 * time.Second},
		NewProductHandler(store),
		NewCartHandler(store, carts),
		NewOrderHandler(carts, orders, env.lister),
	)
	return env
}

func (e *testEnv) do(t *testing.T, method, target, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) CartResponseDTO {
	t.Helper()
	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestGetCart_NewSessionIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/cart/", "session-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	assert.Equal(t, "session-1", resp.SessionID)
	assert.Empty(t, resp.Entries)
	assert.Zero(t, resp.Total)
}

func TestGetCart_MintsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/cart/", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "storefront_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAddItem_DefaultsFromFirstAttributeItems(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{
		ProductID: "hoodie",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "S", resp.Entries[0].Chosen[domain.KindSize])
	assert.Equal(t, "red", resp.Entries[0].Chosen[domain.KindColor])
	assert.Equal(t, 1, resp.Entries[0].Quantity)
	assert.Equal(t, 10.0, resp.Total)
}

func TestAddItem_SameVariantMergesLine(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})
	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 2, resp.Entries[0].Quantity)
	assert.Equal(t, 20.0, resp.Total)
}

func TestAddItem_DistinctVariantAppendsLine(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})
	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{
		ProductID:  "hoodie",
		Attributes: map[string]string{"Color": "blue"},
		Quantity:   2,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "red", resp.Entries[0].Chosen[domain.KindColor])
	assert.Equal(t, "blue", resp.Entries[1].Chosen[domain.KindColor])
	assert.Equal(t, 30.0, resp.Total)
}

func TestAddItem_UnknownAttribute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{
		ProductID:  "hoodie",
		Attributes: map[string]string{"Material": "wool"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "invalid_attribute", resp.Code)
}

func TestAddItem_InvalidValue(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{
		ProductID:  "hoodie",
		Attributes: map[string]string{"Color": "chartreuse"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "nope"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddItem_OutOfStock(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "ps-5"})

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "out_of_stock", resp.Code)
}

func TestAddItem_QuantityBounds(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{
		ProductID: "hoodie",
		Quantity:  100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{
		ProductID: "hoodie",
		Quantity:  -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncrementAndDecrementLine(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})

	line := LineRequestDTO{ProductID: "hoodie", Attributes: map[string]string{"Size": "S", "Color": "red"}}

	w := env.do(t, http.MethodPost, "/api/v1/cart/items/increment", "session-1", line)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 2, resp.Entries[0].Quantity)

	w = env.do(t, http.MethodPost, "/api/v1/cart/items/decrement", "session-1", line)
	resp = decodeCart(t, w)
	assert.Equal(t, 1, resp.Entries[0].Quantity)

	// Decrementing past one removes the line entirely.
	w = env.do(t, http.MethodPost, "/api/v1/cart/items/decrement", "session-1", line)
	resp = decodeCart(t, w)
	assert.Empty(t, resp.Entries)
}

func TestRemoveLine_ByQueryAttributes(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})
	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{
		ProductID:  "hoodie",
		Attributes: map[string]string{"Color": "blue"},
	})

	w := env.do(t, http.MethodDelete, "/api/v1/cart/items/hoodie?color=blue&size=S", "session-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "red", resp.Entries[0].Chosen[domain.KindColor])
}

func TestRemoveLine_MissingLineLeavesCartUnchanged(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})

	w := env.do(t, http.MethodDelete, "/api/v1/cart/items/hoodie?color=blue&size=M", "session-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	assert.Len(t, resp.Entries, 1)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})

	w := env.do(t, http.MethodDelete, "/api/v1/cart/", "session-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/cart/", "session-1", nil)
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Entries)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequestDTO{ProductID: "hoodie"})

	w := env.do(t, http.MethodGet, "/api/v1/cart/", "session-2", nil)
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Entries)
}
