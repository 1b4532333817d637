// Package catalog keeps the loaded product catalog in memory and derives
// the visible subset for the active category.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

// AllCategories is the sentinel meaning "no category filter".
const AllCategories = "all"

var (
	ErrNotReady        = errors.New("catalog not loaded")
	ErrProductNotFound = errors.New("product not found")
)

// State is the catalog's explicit load state machine. Dependent views
// see ErrNotReady while the catalog is loading or failed; they never
// observe a partially loaded snapshot.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type fetcher interface {
	FetchCatalog(ctx context.Context) ([]domain.Category, []domain.Product, error)
}

type Store struct {
	client fetcher
	logger *zap.Logger
	sfg    singleflight.Group // collapses concurrent loads

	mu         sync.RWMutex
	state      State
	categories []domain.Category
	products   []domain.Product
	byID       map[string]int
}

func NewStore(client fetcher, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
		state:  StateIdle,
	}
}

// Load fetches the catalog once. A load that fails leaves the store in
// StateFailed; there is no automatic retry, the next EnsureLoaded call
// (driven by a new user action) tries again.
func (s *Store) Load(ctx context.Context) error {
	_, err, _ := s.sfg.Do("catalog", func() (interface{}, error) {
		s.setState(StateLoading)

		categories, products, err := s.client.FetchCatalog(ctx)
		if err != nil {
			s.setState(StateFailed)
			s.logger.Warn("catalog load failed", zap.Error(err))
			return nil, err
		}

		byID := make(map[string]int, len(products))
		for i, p := range products {
			byID[p.ID] = i
		}

		s.mu.Lock()
		s.categories = categories
		s.products = products
		s.byID = byID
		s.state = StateReady
		s.mu.Unlock()

		s.logger.Info("catalog loaded",
			zap.Int("products", len(products)),
			zap.Int("categories", len(categories)))
		return nil, nil
	})
	return err
}

// EnsureLoaded is a no-op once the catalog is ready, otherwise it
// (re)attempts a load.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	if s.State() == StateReady {
		return nil
	}
	return s.Load(ctx)
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Ready() bool {
	return s.State() == StateReady
}

func (s *Store) Categories() ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	return s.categories, nil
}

// VisibleProducts returns the products for the active category in catalog
// order. The AllCategories sentinel returns the full catalog unchanged.
func (s *Store) VisibleProducts(active string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	if active == "" || active == AllCategories {
		return s.products, nil
	}
	var visible []domain.Product
	for _, p := range s.products {
		if p.Category == active {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *Store) Product(id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return &s.products[i], nil
}
