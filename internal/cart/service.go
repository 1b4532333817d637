// Package cart coordinates session cart state between the repository and
// the cache. All line-item semantics are pure functions on domain.Cart;
// this layer only loads, applies, stores, and invalidates.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Vision-Tey/scandi-shop-client/internal/cache"
	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
	"github.com/Vision-Tey/scandi-shop-client/internal/repository"
)

type Service struct {
	repo   repository.CartRepository
	cache  cache.CartCache
	logger *zap.Logger
	sfg    singleflight.Group // prevents cache stampede on reads
}

func NewService(repo repository.CartRepository, cache cache.CartCache, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Get returns the session's cart, an empty one if none exists yet.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cache get error", zap.Error(err))
		}

		cart, errGet := s.repo.GetCart(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			return &domain.Cart{
				SessionID: sessionID,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), sessionID, cart); errSet != nil {
				s.logger.Warn("cache set error", zap.Error(errSet))
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddEntry runs the find-or-create merge: an existing line for the same
// product and variant grows by the entry's quantity, otherwise the entry
// is appended.
func (s *Service) AddEntry(ctx context.Context, sessionID string, entry domain.CartEntry) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		c.AddOrIncrement(entry)
		return nil
	})
}

// IncrementLine bumps a line's quantity by one. A missing line is a
// warning, not a failure: the cart comes back unchanged.
func (s *Service) IncrementLine(ctx context.Context, sessionID, productID string, attrs domain.SelectedAttributes) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		if err := c.IncrementLine(productID, attrs); err != nil {
			s.warnMissingLine("increment", sessionID, productID)
		}
		return nil
	})
}

// DecrementLine lowers a line's quantity by one, removing the line when
// it would drop to zero. Missing lines warn and leave state unchanged.
func (s *Service) DecrementLine(ctx context.Context, sessionID, productID string, attrs domain.SelectedAttributes) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		if err := c.DecrementLine(productID, attrs); err != nil {
			s.warnMissingLine("decrement", sessionID, productID)
		}
		return nil
	})
}

// RemoveLine deletes a line entirely. Missing lines warn and leave state
// unchanged.
func (s *Service) RemoveLine(ctx context.Context, sessionID, productID string, attrs domain.SelectedAttributes) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) error {
		if err := c.RemoveLine(productID, attrs); err != nil {
			s.warnMissingLine("remove", sessionID, productID)
		}
		return nil
	})
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteCart(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		s.logger.Error("repo delete cart error", zap.Error(err))
		return err
	}
	s.invalidateCache(sessionID)
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, apply func(*domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if err := apply(cart); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		s.logger.Error("repo upsert cart error", zap.Error(err))
		return nil, fmt.Errorf("store cart: %w", err)
	}

	s.invalidateCache(sessionID)
	return cart, nil
}

func (s *Service) warnMissingLine(op, sessionID, productID string) {
	s.logger.Warn("cart line not found",
		zap.String("op", op),
		zap.String("session_id", sessionID),
		zap.String("product_id", productID))
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("cache invalidate error", zap.Error(err))
	}
}
