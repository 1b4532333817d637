package repository

import (
	"context"
	"errors"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository persists whole session carts. Line-item semantics live
// in the domain; implementations only store and retrieve.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
