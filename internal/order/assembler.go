// Package order turns a cart into an order submission and sends it to
// the order backend.
package order

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

var ErrEmptyCart = errors.New("cannot build an order from an empty cart")

// BuildDraft maps each cart entry to an order line and fixes the status
// to "pending". The draft total equals cart.Total() by construction: both
// are sums of price x quantity over the same entries.
func BuildDraft(cart *domain.Cart, customer domain.CustomerDetails) (*domain.OrderDraft, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := make([]domain.OrderLine, len(cart.Entries))
	var total float64
	for i, entry := range cart.Entries {
		subtotal := entry.Price * float64(entry.Quantity)
		attrs, err := serializeAttributes(entry.Chosen)
		if err != nil {
			return nil, fmt.Errorf("serialize attributes for %s: %w", entry.ProductID, err)
		}
		lines[i] = domain.OrderLine{
			ProductID:  entry.ProductID,
			Quantity:   entry.Quantity,
			TotalPrice: subtotal,
			Attributes: attrs,
		}
		total += subtotal
	}

	return &domain.OrderDraft{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerAddress: customer.Address,
		Status:          domain.OrderStatusPending,
		TotalPrice:      total,
		Lines:           lines,
	}, nil
}

// serializeAttributes snapshots the chosen values only, never the full
// attribute group metadata. The backend treats the blob as opaque.
func serializeAttributes(chosen domain.SelectedAttributes) (string, error) {
	if chosen == nil {
		chosen = domain.SelectedAttributes{}
	}
	data, err := json.Marshal(chosen)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
