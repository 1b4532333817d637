// Package selection tracks which variant attribute values a shopper has
// chosen for a single product before it goes into the cart.
package selection

import (
	"errors"
	"fmt"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

var (
	ErrUnknownAttribute = errors.New("product does not declare attribute")
	ErrUnknownValue     = errors.New("value not declared by attribute group")
)

// Selection holds per-product transient state. Defaults come from the
// first item of each attribute group; explicit choices override them.
// Attaching a different product discards all previous choices.
type Selection struct {
	product *domain.Product
	chosen  domain.SelectedAttributes
}

func New(p *domain.Product) *Selection {
	s := &Selection{}
	s.Attach(p)
	return s
}

// Attach binds the selection to a product and resets it to defaults.
func (s *Selection) Attach(p *domain.Product) {
	s.product = p
	s.chosen = make(domain.SelectedAttributes)
	if p == nil {
		return
	}
	for _, group := range p.Attributes {
		kind, ok := domain.KindForName(group.Name)
		if !ok || len(group.Items) == 0 {
			continue
		}
		s.chosen[kind] = group.Items[0].Value
	}
}

// Choose overrides one attribute. The product must declare a group for
// the kind and the value must be one of that group's items.
func (s *Selection) Choose(kind domain.AttributeKind, value string) error {
	group, ok := s.groupFor(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, kind)
	}
	for _, item := range group.Items {
		if item.Value == value {
			s.chosen[kind] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s=%q", ErrUnknownValue, kind, value)
}

func (s *Selection) groupFor(kind domain.AttributeKind) (domain.AttributeGroup, bool) {
	if s.product == nil {
		return domain.AttributeGroup{}, false
	}
	for _, group := range s.product.Attributes {
		if k, ok := domain.KindForName(group.Name); ok && k == kind {
			return group, true
		}
	}
	return domain.AttributeGroup{}, false
}

// Ready reports whether every attribute group declared by the product has
// a chosen value, default or explicit. A product with no attribute groups
// is always ready.
func (s *Selection) Ready() bool {
	if s.product == nil {
		return false
	}
	for _, group := range s.product.Attributes {
		kind, ok := domain.KindForName(group.Name)
		if !ok {
			continue
		}
		if _, chosen := s.chosen[kind]; !chosen {
			return false
		}
	}
	return true
}

// Chosen returns a copy of the current selection, ready to feed into the
// cart's AddOrIncrement.
func (s *Selection) Chosen() domain.SelectedAttributes {
	return s.chosen.Clone()
}
