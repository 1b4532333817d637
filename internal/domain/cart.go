package domain

import (
	"errors"
	"time"
)

var ErrLineNotFound = errors.New("line item not found in cart")

// CartEntry is one distinct (product, chosen-variant) line with its own
// quantity. Display fields are copied from the product at add time so the
// cart stays renderable even if the catalog reloads.
type CartEntry struct {
	ProductID   string             `json:"product_id" bson:"product_id"`
	Name        string             `json:"name" bson:"name"`
	Image       string             `json:"image" bson:"image"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Currency    Currency           `json:"currency" bson:"currency"`
	Chosen      SelectedAttributes `json:"chosen_attributes" bson:"chosen_attributes"`
	Attributes  []AttributeGroup   `json:"attributes" bson:"attributes"`
	Quantity    int                `json:"quantity" bson:"quantity"`
}

// NewEntry snapshots a product into a cart entry with the given variant
// selection and quantity.
func NewEntry(p *Product, chosen SelectedAttributes, quantity int) CartEntry {
	return CartEntry{
		ProductID:   p.ID,
		Name:        p.Name,
		Image:       p.Image(),
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price(),
		Currency:    p.PriceCurrency(),
		Chosen:      chosen.Clone(),
		Attributes:  p.Attributes,
		Quantity:    quantity,
	}
}

// Cart holds a session's line items in insertion order. Invariant: no two
// entries share a product id and variant selection, and every entry has
// quantity >= 1.
type Cart struct {
	ID        string      `json:"id,omitempty" bson:"_id,omitempty"`
	SessionID string      `json:"session_id" bson:"session_id"`
	Entries   []CartEntry `json:"entries" bson:"entries"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

func (c *Cart) findLine(productID string, attrs SelectedAttributes) int {
	for i := range c.Entries {
		e := &c.Entries[i]
		if e.ProductID == productID && SameVariant(e.Attributes, e.Chosen, attrs) {
			return i
		}
	}
	return -1
}

// AddOrIncrement merges the entry into an existing line for the same
// product and variant, or appends it as a new line. Entry order is
// preserved; new lines go to the end. Non-positive quantities are
// normalized to 1.
func (c *Cart) AddOrIncrement(entry CartEntry) {
	if entry.Quantity < 1 {
		entry.Quantity = 1
	}
	if i := c.findLine(entry.ProductID, entry.Chosen); i >= 0 {
		c.Entries[i].Quantity += entry.Quantity
		return
	}
	c.Entries = append(c.Entries, entry)
}

// IncrementLine bumps the matching line's quantity by one.
func (c *Cart) IncrementLine(productID string, attrs SelectedAttributes) error {
	i := c.findLine(productID, attrs)
	if i < 0 {
		return ErrLineNotFound
	}
	c.Entries[i].Quantity++
	return nil
}

// DecrementLine lowers the matching line's quantity by one. A line that
// would drop to zero is removed entirely, never kept at zero.
func (c *Cart) DecrementLine(productID string, attrs SelectedAttributes) error {
	i := c.findLine(productID, attrs)
	if i < 0 {
		return ErrLineNotFound
	}
	if c.Entries[i].Quantity <= 1 {
		c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
		return nil
	}
	c.Entries[i].Quantity--
	return nil
}

// RemoveLine deletes the matching line regardless of its quantity.
func (c *Cart) RemoveLine(productID string, attrs SelectedAttributes) error {
	i := c.findLine(productID, attrs)
	if i < 0 {
		return ErrLineNotFound
	}
	c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.Entries = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

// Total is always recomputed from entry contents, never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, e := range c.Entries {
		total += e.Price * float64(e.Quantity)
	}
	return total
}

// Clone returns a deep copy. Entry attribute slices are shared because
// they are immutable catalog data.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Entries = make([]CartEntry, len(c.Entries))
	for i, e := range c.Entries {
		e.Chosen = e.Chosen.Clone()
		out.Entries[i] = e
	}
	return &out
}
