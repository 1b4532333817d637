package domain

type Category struct {
	Name string `json:"name"`
}

type Currency struct {
	Label  string `json:"label" bson:"label"`
	Symbol string `json:"symbol" bson:"symbol"`
}

type Price struct {
	Amount   float64  `json:"amount" bson:"amount"`
	Currency Currency `json:"currency" bson:"currency"`
}

type AttributeItem struct {
	ID           string `json:"id" bson:"id"`
	Value        string `json:"value" bson:"value"`
	DisplayValue string `json:"displayValue,omitempty" bson:"display_value,omitempty"`
}

// AttributeGroup is one selectable option set declared by a product,
// e.g. Size or Color. Item order is the catalog's order; the first
// item is the default selection.
type AttributeGroup struct {
	Name  string          `json:"name" bson:"name"`
	Items []AttributeItem `json:"items" bson:"items"`
}

// Product is immutable once loaded from the catalog.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
	InStock     bool             `json:"inStock"`
	Gallery     []string         `json:"gallery"`
	Prices      []Price          `json:"prices"`
	Attributes  []AttributeGroup `json:"attributes"`
}

// Price returns the product's primary price amount.
func (p *Product) Price() float64 {
	if len(p.Prices) == 0 {
		return 0
	}
	return p.Prices[0].Amount
}

func (p *Product) PriceCurrency() Currency {
	if len(p.Prices) == 0 {
		return Currency{}
	}
	return p.Prices[0].Currency
}

// Image returns the primary gallery image, or "" for products without one.
func (p *Product) Image() string {
	if len(p.Gallery) == 0 {
		return ""
	}
	return p.Gallery[0]
}
