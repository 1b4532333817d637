package domain

// OrderStatusPending is the only status this service ever sets; the
// backend owns the rest of the order lifecycle.
const OrderStatusPending = "pending"

type CustomerDetails struct {
	Name    string `json:"customer_name"`
	Email   string `json:"customer_email"`
	Address string `json:"customer_address"`
}

// OrderLine carries the chosen attribute values as an opaque serialized
// blob, the shape the order backend expects.
type OrderLine struct {
	ProductID  string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	Attributes string  `json:"attributes"`
}

// OrderDraft is created transiently at submit time and discarded after
// the request resolves.
type OrderDraft struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerAddress string      `json:"customer_address"`
	Status          string      `json:"status"`
	TotalPrice      float64     `json:"total_price"`
	Lines           []OrderLine `json:"products"`
}
