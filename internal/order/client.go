package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/machinebox/graphql"
	"github.com/sony/gobreaker/v2"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

const createOrderMutation = `
mutation CreateOrder(
    $customer_name: String!,
    $customer_email: String!,
    $customer_address: String!,
    $status: String!,
    $total_price: Float!,
    $products: [OrderProductInput!]!
) {
    createOrder(
        customer_name: $customer_name,
        customer_email: $customer_email,
        customer_address: $customer_address,
        status: $status,
        total_price: $total_price,
        products: $products
    )
}`

// Client submits order drafts to the external GraphQL backend.
type Client struct {
	gql     *graphql.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewClient(endpoint string) *Client {
	return &Client{
		gql: graphql.NewClient(endpoint),
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name: "order-backend",
		}),
	}
}

// CreateOrder runs the createOrder mutation and returns the backend's
// acknowledgement (order id or success flag, scalar either way).
func (c *Client) CreateOrder(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	ack, err := c.breaker.Execute(func() (string, error) {
		req := graphql.NewRequest(createOrderMutation)
		req.Var("customer_name", draft.CustomerName)
		req.Var("customer_email", draft.CustomerEmail)
		req.Var("customer_address", draft.CustomerAddress)
		req.Var("status", draft.Status)
		req.Var("total_price", draft.TotalPrice)
		req.Var("products", draft.Lines)

		var resp struct {
			CreateOrder json.RawMessage `json:"createOrder"`
		}
		if err := c.gql.Run(ctx, req, &resp); err != nil {
			return "", err
		}
		return strings.Trim(string(resp.CreateOrder), `"`), nil
	})
	if err != nil {
		return "", fmt.Errorf("create order failed: %w", err)
	}
	return ack, nil
}
