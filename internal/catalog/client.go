package catalog

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
	"github.com/sony/gobreaker/v2"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

const catalogQuery = `
query {
    categories {
        name
    }
    products {
        id
        name
        inStock
        description
        category
        brand
        gallery
        attributes {
            name
            items {
                displayValue
                value
                id
            }
        }
        prices {
            amount
            currency {
                label
                symbol
            }
        }
    }
}`

type catalogData struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// Client fetches the catalog from the external GraphQL backend. Calls go
// through a circuit breaker so a flapping backend fails fast instead of
// stacking up requests.
type Client struct {
	gql     *graphql.Client
	breaker *gobreaker.CircuitBreaker[catalogData]
}

func NewClient(endpoint string) *Client {
	return &Client{
		gql: graphql.NewClient(endpoint),
		breaker: gobreaker.NewCircuitBreaker[catalogData](gobreaker.Settings{
			Name: "catalog-backend",
		}),
	}
}

// FetchCatalog runs the catalog query. The request carries no parameters;
// the response shape is consumed as-is.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.Category, []domain.Product, error) {
	data, err := c.breaker.Execute(func() (catalogData, error) {
		var resp catalogData
		req := graphql.NewRequest(catalogQuery)
		if err := c.gql.Run(ctx, req, &resp); err != nil {
			return catalogData{}, err
		}
		return resp, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("catalog query failed: %w", err)
	}
	return data.Categories, data.Products, nil
}
