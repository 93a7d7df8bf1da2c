// Package products proxies material searches to the SerpAPI Home Depot
// catalog and reshapes provider results for the front end.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/craftwise/craftwise-backend/internal/logging"
)

// SearchTimeout bounds one provider round trip.
const SearchTimeout = 30 * time.Second

const storeName = "Home Depot"

// ErrEmptyQuery is returned when no search term was supplied.
var ErrEmptyQuery = errors.New("query is required")

// ProviderError carries the provider's own failure signal. StatusCode is 0
// for transport-level failures.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("product search provider: %s", e.Message)
	}
	return fmt.Sprintf("product search provider: %s (status %d)", e.Message, e.StatusCode)
}

// Product is one normalized search hit.
type Product struct {
	Title     string  `json:"title"`
	Price     string  `json:"price"`
	Link      string  `json:"link"`
	Thumbnail string  `json:"thumbnail"`
	Rating    float64 `json:"rating,omitempty"`
	Reviews   int     `json:"reviews,omitempty"`
	Store     string  `json:"store"`
}

type serpResponse struct {
	Error    string        `json:"error"`
	Products []serpProduct `json:"products"`
}

type serpProduct struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Link      string  `json:"link"`
	Thumbnail string  `json:"thumbnail"`
	Rating    float64 `json:"rating"`
	Reviews   int     `json:"reviews"`
}

// Client calls the product-search provider. One fixed retailer catalog, no
// retries.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: SearchTimeout},
	}
}

// Search runs one provider query. Zero results is success with an empty
// list, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	logger := logging.NewLogger(ctx)

	u, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("parse provider URL: %w", err)
	}
	q := u.Query()
	q.Set("engine", "home_depot")
	q.Set("q", query)
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.LogError("search_products", err)
		return nil, &ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	var parsed serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.LogError("search_products", err)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: "malformed provider response"}
	}
	if parsed.Error != "" {
		logger.LogWarnf("search_products", "provider error: %s", parsed.Error)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: parsed.Error}
	}
	if resp.StatusCode >= 400 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	out := make([]Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		out = append(out, Product{
			Title:     p.Title,
			Price:     fmt.Sprintf("$%.2f", p.Price),
			Link:      p.Link,
			Thumbnail: p.Thumbnail,
			Rating:    p.Rating,
			Reviews:   p.Reviews,
			Store:     storeName,
		})
	}
	return out, nil
}
