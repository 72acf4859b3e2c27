// Package commerce wraps the external commerce platform's REST API. The
// storefront treats it as the source of truth for pricing and stock: every
// add-to-cart re-reads the product so the cart never trusts client-supplied
// prices.
package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/metrics"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

const (
	defaultRequestTimeout       = 10 * time.Second
	defaultRetryBackoff         = 250 * time.Millisecond
	defaultMaxRetries     uint64 = 3
	errorBodyReadLimit    int64  = 1024
)

var errBaseURLRequired = errors.New("commerce base URL is required")

// Client talks to the commerce platform's REST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	maxRetries     uint64
	retryBackoff   time.Duration
	metrics        *metrics.CartMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAuth sets the consumer key/secret pair sent as basic auth.
func WithAuth(key, secret string) Option {
	return func(c *Client) {
		c.consumerKey = strings.TrimSpace(key)
		c.consumerSecret = strings.TrimSpace(secret)
	}
}

// WithRetry overrides the retry budget for transient failures.
func WithRetry(maxRetries uint64, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		if backoff > 0 {
			c.retryBackoff = backoff
		}
	}
}

// WithMetrics records request latency on the provided collector.
func WithMetrics(m *metrics.CartMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the commerce client for the given API base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:      strings.TrimRight(trimmed, "/"),
		httpClient:   &http.Client{Timeout: defaultRequestTimeout},
		maxRetries:   defaultMaxRetries,
		retryBackoff: defaultRetryBackoff,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	return client, nil
}

// ProductSnapshot is the slice of product state the cart captures at add time.
type ProductSnapshot struct {
	ProductID     int
	VariationID   *int
	Name          string
	Slug          string
	Image         string
	UnitPrice     decimal.Decimal
	StockQuantity *int
	Purchasable   bool
}

// GetProduct fetches the current price, stock, and display data for a product
// or one of its variations.
func (c *Client) GetProduct(ctx context.Context, productID int, variationID *int) (*ProductSnapshot, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if productID < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product ID is required")
	}

	path := fmt.Sprintf("products/%d", productID)
	if variationID != nil {
		path = fmt.Sprintf("products/%d/variations/%d", productID, *variationID)
	}

	start := time.Now()
	body, err := c.doGet(ctx, path)
	c.metrics.ObserveCommerceLatency("get_product", time.Since(start))
	if err != nil {
		return nil, err
	}

	var apiResp struct {
		ID            int    `json:"id"`
		Name          string `json:"name"`
		Slug          string `json:"slug"`
		Price         string `json:"price"`
		StockQuantity *int   `json:"stock_quantity"`
		ManageStock   bool   `json:"manage_stock"`
		Purchasable   bool   `json:"purchasable"`
		Images        []struct {
			Src string `json:"src"`
		} `json:"images"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product response")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(apiResp.Price))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse product price")
	}

	snap := &ProductSnapshot{
		ProductID:   productID,
		VariationID: variationID,
		Name:        apiResp.Name,
		Slug:        apiResp.Slug,
		UnitPrice:   price,
		Purchasable: apiResp.Purchasable,
	}
	if apiResp.ManageStock && apiResp.StockQuantity != nil {
		qty := *apiResp.StockQuantity
		snap.StockQuantity = &qty
	}
	if len(apiResp.Images) > 0 {
		snap.Image = apiResp.Images[0].Src
	}

	return snap, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// do executes one API call with retries on network failures and 5xx
// responses. The request body is rebuilt per attempt.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBackoff))

	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = strings.NewReader(string(payload))
		}

		req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build commerce request")
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.consumerKey != "" {
			req.SetBasicAuth(c.consumerKey, c.consumerSecret)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute commerce request"))
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= http.StatusInternalServerError {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
			return retry.RetryableError(pkgerrors.Wrap(
				pkgerrors.CodeDependency,
				fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
				"commerce request failed",
			))
		}
		if resp.StatusCode == http.StatusNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
			return pkgerrors.Wrap(
				pkgerrors.CodeDependency,
				fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
				"commerce request rejected",
			)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read commerce response"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
