// Package pricing implements the HTTP client for the external market data
// service. Each lookup is a single best-effort attempt: no retries, no
// caching. Every failure mode (transport error, non-2xx status, malformed
// body, missing field) collapses into a plain error so that callers only
// ever decide "price or fallback".
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/folioflow/portfolio-backend/internal/domain"
)

// Client looks up current unit prices from the market data service.
// It implements domain.PriceSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a pricing client against baseURL (e.g.
// "http://marketdataservice:8010"). A zero timeout falls back to 10s;
// lookups must never block a snapshot run indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Price fetches the current unit price for a priced holding kind.
// Stock and crypto responses carry the price in "current_price"; mutual fund
// responses carry it in "nav". Any other response shape is a lookup failure.
func (c *Client) Price(ctx context.Context, kind domain.HoldingKind, identifier string) (decimal.Decimal, error) {
	field, err := priceField(kind)
	if err != nil {
		return decimal.Zero, err
	}
	if identifier == "" {
		return decimal.Zero, fmt.Errorf("empty identifier for %s price lookup", kind)
	}

	endpoint := fmt.Sprintf("%s/price/%s/%s", c.baseURL, kind, url.PathEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price lookup for %s %q failed: %w", kind, identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("price lookup for %s %q returned status %d", kind, identifier, resp.StatusCode)
	}

	// The service may send the price as a JSON number or a string;
	// UseNumber keeps full precision either way.
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var body map[string]interface{}
	if err := decoder.Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode price response for %s %q: %w", kind, identifier, err)
	}

	raw, ok := body[field]
	if !ok {
		return decimal.Zero, fmt.Errorf("price response for %s %q is missing %q", kind, identifier, field)
	}

	var priceStr string
	switch v := raw.(type) {
	case json.Number:
		priceStr = v.String()
	case string:
		priceStr = v
	default:
		return decimal.Zero, fmt.Errorf("price response for %s %q has non-numeric %q", kind, identifier, field)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %q in price response for %s %q: %w", field, kind, identifier, err)
	}

	return price, nil
}

// priceField maps a holding kind to the response field carrying its price
func priceField(kind domain.HoldingKind) (string, error) {
	switch kind {
	case domain.HoldingKindStock, domain.HoldingKindCrypto:
		return "current_price", nil
	case domain.HoldingKindMutualFund:
		return "nav", nil
	default:
		return "", fmt.Errorf("no live pricing for holding kind %q", kind)
	}
}
