package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Ensure FeedClient implements the Client interface.
var _ Client = (*FeedClient)(nil)

// FeedClient reads ticker prices from a REST price feed. It is read-only:
// live order execution is delegated to an external trading service and is
// deliberately not wired here.
type FeedClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFeedClient creates a feed client against baseURL with the given request
// timeout in seconds.
func NewFeedClient(baseURL string, timeoutSeconds int) *FeedClient {
	return &FeedClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

type tickerPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (c *FeedClient) GetPrice(symbol string) (uint64, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, url.QueryEscape(symbol))
	resp, err := c.httpClient.Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("price feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price feed returned status %d for %s", resp.StatusCode, symbol)
	}

	var ticker tickerPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return 0, fmt.Errorf("failed to decode price feed response: %w", err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("price feed returned non-numeric price %q: %w", ticker.Price, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("price feed returned negative price %q", ticker.Price)
	}
	return uint64(math.Round(price)), nil
}

// Buy is rejected: the feed client exists only to supply prices.
func (c *FeedClient) Buy(ctx context.Context, symbol string, amount uint64) (*Fill, error) {
	return nil, fmt.Errorf("live execution is not supported; configure simulation mode")
}
