// Package price fetches pair quotes from the DexScreener public API.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.dexscreener.com"

// Pair is the slice of the DexScreener pair payload the bot uses.
type Pair struct {
	PriceUSD    string      `json:"priceUsd"`
	PriceChange PriceChange `json:"priceChange"`
	FDV         float64     `json:"fdv"`
	Liquidity   Liquidity   `json:"liquidity"`
	Volume      Volume      `json:"volume"`
}

// PriceChange holds percentage moves per timeframe.
type PriceChange struct {
	M5  float64 `json:"m5"`
	M30 float64 `json:"m30"`
	H1  float64 `json:"h1"`
	H24 float64 `json:"h24"`
}

// Liquidity holds the pair's pooled value.
type Liquidity struct {
	USD float64 `json:"usd"`
}

// Volume holds traded value per timeframe.
type Volume struct {
	H24 float64 `json:"h24"`
}

type pairsResponse struct {
	Pairs []Pair `json:"pairs"`
}

// Client queries pair data for one fixed TON pair.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pair       string
}

// NewClient creates a price client for the given pair address.
func NewClient(pairAddress string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		pair:       pairAddress,
	}
}

// NewClientWithBaseURL is NewClient pointed at a custom endpoint, for tests.
func NewClientWithBaseURL(pairAddress, baseURL string) *Client {
	c := NewClient(pairAddress)
	c.baseURL = baseURL
	return c
}

// PairData fetches the current quote for the configured pair.
func (c *Client) PairData(ctx context.Context) (Pair, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/ton/%s", c.baseURL, c.pair)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to fetch pair data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Pair{}, fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	var payload pairsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Pair{}, fmt.Errorf("failed to decode pair data: %w", err)
	}
	if len(payload.Pairs) == 0 {
		return Pair{}, fmt.Errorf("price API returned no pairs")
	}
	return payload.Pairs[0], nil
}

// ChangeFor returns the percentage move for a timeframe key
// (5m, 30m, 1h, 1d, all).
func (p Pair) ChangeFor(timeframe string) float64 {
	switch timeframe {
	case "5m":
		return p.PriceChange.M5
	case "30m":
		return p.PriceChange.M30
	case "1h":
		return p.PriceChange.H1
	default:
		return p.PriceChange.H24
	}
}
