package providers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
	xhttp "CoinSentry/pkg/http"
)

// Coinbase fetches spot ticker data from the Coinbase Exchange public API.
type Coinbase struct {
	baseURL string
	client  *xhttp.Client
}

func NewCoinbase(baseURL string, timeout time.Duration) domrepo.QuoteProvider {
	if baseURL == "" {
		baseURL = "https://api.exchange.coinbase.com"
	}
	return &Coinbase{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (c *Coinbase) Name() string { return "coinbase" }

type coinbaseTicker struct {
	Price  string `json:"price"`
	Volume string `json:"volume"`
	Time   string `json:"time"` // RFC3339
}

func (c *Coinbase) Fetch(ctx context.Context, symbol string) (*models.RawQuote, error) {
	var t coinbaseTicker
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/products/%s/ticker", c.baseURL, symbol),
	}, &t)
	if err != nil {
		return nil, fmt.Errorf("coinbase ticker: %w", err)
	}

	price, err := strconv.ParseFloat(t.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("coinbase price parse: %w", err)
	}

	ts := time.Now().Unix()
	if parsed, err := time.Parse(time.RFC3339, t.Time); err == nil {
		ts = parsed.Unix()
	}

	raw := &models.RawQuote{
		SourceName: c.Name(),
		Symbol:     symbol,
		Price:      &price,
		Timestamp:  ts,
	}
	if vol, err := strconv.ParseFloat(t.Volume, 64); err == nil {
		raw.Volume24h = &vol
	}
	return raw, nil
}
