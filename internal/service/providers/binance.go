package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
	xhttp "CoinSentry/pkg/http"
)

// Binance fetches spot ticker data from the Binance public REST API.
type Binance struct {
	baseURL string
	client  *xhttp.Client
}

func NewBinance(baseURL string, timeout time.Duration) domrepo.QuoteProvider {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &Binance{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (b *Binance) Name() string { return "binance" }

type binanceTicker struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
	Volume    string `json:"quoteVolume"`
	CloseTime int64  `json:"closeTime"` // ms
}

func (b *Binance) Fetch(ctx context.Context, symbol string) (*models.RawQuote, error) {
	var t binanceTicker
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + "/api/v3/ticker/24hr",
		QueryParams: map[string][]string{"symbol": {binancePair(symbol)}},
	}, &t)
	if err != nil {
		return nil, fmt.Errorf("binance ticker: %w", err)
	}

	price, err := strconv.ParseFloat(t.LastPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("binance price parse: %w", err)
	}
	raw := &models.RawQuote{
		SourceName: b.Name(),
		Symbol:     symbol,
		Price:      &price,
		Timestamp:  t.CloseTime / 1000,
	}
	if vol, err := strconv.ParseFloat(t.Volume, 64); err == nil {
		raw.Volume24h = &vol
	}
	return raw, nil
}

// binancePair maps a canonical "BTC-USD" symbol to Binance's "BTCUSDT".
func binancePair(symbol string) string {
	base, quote, ok := strings.Cut(symbol, "-")
	if !ok {
		return strings.ToUpper(symbol)
	}
	if strings.EqualFold(quote, "USD") {
		quote = "USDT"
	}
	return strings.ToUpper(base + quote)
}
