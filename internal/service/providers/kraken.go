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

// Kraken fetches spot ticker data from the Kraken public REST API.
type Kraken struct {
	baseURL string
	client  *xhttp.Client
}

func NewKraken(baseURL string, timeout time.Duration) domrepo.QuoteProvider {
	if baseURL == "" {
		baseURL = "https://api.kraken.com"
	}
	return &Kraken{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (k *Kraken) Name() string { return "kraken" }

type krakenTicker struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		C []string `json:"c"` // last trade closed: [price, lot volume]
		V []string `json:"v"` // volume: [today, last 24h]
	} `json:"result"`
}

func (k *Kraken) Fetch(ctx context.Context, symbol string) (*models.RawQuote, error) {
	var t krakenTicker
	err := k.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         k.baseURL + "/0/public/Ticker",
		QueryParams: map[string][]string{"pair": {krakenPair(symbol)}},
	}, &t)
	if err != nil {
		return nil, fmt.Errorf("kraken ticker: %w", err)
	}
	if len(t.Error) > 0 {
		return nil, fmt.Errorf("kraken api: %s", strings.Join(t.Error, "; "))
	}

	// The result key is Kraken's internal pair name; take the first entry.
	for _, pair := range t.Result {
		if len(pair.C) == 0 {
			break
		}
		price, err := strconv.ParseFloat(pair.C[0], 64)
		if err != nil {
			return nil, fmt.Errorf("kraken price parse: %w", err)
		}
		raw := &models.RawQuote{
			SourceName: k.Name(),
			Symbol:     symbol,
			Price:      &price,
			Timestamp:  time.Now().Unix(),
		}
		if len(pair.V) > 1 {
			if vol, err := strconv.ParseFloat(pair.V[1], 64); err == nil {
				raw.Volume24h = &vol
			}
		}
		return raw, nil
	}
	return nil, fmt.Errorf("kraken: empty ticker result for %s", symbol)
}

// krakenPair maps a canonical "BTC-USD" symbol to Kraken's "XBTUSD".
func krakenPair(symbol string) string {
	base, quote, ok := strings.Cut(symbol, "-")
	if !ok {
		return strings.ToUpper(symbol)
	}
	if strings.EqualFold(base, "BTC") {
		base = "XBT"
	}
	return strings.ToUpper(base + quote)
}
