package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
)

// BinanceStream serves quotes from the Binance miniTicker WebSocket feed
// instead of polling REST. It keeps the most recent ticker per symbol in a
// connection-local cache; Fetch returns whatever arrived last.
type BinanceStream struct {
	wsURL        string
	symbols      []string
	pingInterval time.Duration

	mu     sync.RWMutex
	latest map[string]*models.RawQuote // keyed by exchange pair, e.g. BTCUSDT

	conn      *websocket.Conn
	connected bool
}

func NewBinanceStream(wsURL string, symbols []string, pingInterval time.Duration) *BinanceStream {
	if wsURL == "" {
		wsURL = "wss://stream.binance.com:9443"
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &BinanceStream{
		wsURL:        wsURL,
		symbols:      symbols,
		pingInterval: pingInterval,
		latest:       make(map[string]*models.RawQuote),
	}
}

func (s *BinanceStream) Name() string { return "binance-ws" }

// Fetch returns the latest streamed quote for symbol. It never blocks on
// the network; a cold cache is an error the pipeline absorbs like any
// other failed adapter.
func (s *BinanceStream) Fetch(_ context.Context, symbol string) (*models.RawQuote, error) {
	s.mu.RLock()
	q, ok := s.latest[binancePair(symbol)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("binance-ws: no ticker received yet for %s", symbol)
	}
	cp := *q
	cp.Symbol = symbol
	return &cp, nil
}

var _ domrepo.QuoteProvider = (*BinanceStream)(nil)

// Connect dials the combined miniTicker stream for the configured symbols.
func (s *BinanceStream) Connect(ctx context.Context) error {
	streams := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		streams = append(streams, strings.ToLower(binancePair(sym))+"@miniTicker")
	}
	u := fmt.Sprintf("%s/stream?streams=%s", s.wsURL, strings.Join(streams, "/"))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("binance-ws connect: %w", err)
	}
	s.conn = conn
	s.connected = true
	return nil
}

type binanceMiniTicker struct {
	Symbol    string `json:"s"`
	Close     string `json:"c"`
	Volume    string `json:"q"` // quote asset volume
	EventTime int64  `json:"E"` // ms
}

type binanceStreamFrame struct {
	Stream string            `json:"stream"`
	Data   binanceMiniTicker `json:"data"`
}

// Run reads ticker frames until ctx is cancelled, reconnecting on error.
func (s *BinanceStream) Run(ctx context.Context) error {
	if s.conn == nil {
		if err := s.Connect(ctx); err != nil {
			return err
		}
	}

	go s.pingLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, b, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.connected = false
			time.Sleep(time.Second)
			if rerr := s.Connect(ctx); rerr != nil {
				continue
			}
			continue
		}

		var frame binanceStreamFrame
		if err := json.Unmarshal(b, &frame); err != nil {
			continue // ignore non-ticker frames
		}
		if frame.Data.Symbol == "" {
			continue
		}
		s.store(frame.Data)
	}
}

func (s *BinanceStream) store(t binanceMiniTicker) {
	price, err := strconv.ParseFloat(t.Close, 64)
	if err != nil {
		return
	}
	raw := &models.RawQuote{
		SourceName: s.Name(),
		Price:      &price,
		Timestamp:  t.EventTime / 1000,
	}
	if vol, err := strconv.ParseFloat(t.Volume, 64); err == nil {
		raw.Volume24h = &vol
	}
	s.mu.Lock()
	s.latest[t.Symbol] = raw
	s.mu.Unlock()
}

func (s *BinanceStream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.conn != nil {
				_ = s.conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (s *BinanceStream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *BinanceStream) IsConnected() bool { return s.connected }
