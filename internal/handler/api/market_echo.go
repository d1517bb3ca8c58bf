package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
	"CoinSentry/internal/usecase"
	xhttp "CoinSentry/pkg/http"
	xlogger "CoinSentry/pkg/logger"
)

// MarketEchoHandler exposes the validated consensus data over HTTP.
type MarketEchoHandler struct {
	logger    *xlogger.Logger
	pipeline  *usecase.ValidationPipeline
	tracker   *usecase.ReliabilityTracker
	providers []domrepo.QuoteProvider
}

func NewMarketEchoHandler(logger *xlogger.Logger, pipeline *usecase.ValidationPipeline, tracker *usecase.ReliabilityTracker, providers []domrepo.QuoteProvider) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, pipeline: pipeline, tracker: tracker, providers: providers}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/market/quote", h.Quote)
	g.GET("/market/arbitrage", h.Arbitrage)
	g.GET("/validation/sources", h.Sources)
	e.GET("/healthz", h.Health)
}

// Quote serves the consensus quote with the validation artifact attached.
// When the engine is skipped the endpoint falls back to the first provider
// that answers and simply omits the validation field.
func (h *MarketEchoHandler) Quote(c echo.Context) error {
	req := &models.MarketQuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	outcome := h.pipeline.Run(c.Request().Context(), req.Symbol)
	if outcome.Done() && outcome.Result.Consensus != nil && outcome.Result.Consensus.ConsensusPrice > 0 {
		res := outcome.Result
		return xhttp.SuccessResponse(c, &models.MarketQuoteResponse{
			Symbol:     req.Symbol,
			Price:      res.Consensus.ConsensusPrice,
			Volume24h:  res.Consensus.ConsensusVolume,
			Source:     "consensus",
			Validation: res,
		})
	}

	// Degraded path: primary data still gets served.
	resp, err := h.fallbackQuote(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("quote fallback failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no quote available for %s", req.Symbol))
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *MarketEchoHandler) fallbackQuote(ctx context.Context, symbol string) (*models.MarketQuoteResponse, error) {
	var lastErr error
	for _, prov := range h.providers {
		raw, err := prov.Fetch(ctx, symbol)
		if err != nil {
			lastErr = err
			continue
		}
		if raw == nil || raw.Price == nil {
			continue
		}
		resp := &models.MarketQuoteResponse{
			Symbol: symbol,
			Price:  *raw.Price,
			Source: prov.Name(),
		}
		if raw.Volume24h != nil {
			resp.Volume24h = *raw.Volume24h
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = context.DeadlineExceeded
	}
	return nil, lastErr
}

// Arbitrage surfaces the current profitable spreads for a symbol.
func (h *MarketEchoHandler) Arbitrage(c echo.Context) error {
	req := &models.ArbitrageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	outcome := h.pipeline.Run(c.Request().Context(), req.Symbol)
	if !outcome.Done() {
		return xhttp.SuccessResponse(c, []models.Opportunity{})
	}
	ops := outcome.Result.Opportunities
	if ops == nil {
		ops = []models.Opportunity{}
	}
	return xhttp.SuccessResponse(c, ops)
}

// Sources lists every tracked source with its trust weight.
func (h *MarketEchoHandler) Sources(c echo.Context) error {
	rows, err := h.tracker.List(c.Request().Context())
	if err != nil {
		h.logger.Error("reliability listing failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not list sources"))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *MarketEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
