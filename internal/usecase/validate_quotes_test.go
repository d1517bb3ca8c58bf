package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
	"CoinSentry/internal/repository"
	"CoinSentry/internal/service/ratelimit"
	"CoinSentry/internal/services/validation"
	"CoinSentry/pkg/config"
	xlogger "CoinSentry/pkg/logger"
)

type stubProvider struct {
	name  string
	price float64
	block bool
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context, symbol string) (*models.RawQuote, error) {
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	price := p.price
	vol := 10000.0
	return &models.RawQuote{
		SourceName: p.name,
		Symbol:     symbol,
		Price:      &price,
		Volume24h:  &vol,
		Timestamp:  time.Now().Unix(),
	}, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordRun(string, models.PipelineState, time.Duration) {}
func (noopMetrics) RecordConfidence(string, int)                          {}
func (noopMetrics) RecordAlert(string, string)                            {}
func (noopMetrics) RecordSourceRejected(string, string)                   {}
func (noopMetrics) RecordProviderLatency(string, float64)                 {}

func testValidationConfig() config.ValidationConfig {
	cfg := config.ValidationConfig{
		Enabled:                true,
		Timeout:                time.Second,
		MinQuorum:              2,
		SourceFloor:            1,
		QuoteMaxAge:            5 * time.Minute,
		SmoothingAlpha:         0.1,
		DecayWindow:            168 * time.Hour,
		NeutralWeight:          0.5,
		MinWeight:              0.05,
		MaxWeight:              0.95,
		WeightCacheTTL:         30 * time.Second,
		PriceWarnPct:           0.015,
		PriceCriticalPct:       0.05,
		VolumeWarnPct:          0.10,
		VolumeCriticalPct:      0.25,
		ArbitrageMinSpread:     0.02,
		MeanMedianSanity:       0.02,
		LowConfidenceThreshold: 60,
		SingleSourceCeiling:    50,
		WarningPenalty:         10,
		CriticalPenalty:        25,
		TrustBonusMax:          10,
	}
	cfg.Domains.Market = true
	return cfg
}

func newTestPipeline(t *testing.T, cfg config.ValidationConfig, providers ...domrepo.QuoteProvider) *ValidationPipeline {
	t.Helper()

	l := xlogger.Nop()
	tracker := NewReliabilityTracker(repository.NewMemoryReliabilityStore(), validation.TrustConfig{
		Alpha:       cfg.SmoothingAlpha,
		Neutral:     cfg.NeutralWeight,
		Min:         cfg.MinWeight,
		Max:         cfg.MaxWeight,
		DevCeiling:  validation.DefaultDevCeiling,
		DecayWindow: cfg.DecayWindow,
	}, cfg.WeightCacheTTL, l)

	return NewValidationPipeline(
		providers,
		validation.NewSchemaValidator(cfg.QuoteMaxAge),
		validation.NewConsensusCalculator(cfg.NeutralWeight),
		validation.NewDiscrepancyDetector(validation.Thresholds{
			PriceWarn:      cfg.PriceWarnPct,
			PriceCritical:  cfg.PriceCriticalPct,
			VolumeWarn:     cfg.VolumeWarnPct,
			VolumeCritical: cfg.VolumeCriticalPct,
		}),
		validation.NewArbitrageDetector(cfg.ArbitrageMinSpread),
		validation.NewConfidenceScorer(validation.ScoreConfig{
			WarningPenalty:      cfg.WarningPenalty,
			CriticalPenalty:     cfg.CriticalPenalty,
			SanityPenalty:       cfg.WarningPenalty,
			MeanMedianSanity:    cfg.MeanMedianSanity,
			TrustBonusMax:       cfg.TrustBonusMax,
			SingleSourceCeiling: cfg.SingleSourceCeiling,
		}),
		validation.NewAlertEmitter(cfg.LowConfidenceThreshold),
		tracker,
		nil,
		nil,
		noopMetrics{},
		ratelimit.New(),
		l,
		cfg,
		100, 100,
	)
}

func TestRunDisabled(t *testing.T) {
	cfg := testValidationConfig()
	cfg.Enabled = false
	p := newTestPipeline(t, cfg, &stubProvider{name: "binance", price: 95000})

	out := p.Run(context.Background(), "BTC-USD")
	require.Equal(t, models.StateSkipped, out.State)
	assert.Equal(t, models.SkipDisabled, out.Reason)
	assert.Nil(t, out.Result)
}

func TestRunHappyPath(t *testing.T) {
	cfg := testValidationConfig()
	p := newTestPipeline(t, cfg,
		&stubProvider{name: "binance", price: 95000},
		&stubProvider{name: "coinbase", price: 95000},
		&stubProvider{name: "kraken", price: 95000},
	)

	out := p.Run(context.Background(), "BTC-USD")
	require.True(t, out.Done())

	res := out.Result
	assert.True(t, res.IsValid)
	assert.Equal(t, 100, res.Confidence)
	assert.Empty(t, res.Discrepancies)
	assert.Empty(t, res.Alerts)
	assert.InDelta(t, 95000, res.Consensus.ConsensusPrice, 1e-6)
	assert.True(t, res.Summary.QuorumMet)
	assert.Equal(t, 3, res.Summary.SourcesUsed)
}

func TestRunCriticalOutlier(t *testing.T) {
	cfg := testValidationConfig()
	p := newTestPipeline(t, cfg,
		&stubProvider{name: "binance", price: 95000},
		&stubProvider{name: "coinbase", price: 94500},
		&stubProvider{name: "kraken", price: 95200},
		&stubProvider{name: "shady", price: 101000},
	)

	out := p.Run(context.Background(), "BTC-USD")
	require.True(t, out.Done())

	res := out.Result
	require.NotEmpty(t, res.Discrepancies)
	assert.True(t, res.Discrepancies[0].Critical)
	assert.Equal(t, "shady", res.Discrepancies[0].Outlier)

	var critical int
	for _, a := range res.Alerts {
		if a.Severity == models.SeverityCritical {
			critical++
		}
	}
	assert.Equal(t, 1, critical)
	assert.NotEmpty(t, res.Opportunities, "6.8%% spread is arbitrage territory")
	assert.Less(t, res.Confidence, 100)
}

func TestRunSingleSourceCeiling(t *testing.T) {
	cfg := testValidationConfig()
	p := newTestPipeline(t, cfg, &stubProvider{name: "binance", price: 95000})

	out := p.Run(context.Background(), "BTC-USD")
	require.True(t, out.Done())

	res := out.Result
	assert.True(t, res.IsValid, "floor of one source is met")
	assert.False(t, res.Summary.QuorumMet)
	assert.LessOrEqual(t, res.Confidence, cfg.SingleSourceCeiling)
}

func TestRunAllProvidersHang(t *testing.T) {
	cfg := testValidationConfig()
	cfg.Timeout = 150 * time.Millisecond
	p := newTestPipeline(t, cfg,
		&stubProvider{name: "binance", block: true},
		&stubProvider{name: "coinbase", block: true},
	)

	start := time.Now()
	out := p.Run(context.Background(), "BTC-USD")
	elapsed := time.Since(start)

	require.Equal(t, models.StateSkipped, out.State)
	assert.Equal(t, models.SkipTimeout, out.Reason)
	assert.Less(t, elapsed, cfg.Timeout+500*time.Millisecond,
		"pipeline must settle within timeout plus scheduling slack")
}

func TestRunPartialTimeout(t *testing.T) {
	cfg := testValidationConfig()
	cfg.Timeout = 300 * time.Millisecond
	p := newTestPipeline(t, cfg,
		&stubProvider{name: "binance", price: 95000},
		&stubProvider{name: "coinbase", block: true},
	)

	out := p.Run(context.Background(), "BTC-USD")
	require.True(t, out.Done(), "quotes in hand at deadline must still produce a result")
	assert.Equal(t, 1, out.Result.Summary.SourcesUsed)
	assert.Equal(t, 2, out.Result.Summary.SourcesExpected)
}
