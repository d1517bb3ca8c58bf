package usecase

import (
	"context"
	"sync"
	"time"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
	"CoinSentry/internal/service/ratelimit"
	"CoinSentry/internal/services/validation"
	"CoinSentry/pkg/config"
	xlogger "CoinSentry/pkg/logger"
)

// ValidationPipeline is the orchestrator: it fans out to all provider
// adapters, walks the per-request state machine, and assembles one
// immutable ValidationResult. Nothing it does may ever fail the caller;
// every internal error is absorbed into a degraded outcome.
type ValidationPipeline struct {
	providers []domrepo.QuoteProvider
	schema    *validation.SchemaValidator
	consensus *validation.ConsensusCalculator
	detector  *validation.DiscrepancyDetector
	arbitrage *validation.ArbitrageDetector
	scorer    *validation.ConfidenceScorer
	emitter   *validation.AlertEmitter
	tracker   *ReliabilityTracker
	notifier  domrepo.Notifier
	archive   domrepo.RunArchive
	metrics   domrepo.Metrics
	limiter   *ratelimit.Limiter
	logger    *xlogger.Logger
	cfg       config.ValidationConfig

	rateCapacity float64
	rateRefill   float64
}

func NewValidationPipeline(
	providers []domrepo.QuoteProvider,
	schema *validation.SchemaValidator,
	consensus *validation.ConsensusCalculator,
	detector *validation.DiscrepancyDetector,
	arbitrage *validation.ArbitrageDetector,
	scorer *validation.ConfidenceScorer,
	emitter *validation.AlertEmitter,
	tracker *ReliabilityTracker,
	notifier domrepo.Notifier,
	archive domrepo.RunArchive,
	metrics domrepo.Metrics,
	limiter *ratelimit.Limiter,
	logger *xlogger.Logger,
	cfg config.ValidationConfig,
	rateCapacity, rateRefill float64,
) *ValidationPipeline {
	return &ValidationPipeline{
		providers:    providers,
		schema:       schema,
		consensus:    consensus,
		detector:     detector,
		arbitrage:    arbitrage,
		scorer:       scorer,
		emitter:      emitter,
		tracker:      tracker,
		notifier:     notifier,
		archive:      archive,
		metrics:      metrics,
		limiter:      limiter,
		logger:       logger,
		cfg:          cfg,
		rateCapacity: rateCapacity,
		rateRefill:   rateRefill,
	}
}

// Run executes the pipeline for one symbol under the hard timeout and
// returns a tagged Outcome (Done or Skipped). It never returns an error.
func (p *ValidationPipeline) Run(ctx context.Context, symbol string) models.Outcome {
	start := time.Now()

	if !p.cfg.Enabled || !p.cfg.Domains.Market {
		p.metrics.RecordRun(symbol, models.StateSkipped, time.Since(start))
		return models.Outcome{State: models.StateSkipped, Reason: models.SkipDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	raw, timedOut := p.fanOut(ctx, symbol)
	if timedOut && len(raw) == 0 {
		p.logger.Warn("validation pipeline timed out before any adapter settled",
			xlogger.String("symbol", symbol))
		p.metrics.RecordRun(symbol, models.StateSkipped, time.Since(start))
		return models.Outcome{State: models.StateSkipped, Reason: models.SkipTimeout}
	}

	// From here the pipeline is pure computation: even if the deadline
	// fires mid-flight we finish with the quotes already in hand.
	result := p.assemble(ctx, symbol, raw, start)

	p.metrics.RecordRun(symbol, models.StateDone, time.Since(start))
	p.metrics.RecordConfidence(symbol, result.Confidence)

	p.finish(symbol, result)

	return models.Outcome{State: models.StateDone, Result: result}
}

type fetchItem struct {
	quote *models.RawQuote
	src   string
	err   error
}

// fanOut calls every adapter concurrently and fans back in once all have
// settled or the deadline elapses, whichever first. Quotes arriving after
// cancellation are discarded with the buffered channel.
func (p *ValidationPipeline) fanOut(ctx context.Context, symbol string) ([]*models.RawQuote, bool) {
	ch := make(chan fetchItem, len(p.providers))
	var wg sync.WaitGroup

	for _, prov := range p.providers {
		if !p.limiter.Allow(prov.Name(), p.rateCapacity, p.rateRefill) {
			p.logger.Warn("provider rate limited, skipping this run",
				xlogger.String("source", prov.Name()))
			continue
		}
		wg.Add(1)
		go func(prov domrepo.QuoteProvider) {
			defer wg.Done()
			fs := time.Now()
			q, err := prov.Fetch(ctx, symbol)
			p.metrics.RecordProviderLatency(prov.Name(), time.Since(fs).Seconds())
			ch <- fetchItem{quote: q, src: prov.Name(), err: err}
		}(prov)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	var quotes []*models.RawQuote
	pending := true
	for pending {
		select {
		case it := <-ch:
			if it.err != nil {
				p.logger.Warn("provider fetch failed",
					xlogger.String("source", it.src), xlogger.Error(it.err))
				continue
			}
			if it.quote != nil {
				quotes = append(quotes, it.quote)
			}
		case <-done:
			// drain anything already buffered
			for {
				select {
				case it := <-ch:
					if it.err == nil && it.quote != nil {
						quotes = append(quotes, it.quote)
					}
					continue
				default:
				}
				break
			}
			pending = false
		case <-ctx.Done():
			return quotes, true
		}
	}
	return quotes, false
}

// assemble walks VALIDATING_SCHEMAS through EMITTING_ALERTS and builds the
// immutable result.
func (p *ValidationPipeline) assemble(ctx context.Context, symbol string, raw []*models.RawQuote, start time.Time) *models.ValidationResult {
	expected := len(p.providers)

	// VALIDATING_SCHEMAS
	valid := make([]*models.Quote, 0, len(raw))
	rejected := 0
	for _, rq := range raw {
		q, err := p.schema.Validate(rq)
		if err != nil {
			rejected++
			name := "unknown"
			reason := err.Error()
			if serr, ok := err.(*validation.SchemaError); ok {
				name = serr.Source
				reason = serr.Reason
			}
			p.metrics.RecordSourceRejected(name, reason)
			p.logger.Warn("source rejected by schema validation",
				xlogger.String("source", name), xlogger.String("reason", reason))
			continue
		}
		valid = append(valid, q)
	}

	result := &models.ValidationResult{
		Symbol: symbol,
		RanAt:  start,
		Summary: models.DataQualitySummary{
			SourcesExpected: expected,
			SourcesUsed:     len(valid),
			SourcesRejected: rejected,
			QuorumMet:       len(valid) >= p.cfg.MinQuorum,
		},
	}

	// Below the absolute floor there is nothing to reconcile.
	if len(valid) < p.cfg.SourceFloor {
		result.IsValid = false
		result.Confidence = 0
		result.ElapsedMs = time.Since(start).Milliseconds()
		return result
	}
	result.IsValid = true

	if !result.Summary.QuorumMet {
		qerr := &validation.QuorumError{Got: len(valid), Want: p.cfg.MinQuorum}
		p.logger.Warn("quorum not met, returning best-effort consensus",
			xlogger.String("symbol", symbol), xlogger.Error(qerr))
	}

	// COMPUTING_CONSENSUS
	names := make([]string, 0, len(valid))
	for _, q := range valid {
		names = append(names, q.SourceName)
	}
	trust := p.tracker.Weights(ctx, names)
	consensus := p.consensus.Compute(valid, trust)
	result.Consensus = consensus

	var sum float64
	for _, w := range trust {
		sum += w
	}
	if len(trust) > 0 {
		result.Summary.AvgTrustWeight = sum / float64(len(trust))
	}

	// DETECTING_ANOMALIES (and, independently, arbitrage on raw quotes)
	result.Discrepancies = p.detector.Detect(valid, consensus)
	result.Opportunities = p.arbitrage.FindOpportunities(valid)

	// SCORING
	result.Confidence = p.scorer.Score(result.Discrepancies, trust, len(valid), expected, consensus.MeanMedianSplit)

	// EMITTING_ALERTS
	result.Alerts = p.emitter.Emit(symbol, result.Discrepancies, result.Opportunities, result.Confidence)
	for _, a := range result.Alerts {
		p.metrics.RecordAlert(a.Severity, a.Type)
	}

	result.ElapsedMs = time.Since(start).Milliseconds()
	return result
}

// finish runs the after-return side effects: critical notifications, run
// archiving, and the reliability feedback loop. All fire-and-forget; the
// result has already been assembled and none of this can affect it.
func (p *ValidationPipeline) finish(symbol string, result *models.ValidationResult) {
	var critical []models.Alert
	for _, a := range result.Alerts {
		if a.Severity == models.SeverityCritical {
			critical = append(critical, a)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if len(critical) > 0 && p.notifier != nil {
			if err := p.notifier.NotifyCritical(ctx, symbol, critical); err != nil {
				p.logger.Error("critical alert notification failed", xlogger.Error(err))
			}
		}

		if p.archive != nil {
			if err := p.archive.Record(ctx, result); err != nil {
				p.logger.Warn("run archive write failed", xlogger.Error(err))
			}
		}

		if result.Consensus != nil && result.Consensus.ConsensusPrice > 0 {
			p.tracker.RecordRun(ctx, observations(result))
		}
	}()
}

// observations derives each used source's deviation from consensus.
func observations(result *models.ValidationResult) []models.Observation {
	cons := result.Consensus
	byName := make(map[string]float64)
	for _, d := range result.Discrepancies {
		if d.Metric != models.MetricPrice {
			continue
		}
		for _, sv := range d.Sources {
			byName[sv.Name] = sv.Value
		}
	}

	obs := make([]models.Observation, 0, len(cons.SourcesUsed))
	for _, name := range cons.SourcesUsed {
		dev := 0.0
		if v, ok := byName[name]; ok {
			dev = (v - cons.ConsensusPrice) / cons.ConsensusPrice
			if dev < 0 {
				dev = -dev
			}
		}
		obs = append(obs, models.Observation{
			SourceName: name,
			Deviation:  dev,
			ObservedAt: result.RanAt,
		})
	}
	return obs
}
