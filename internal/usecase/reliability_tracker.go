package usecase

import (
	"context"
	"time"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
	icache "CoinSentry/internal/service/cache"
	"CoinSentry/internal/services/validation"
	xlogger "CoinSentry/pkg/logger"
)

// ReliabilityTracker maintains the persisted per-source trust weights, the
// only state shared across requests. Reads go through a short-lived
// in-process cache; writes are serialized per source by the store.
type ReliabilityTracker struct {
	store    domrepo.ReliabilityStore
	cache    *icache.TTLCache
	cfg      validation.TrustConfig
	cacheTTL time.Duration
	logger   *xlogger.Logger
	now      func() time.Time
}

func NewReliabilityTracker(store domrepo.ReliabilityStore, cfg validation.TrustConfig, cacheTTL time.Duration, logger *xlogger.Logger) *ReliabilityTracker {
	return &ReliabilityTracker{
		store:    store,
		cache:    icache.NewTTLCache(),
		cfg:      cfg,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (t *ReliabilityTracker) WithClock(now func() time.Time) *ReliabilityTracker {
	t.now = now
	return t
}

// Weights returns the current trust weight for each named source, decayed
// toward neutral where the source has been silent beyond the decay window.
// Unknown sources get the neutral default. Read failures fall back to
// neutral: the consensus math only needs the previously-persisted weight,
// never confirmation of a new write.
func (t *ReliabilityTracker) Weights(ctx context.Context, sources []string) map[string]float64 {
	now := t.now()
	out := make(map[string]float64, len(sources))
	for _, name := range sources {
		out[name] = t.weight(ctx, name, now)
	}
	return out
}

func (t *ReliabilityTracker) weight(ctx context.Context, name string, now time.Time) float64 {
	if v, ok := t.cache.Get(name); ok {
		if rel, ok2 := v.(*models.SourceReliability); ok2 {
			return validation.Decayed(t.cfg, rel.TrustWeight, rel.LastUpdated, now)
		}
	}

	rel, err := t.store.Get(ctx, name)
	if err != nil {
		t.logger.Warn("reliability read failed, using neutral weight",
			xlogger.String("source", name), xlogger.Error(err))
		return t.cfg.Neutral
	}
	if rel == nil {
		return t.cfg.Neutral
	}
	t.cache.Set(name, rel, t.cacheTTL)
	return validation.Decayed(t.cfg, rel.TrustWeight, rel.LastUpdated, now)
}

// RecordRun applies one run's deviation observations to the persisted
// weights. Called after the ValidationResult has already been returned;
// a failed write is logged and absorbed (eventual consistency is fine).
func (t *ReliabilityTracker) RecordRun(ctx context.Context, observations []models.Observation) {
	for _, obs := range observations {
		obs := obs
		err := t.store.Update(ctx, obs.SourceName, func(cur *models.SourceReliability) *models.SourceReliability {
			return t.next(cur, obs)
		})
		if err != nil {
			perr := &validation.PersistenceError{Source: obs.SourceName, Err: err}
			t.logger.Error("reliability update failed", xlogger.Error(perr))
			continue
		}
		t.cache.Delete(obs.SourceName)
	}
}

func (t *ReliabilityTracker) next(cur *models.SourceReliability, obs models.Observation) *models.SourceReliability {
	observedAt := obs.ObservedAt
	if observedAt.IsZero() {
		observedAt = t.now()
	}

	if cur == nil {
		cur = &models.SourceReliability{
			SourceName:  obs.SourceName,
			TrustWeight: t.cfg.Neutral,
		}
	}

	// Decay first so a long-silent source re-enters from near neutral.
	w := validation.Decayed(t.cfg, cur.TrustWeight, cur.LastUpdated, observedAt)

	return &models.SourceReliability{
		SourceName:  cur.SourceName,
		TrustWeight: validation.NextWeight(t.cfg, w, obs.Deviation, cur.SampleCount),
		SampleCount: cur.SampleCount + 1,
		LastUpdated: observedAt,
	}
}

// List returns every tracked source for the dashboard trust panel.
func (t *ReliabilityTracker) List(ctx context.Context) ([]*models.SourceReliability, error) {
	return t.store.GetAll(ctx)
}
