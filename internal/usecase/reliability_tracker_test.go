package usecase

import (
	"context"
	"testing"
	"time"

	"CoinSentry/internal/domain/models"
	"CoinSentry/internal/repository"
	"CoinSentry/internal/services/validation"
	xlogger "CoinSentry/pkg/logger"
)

func newTestTracker(t *testing.T) *ReliabilityTracker {
	t.Helper()
	return NewReliabilityTracker(repository.NewMemoryReliabilityStore(), validation.TrustConfig{
		Alpha:       0.1,
		Neutral:     0.5,
		Min:         0.05,
		Max:         0.95,
		DevCeiling:  0.05,
		DecayWindow: 168 * time.Hour,
	}, time.Minute, xlogger.Nop())
}

func TestWeightsUnknownSourceNeutral(t *testing.T) {
	tr := newTestTracker(t)

	w := tr.Weights(context.Background(), []string{"binance", "kraken"})
	if w["binance"] != 0.5 || w["kraken"] != 0.5 {
		t.Fatalf("unknown sources must get neutral weight, got %v", w)
	}
}

func TestRecordRunMovesWeights(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 10; i++ {
		tr.RecordRun(ctx, []models.Observation{
			{SourceName: "good", Deviation: 0, ObservedAt: now},
			{SourceName: "bad", Deviation: 0.10, ObservedAt: now},
		})
	}

	w := tr.Weights(ctx, []string{"good", "bad"})
	if w["good"] <= 0.5 {
		t.Fatalf("agreeing source must gain trust, got %.4f", w["good"])
	}
	if w["bad"] >= 0.5 {
		t.Fatalf("deviating source must lose trust, got %.4f", w["bad"])
	}

	rows, err := tr.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 tracked sources, got %d", len(rows))
	}
	for _, r := range rows {
		if r.SampleCount != 10 {
			t.Fatalf("%s: want 10 samples got %d", r.SourceName, r.SampleCount)
		}
	}
}

func TestWeightsDecayAfterSilence(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		tr.RecordRun(ctx, []models.Observation{
			{SourceName: "veteran", Deviation: 0, ObservedAt: base},
		})
	}

	// Read as of three weeks later: two full decay windows of silence.
	tr.WithClock(func() time.Time { return base.Add(3 * 168 * time.Hour) })
	w := tr.Weights(ctx, []string{"veteran"})
	if w["veteran"] != 0.5 {
		t.Fatalf("silent source must decay to neutral, got %.4f", w["veteran"])
	}
}

func TestWeightsCacheInvalidatedOnWrite(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now()

	// Prime the cache with the neutral-backed read.
	_ = tr.Weights(ctx, []string{"src"})

	tr.RecordRun(ctx, []models.Observation{{SourceName: "src", Deviation: 0, ObservedAt: now}})

	w := tr.Weights(ctx, []string{"src"})
	if w["src"] <= 0.5 {
		t.Fatalf("fresh write must be visible immediately, got %.4f", w["src"])
	}
}
