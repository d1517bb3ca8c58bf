package validation

import (
	"math"
	"testing"
	"time"

	"CoinSentry/internal/domain/models"
)

func ptr(f float64) *float64 { return &f }

func rawQuote(now time.Time) *models.RawQuote {
	return &models.RawQuote{
		SourceName: "binance",
		Symbol:     "BTC-USD",
		Price:      ptr(95000),
		Volume24h:  ptr(12000),
		Timestamp:  now.Unix(),
	}
}

func newTestValidator(now time.Time) *SchemaValidator {
	return NewSchemaValidator(5 * time.Minute).WithClock(func() time.Time { return now })
}

func TestValidateAccepts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(now)

	q, err := v.Validate(rawQuote(now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 95000 || !q.HasVolume || q.Volume24h != 12000 {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestValidateMissingPrice(t *testing.T) {
	now := time.Now()
	v := newTestValidator(now)
	raw := rawQuote(now)
	raw.Price = nil

	_, err := v.Validate(raw)
	serr, ok := err.(*SchemaError)
	if !ok {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if serr.Source != "binance" {
		t.Fatalf("error must name the source, got %q", serr.Source)
	}
}

func TestValidateMissingVolumeIsFine(t *testing.T) {
	now := time.Now()
	v := newTestValidator(now)
	raw := rawQuote(now)
	raw.Volume24h = nil

	q, err := v.Validate(raw)
	if err != nil {
		t.Fatalf("volume is optional: %v", err)
	}
	if q.HasVolume {
		t.Fatalf("HasVolume must be false when volume is absent")
	}
}

func TestValidateNonFinite(t *testing.T) {
	now := time.Now()
	v := newTestValidator(now)

	for _, bad := range []float64{math.NaN(), math.Inf(1), -1} {
		raw := rawQuote(now)
		raw.Price = ptr(bad)
		if _, err := v.Validate(raw); err == nil {
			t.Fatalf("price %v must be rejected", bad)
		}
	}
}

func TestValidateStaleAndFuture(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(now)

	stale := rawQuote(now)
	stale.Timestamp = now.Add(-10 * time.Minute).Unix()
	if _, err := v.Validate(stale); err == nil {
		t.Fatalf("stale quote must be rejected")
	}

	future := rawQuote(now)
	future.Timestamp = now.Add(5 * time.Minute).Unix()
	if _, err := v.Validate(future); err == nil {
		t.Fatalf("future quote must be rejected")
	}

	// Slight clock skew is tolerated.
	skewed := rawQuote(now)
	skewed.Timestamp = now.Add(30 * time.Second).Unix()
	if _, err := v.Validate(skewed); err != nil {
		t.Fatalf("small skew must pass: %v", err)
	}
}

func TestValidateIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(now)
	raw := rawQuote(now)

	q1, err1 := v.Validate(raw)
	q2, err2 := v.Validate(raw)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v %v", err1, err2)
	}
	if *q1 != *q2 {
		t.Fatalf("validation must be deterministic: %+v vs %+v", q1, q2)
	}
}
