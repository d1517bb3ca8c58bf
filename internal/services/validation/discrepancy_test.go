package validation

import (
	"testing"

	"CoinSentry/internal/domain/models"
)

func defaultThresholds() Thresholds {
	return Thresholds{
		PriceWarn:      0.015,
		PriceCritical:  0.05,
		VolumeWarn:     0.10,
		VolumeCritical: 0.25,
	}
}

func TestDetectIdenticalQuotes(t *testing.T) {
	d := NewDiscrepancyDetector(defaultThresholds())
	c := NewConsensusCalculator(0.5)
	quotes := []*models.Quote{
		quote("a", 95000),
		quote("b", 95000),
		quote("c", 95000),
	}
	consensus := c.Compute(quotes, nil)

	if got := d.Detect(quotes, consensus); len(got) != 0 {
		t.Fatalf("identical quotes must produce zero discrepancies, got %d", len(got))
	}
}

func TestDetectCriticalOutlier(t *testing.T) {
	d := NewDiscrepancyDetector(defaultThresholds())
	c := NewConsensusCalculator(0.5)
	quotes := []*models.Quote{
		quote("binance", 95000),
		quote("coinbase", 94500),
		quote("kraken", 95200),
		quote("shady", 101000),
	}
	consensus := c.Compute(quotes, nil)

	got := d.Detect(quotes, consensus)
	if len(got) != 1 {
		t.Fatalf("expected exactly one price discrepancy, got %d", len(got))
	}
	disc := got[0]
	if disc.Metric != models.MetricPrice {
		t.Fatalf("unexpected metric %q", disc.Metric)
	}
	if !disc.Exceeded || !disc.Critical {
		t.Fatalf("6.5%% spread should be critical: %+v", disc)
	}
	if disc.Outlier != "shady" {
		t.Fatalf("outlier attribution: want shady got %q", disc.Outlier)
	}
}

func TestDetectWarningBand(t *testing.T) {
	d := NewDiscrepancyDetector(defaultThresholds())
	c := NewConsensusCalculator(0.5)
	// ~2% spread: above warn (1.5%), below critical (5%).
	quotes := []*models.Quote{
		quote("a", 100000),
		quote("b", 98000),
	}
	consensus := c.Compute(quotes, nil)

	got := d.Detect(quotes, consensus)
	if len(got) != 1 {
		t.Fatalf("expected one discrepancy, got %d", len(got))
	}
	if !got[0].Exceeded || got[0].Critical {
		t.Fatalf("expected warning, not critical: %+v", got[0])
	}
}

func TestDetectVolumeIndependent(t *testing.T) {
	d := NewDiscrepancyDetector(defaultThresholds())
	c := NewConsensusCalculator(0.5)
	// Prices agree; volumes diverge by 50%.
	quotes := []*models.Quote{
		quoteWithVolume("a", 100, 1000),
		quoteWithVolume("b", 100, 2000),
	}
	consensus := c.Compute(quotes, nil)

	got := d.Detect(quotes, consensus)
	if len(got) != 1 {
		t.Fatalf("expected only the volume discrepancy, got %d", len(got))
	}
	if got[0].Metric != models.MetricVolume {
		t.Fatalf("unexpected metric %q", got[0].Metric)
	}
	if !got[0].Exceeded || !got[0].Critical {
		t.Fatalf("66%% volume variance should be critical: %+v", got[0])
	}
}

func TestDetectSingleSource(t *testing.T) {
	d := NewDiscrepancyDetector(defaultThresholds())
	c := NewConsensusCalculator(0.5)
	quotes := []*models.Quote{quote("a", 100)}
	consensus := c.Compute(quotes, nil)

	if got := d.Detect(quotes, consensus); len(got) != 0 {
		t.Fatalf("one source cannot disagree with itself, got %d", len(got))
	}
}
