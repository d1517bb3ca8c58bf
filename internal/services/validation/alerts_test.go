package validation

import (
	"testing"

	"CoinSentry/internal/domain/models"
)

func TestEmitDiscrepancyAlerts(t *testing.T) {
	e := NewAlertEmitter(60)

	discs := []models.Discrepancy{
		{
			Metric:    models.MetricPrice,
			Sources:   []models.SourceValue{{Name: "a", Value: 95000}, {Name: "b", Value: 101000}},
			Variance:  0.06,
			Threshold: 0.015,
			Exceeded:  true,
			Critical:  true,
			Outlier:   "b",
		},
		{Metric: models.MetricVolume, Variance: 0.01, Exceeded: false},
	}

	alerts := e.Emit("BTC-USD", discs, nil, 80)
	if len(alerts) != 1 {
		t.Fatalf("only exceeded discrepancies alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Severity != models.SeverityCritical || a.Type != models.AlertPriceDiscrepancy {
		t.Fatalf("unexpected alert %+v", a)
	}
	if len(a.AffectedSources) != 1 || a.AffectedSources[0] != "b" {
		t.Fatalf("alert must name the outlier, got %v", a.AffectedSources)
	}
}

func TestEmitArbitrageInfo(t *testing.T) {
	e := NewAlertEmitter(60)
	ops := []models.Opportunity{{
		BuySource: "a", SellSource: "b",
		BuyPrice: 95000, SellPrice: 97500, SpreadPct: 0.0263,
	}}

	alerts := e.Emit("BTC-USD", nil, ops, 90)
	if len(alerts) != 1 {
		t.Fatalf("expected one arbitrage alert, got %d", len(alerts))
	}
	if alerts[0].Severity != models.SeverityInfo || alerts[0].Type != models.AlertArbitrage {
		t.Fatalf("unexpected alert %+v", alerts[0])
	}
}

func TestEmitLowConfidence(t *testing.T) {
	e := NewAlertEmitter(60)

	alerts := e.Emit("BTC-USD", nil, nil, 45)
	if len(alerts) != 1 {
		t.Fatalf("expected a low-confidence alert, got %d", len(alerts))
	}
	if alerts[0].Type != models.AlertLowConfidence {
		t.Fatalf("unexpected type %q", alerts[0].Type)
	}

	if got := e.Emit("BTC-USD", nil, nil, 60); len(got) != 0 {
		t.Fatalf("confidence at threshold must not alert, got %d", len(got))
	}
}
