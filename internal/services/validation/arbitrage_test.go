package validation

import (
	"math"
	"testing"

	"CoinSentry/internal/domain/models"
)

func TestFindOpportunities(t *testing.T) {
	d := NewArbitrageDetector(0.02)
	quotes := []*models.Quote{
		quote("exchange-a", 95000),
		quote("exchange-b", 97500),
	}

	got := d.FindOpportunities(quotes)
	if len(got) != 1 {
		t.Fatalf("expected one opportunity, got %d", len(got))
	}
	op := got[0]
	if op.BuySource != "exchange-a" || op.SellSource != "exchange-b" {
		t.Fatalf("direction: buy low sell high, got %+v", op)
	}
	want := 2500.0 / 95000.0
	if math.Abs(op.SpreadPct-want) > 1e-9 {
		t.Fatalf("spread: want %.4f got %.4f", want, op.SpreadPct)
	}
}

func TestFindOpportunitiesBelowThreshold(t *testing.T) {
	d := NewArbitrageDetector(0.02)
	quotes := []*models.Quote{
		quote("a", 95000),
		quote("b", 95500), // ~0.5% spread
	}
	if got := d.FindOpportunities(quotes); len(got) != 0 {
		t.Fatalf("sub-threshold spread must not be reported, got %d", len(got))
	}
}

func TestFindOpportunitiesSortedBySpread(t *testing.T) {
	d := NewArbitrageDetector(0.02)
	quotes := []*models.Quote{
		quote("a", 100),
		quote("b", 103),
		quote("c", 110),
	}
	got := d.FindOpportunities(quotes)
	if len(got) < 2 {
		t.Fatalf("expected multiple opportunities, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].SpreadPct > got[i-1].SpreadPct {
			t.Fatalf("opportunities must be sorted descending by spread")
		}
	}
}
