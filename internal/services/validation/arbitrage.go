package validation

import (
	"sort"

	"CoinSentry/internal/domain/models"
)

// ArbitrageDetector scans raw quotes for profitable spreads. It operates on
// literal tradable prices, never trust-weighted ones.
type ArbitrageDetector struct {
	minSpread float64
}

func NewArbitrageDetector(minSpread float64) *ArbitrageDetector {
	return &ArbitrageDetector{minSpread: minSpread}
}

// FindOpportunities compares every source pair and reports spreads above
// the profitability threshold, largest first.
func (d *ArbitrageDetector) FindOpportunities(quotes []*models.Quote) []models.Opportunity {
	var out []models.Opportunity
	for i := 0; i < len(quotes); i++ {
		for j := i + 1; j < len(quotes); j++ {
			low, high := quotes[i], quotes[j]
			if low.Price > high.Price {
				low, high = high, low
			}
			if low.Price <= 0 {
				continue
			}
			spread := (high.Price - low.Price) / low.Price
			if spread < d.minSpread {
				continue
			}
			out = append(out, models.Opportunity{
				BuySource:  low.SourceName,
				SellSource: high.SourceName,
				BuyPrice:   low.Price,
				SellPrice:  high.Price,
				SpreadPct:  spread,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpreadPct > out[j].SpreadPct })
	return out
}
