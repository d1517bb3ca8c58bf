package models

// Metric names checked by the discrepancy detector.
const (
	MetricPrice  = "price"
	MetricVolume = "volume_24h"
)

// SourceValue pins a metric reading to the source that reported it.
type SourceValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Discrepancy describes cross-source disagreement on one metric.
type Discrepancy struct {
	Metric    string        `json:"metric"`
	Sources   []SourceValue `json:"sources"`
	Variance  float64       `json:"variance"` // (max-min)/consensus
	Threshold float64       `json:"threshold"`
	Exceeded  bool          `json:"exceeded"`
	Critical  bool          `json:"critical"`
	// Outlier is the source furthest from consensus when Exceeded.
	Outlier string `json:"outlier,omitempty"`
}

// Opportunity is a profitable spread between two raw quotes.
type Opportunity struct {
	BuySource  string  `json:"buy_source"`
	SellSource string  `json:"sell_source"`
	BuyPrice   float64 `json:"buy_price"`
	SellPrice  float64 `json:"sell_price"`
	SpreadPct  float64 `json:"spread_pct"`
}
