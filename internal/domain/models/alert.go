package models

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert types.
const (
	AlertPriceDiscrepancy  = "price_discrepancy"
	AlertVolumeDiscrepancy = "volume_discrepancy"
	AlertLowConfidence     = "low_confidence"
	AlertArbitrage         = "arbitrage_opportunity"
)

// Alert is one actionable finding from a validation run.
type Alert struct {
	Severity        string   `json:"severity"`
	Type            string   `json:"type"`
	Message         string   `json:"message"`
	AffectedSources []string `json:"affected_sources,omitempty"`
	Recommendation  string   `json:"recommendation,omitempty"`
}
