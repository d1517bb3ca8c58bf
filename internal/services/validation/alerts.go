package validation

import (
	"fmt"

	"CoinSentry/internal/domain/models"
)

// AlertEmitter turns findings into dashboard alerts.
type AlertEmitter struct {
	lowConfidence int
}

func NewAlertEmitter(lowConfidence int) *AlertEmitter {
	return &AlertEmitter{lowConfidence: lowConfidence}
}

// Emit produces one alert per exceeded discrepancy, an info alert per
// arbitrage opportunity, and a summary alert when confidence falls below
// the low-confidence threshold. Critical alerts are additionally forwarded
// to the notification side channel by the orchestrator.
func (e *AlertEmitter) Emit(symbol string, discrepancies []models.Discrepancy, opportunities []models.Opportunity, confidence int) []models.Alert {
	var alerts []models.Alert

	for _, d := range discrepancies {
		if !d.Exceeded {
			continue
		}
		severity := models.SeverityWarning
		recommendation := "Cross-check the outlier source before trusting this reading."
		if d.Critical {
			severity = models.SeverityCritical
			recommendation = "Exclude the outlier source and investigate; reading may be unreliable."
		}
		alertType := models.AlertPriceDiscrepancy
		if d.Metric == models.MetricVolume {
			alertType = models.AlertVolumeDiscrepancy
		}
		affected := sourceNames(d.Sources)
		if d.Outlier != "" {
			affected = []string{d.Outlier}
		}
		alerts = append(alerts, models.Alert{
			Severity: severity,
			Type:     alertType,
			Message: fmt.Sprintf("%s %s variance %.2f%% exceeds %.2f%% threshold",
				symbol, d.Metric, d.Variance*100, d.Threshold*100),
			AffectedSources: affected,
			Recommendation:  recommendation,
		})
	}

	for _, op := range opportunities {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityInfo,
			Type:     models.AlertArbitrage,
			Message: fmt.Sprintf("%s spread %.2f%% between %s and %s",
				symbol, op.SpreadPct*100, op.BuySource, op.SellSource),
			AffectedSources: []string{op.BuySource, op.SellSource},
			Recommendation: fmt.Sprintf("Buy on %s at %.2f, sell on %s at %.2f.",
				op.BuySource, op.BuyPrice, op.SellSource, op.SellPrice),
		})
	}

	if confidence < e.lowConfidence {
		alerts = append(alerts, models.Alert{
			Severity:       models.SeverityWarning,
			Type:           models.AlertLowConfidence,
			Message:        fmt.Sprintf("%s validation confidence %d is below %d", symbol, confidence, e.lowConfidence),
			Recommendation: "Treat this reading as indicative only.",
		})
	}

	return alerts
}

func sourceNames(values []models.SourceValue) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, v.Name)
	}
	return names
}
