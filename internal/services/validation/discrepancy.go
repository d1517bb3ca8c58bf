package validation

import (
	"math"

	"CoinSentry/internal/domain/models"
)

// Thresholds are the per-metric variance limits. Warn sets Exceeded;
// Critical escalates severity and triggers the notification side channel.
type Thresholds struct {
	PriceWarn      float64
	PriceCritical  float64
	VolumeWarn     float64
	VolumeCritical float64
}

// DiscrepancyDetector flags sources whose quotes diverge from consensus.
type DiscrepancyDetector struct {
	th Thresholds
}

func NewDiscrepancyDetector(th Thresholds) *DiscrepancyDetector {
	return &DiscrepancyDetector{th: th}
}

// Detect returns at most one discrepancy per metric per run. A metric with
// fewer than two readings, or with zero spread, produces nothing.
func (d *DiscrepancyDetector) Detect(quotes []*models.Quote, consensus *models.ConsensusResult) []models.Discrepancy {
	if consensus == nil {
		return nil
	}
	var out []models.Discrepancy

	prices := make([]models.SourceValue, 0, len(quotes))
	for _, q := range quotes {
		prices = append(prices, models.SourceValue{Name: q.SourceName, Value: q.Price})
	}
	if disc, ok := d.check(models.MetricPrice, prices, consensus.ConsensusPrice, d.th.PriceWarn, d.th.PriceCritical); ok {
		out = append(out, disc)
	}

	volumes := make([]models.SourceValue, 0, len(quotes))
	for _, q := range quotes {
		if q.HasVolume {
			volumes = append(volumes, models.SourceValue{Name: q.SourceName, Value: q.Volume24h})
		}
	}
	if disc, ok := d.check(models.MetricVolume, volumes, consensus.ConsensusVolume, d.th.VolumeWarn, d.th.VolumeCritical); ok {
		out = append(out, disc)
	}

	return out
}

func (d *DiscrepancyDetector) check(metric string, values []models.SourceValue, consensus, warn, critical float64) (models.Discrepancy, bool) {
	if len(values) < 2 || consensus <= 0 {
		return models.Discrepancy{}, false
	}

	min, max := values[0].Value, values[0].Value
	for _, v := range values[1:] {
		if v.Value < min {
			min = v.Value
		}
		if v.Value > max {
			max = v.Value
		}
	}
	variance := (max - min) / consensus
	if variance == 0 {
		return models.Discrepancy{}, false
	}

	disc := models.Discrepancy{
		Metric:    metric,
		Sources:   values,
		Variance:  variance,
		Threshold: warn,
		Exceeded:  variance > warn,
		Critical:  variance > critical,
	}
	if disc.Exceeded {
		disc.Outlier = furthestFrom(values, consensus)
	}
	return disc, true
}

// furthestFrom names the source whose reading is furthest from consensus.
func furthestFrom(values []models.SourceValue, consensus float64) string {
	var name string
	var worst float64
	for _, v := range values {
		if d := math.Abs(v.Value - consensus); d > worst {
			worst = d
			name = v.Name
		}
	}
	return name
}
