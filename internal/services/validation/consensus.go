package validation

import (
	"math"
	"sort"

	"CoinSentry/internal/domain/models"
)

// ConsensusCalculator reconciles the surviving quotes of one run into a
// single attributable value per metric.
type ConsensusCalculator struct {
	neutralWeight float64
}

func NewConsensusCalculator(neutralWeight float64) *ConsensusCalculator {
	return &ConsensusCalculator{neutralWeight: neutralWeight}
}

// Compute produces the weighted-mean consensus with a median cross-check.
// Weights are re-normalized over only the sources present this run; a
// source the tracker has never seen gets the neutral weight before
// normalization. The applied weights always sum to 1.
func (c *ConsensusCalculator) Compute(quotes []*models.Quote, weights map[string]float64) *models.ConsensusResult {
	if len(quotes) == 0 {
		return &models.ConsensusResult{Weights: map[string]float64{}}
	}

	sorted := make([]*models.Quote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SourceName < sorted[j].SourceName })

	applied := make(map[string]float64, len(sorted))
	var total float64
	for _, q := range sorted {
		w, ok := weights[q.SourceName]
		if !ok || w <= 0 {
			w = c.neutralWeight
		}
		applied[q.SourceName] = w
		total += w
	}
	for name := range applied {
		applied[name] /= total
	}

	var meanPrice float64
	used := make([]string, 0, len(sorted))
	prices := make([]float64, 0, len(sorted))
	for _, q := range sorted {
		meanPrice += q.Price * applied[q.SourceName]
		used = append(used, q.SourceName)
		prices = append(prices, q.Price)
	}

	median := unweightedMedian(prices)
	split := 0.0
	if median > 0 {
		split = math.Abs(meanPrice-median) / median
	}

	return &models.ConsensusResult{
		ConsensusPrice:  meanPrice,
		ConsensusVolume: c.volumeConsensus(sorted, applied),
		MedianPrice:     median,
		SourcesUsed:     used,
		Weights:         applied,
		MeanMedianSplit: split,
	}
}

// volumeConsensus is computed identically to price but independently:
// weights are re-normalized over only the sources that reported volume.
func (c *ConsensusCalculator) volumeConsensus(quotes []*models.Quote, applied map[string]float64) float64 {
	var sum, total float64
	for _, q := range quotes {
		if !q.HasVolume {
			continue
		}
		sum += q.Volume24h * applied[q.SourceName]
		total += applied[q.SourceName]
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func unweightedMedian(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
