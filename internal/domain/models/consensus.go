package models

// ConsensusResult is the reconciled view of one run's quotes.
// Valid only for the request that produced it.
type ConsensusResult struct {
	ConsensusPrice  float64            `json:"consensus_price"`
	ConsensusVolume float64            `json:"consensus_volume"`
	MedianPrice     float64            `json:"median_price"`
	SourcesUsed     []string           `json:"sources_used"`
	Weights         map[string]float64 `json:"weights"` // re-normalized over SourcesUsed, sums to 1
	MeanMedianSplit float64            `json:"mean_median_split"` // |mean-median|/median, weighting sanity signal
}
