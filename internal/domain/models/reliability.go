package models

import "time"

// SourceReliability is the only state that survives across requests.
// Owned by the reliability tracker; mutated after every run via smoothing.
type SourceReliability struct {
	SourceName  string    `json:"source_name"`
	TrustWeight float64   `json:"trust_weight"` // in [0,1]
	SampleCount int64     `json:"sample_count"`
	LastUpdated time.Time `json:"last_updated"`
}

// Observation is one source's deviation from consensus for a completed run.
type Observation struct {
	SourceName string
	Deviation  float64 // |quote-consensus|/consensus
	ObservedAt time.Time
}
