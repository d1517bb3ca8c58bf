package models

import "time"

// Pipeline states. The orchestrator walks them in order; SKIPPED is the
// alternate terminal reached on feature-disable or hard timeout.
type PipelineState string

const (
	StateIdle               PipelineState = "IDLE"
	StateValidatingSchemas  PipelineState = "VALIDATING_SCHEMAS"
	StateComputingConsensus PipelineState = "COMPUTING_CONSENSUS"
	StateDetectingAnomalies PipelineState = "DETECTING_ANOMALIES"
	StateScoring            PipelineState = "SCORING"
	StateEmittingAlerts     PipelineState = "EMITTING_ALERTS"
	StateDone               PipelineState = "DONE"
	StateSkipped            PipelineState = "SKIPPED"
)

// SkipReason explains a SKIPPED outcome.
type SkipReason string

const (
	SkipDisabled SkipReason = "feature_disabled"
	SkipTimeout  SkipReason = "timeout"
)

// DataQualitySummary condenses a run for the dashboard.
type DataQualitySummary struct {
	SourcesExpected int     `json:"sources_expected"`
	SourcesUsed     int     `json:"sources_used"`
	SourcesRejected int     `json:"sources_rejected"`
	AvgTrustWeight  float64 `json:"avg_trust_weight"`
	QuorumMet       bool    `json:"quorum_met"`
}

// ValidationResult is the immutable top-level artifact of one run.
type ValidationResult struct {
	Symbol        string             `json:"symbol"`
	IsValid       bool               `json:"is_valid"`
	Confidence    int                `json:"confidence"` // 0..100
	Consensus     *ConsensusResult   `json:"consensus,omitempty"`
	Alerts        []Alert            `json:"alerts,omitempty"`
	Discrepancies []Discrepancy      `json:"discrepancies,omitempty"`
	Opportunities []Opportunity      `json:"opportunities,omitempty"`
	Summary       DataQualitySummary `json:"data_quality"`
	RanAt         time.Time          `json:"ran_at"`
	ElapsedMs     int64              `json:"elapsed_ms"`
}

// Outcome is the tagged return of the orchestrator: Done carries a result,
// Skipped carries a reason. Callers must handle the degraded case; the
// engine never surfaces an error.
type Outcome struct {
	State  PipelineState     `json:"state"` // DONE or SKIPPED
	Result *ValidationResult `json:"result,omitempty"`
	Reason SkipReason        `json:"reason,omitempty"`
}

// Done reports whether the pipeline produced a usable result.
func (o Outcome) Done() bool { return o.State == StateDone && o.Result != nil }
