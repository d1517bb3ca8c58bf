package repository

import (
	"context"
	"time"

	"CoinSentry/internal/domain/models"
)

// QuoteProvider fetches one raw quote per symbol from an external source.
// Implementations live in internal/service/providers.
type QuoteProvider interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (*models.RawQuote, error)
}

// ReliabilityStore owns the persisted per-source trust weights. Updates to
// the same source must be serialized by the implementation (CAS or lock);
// different sources update independently.
type ReliabilityStore interface {
	Get(ctx context.Context, sourceName string) (*models.SourceReliability, error)
	GetAll(ctx context.Context) ([]*models.SourceReliability, error)
	// Update applies fn to the current row under a per-source serialization
	// guarantee and persists the returned value. fn receives nil when the
	// source has never been observed.
	Update(ctx context.Context, sourceName string, fn func(cur *models.SourceReliability) *models.SourceReliability) error
	Close() error
}

// RunArchive records completed validation runs for the dashboard history
// view. Append-only, best-effort.
type RunArchive interface {
	Record(ctx context.Context, r *models.ValidationResult) error
	Close() error
}

// Notifier delivers critical alerts to the external side channel.
// Fire-and-forget: failures are logged by the caller, never propagated.
type Notifier interface {
	NotifyCritical(ctx context.Context, symbol string, alerts []models.Alert) error
	Close() error
}

// Metrics abstracts run instrumentation.
type Metrics interface {
	RecordRun(symbol string, state models.PipelineState, elapsed time.Duration)
	RecordConfidence(symbol string, confidence int)
	RecordAlert(severity, alertType string)
	RecordSourceRejected(sourceName, reason string)
	RecordProviderLatency(sourceName string, seconds float64)
}
