package models

import "time"

// RawQuote is the unvalidated payload produced by a provider adapter.
// Fields are pointers where absence must be distinguishable from zero.
type RawQuote struct {
	SourceName string   `json:"source_name" validate:"required"`
	Symbol     string   `json:"symbol" validate:"required"`
	Price      *float64 `json:"price" validate:"required"`
	Volume24h  *float64 `json:"volume_24h"`
	Timestamp  int64    `json:"timestamp" validate:"required,gt=0"` // unix seconds
}

// Quote is a schema-validated, per-request quote. Never persisted.
type Quote struct {
	SourceName string
	Symbol     string
	Price      float64
	Volume24h  float64
	HasVolume  bool
	Timestamp  time.Time
}
