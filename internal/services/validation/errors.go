package validation

import "fmt"

// SchemaError marks one source's payload as malformed. It excludes that
// source from the current run and is never fatal to the pipeline.
type SchemaError struct {
	Source string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: source %s rejected: %s", e.Source, e.Reason)
}

// QuorumError reports that fewer sources passed validation than configured.
// The pipeline still returns a best-effort, low-confidence result.
type QuorumError struct {
	Got  int
	Want int
}

func (e *QuorumError) Error() string {
	return fmt.Sprintf("quorum: %d sources passed validation, want %d", e.Got, e.Want)
}

// PersistenceError wraps a failed reliability write. Logged by the caller;
// never affects the already-returned result.
type PersistenceError struct {
	Source string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: reliability update for %s: %v", e.Source, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
