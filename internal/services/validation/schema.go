package validation

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"CoinSentry/internal/domain/models"
)

// Allowance for providers whose clocks run slightly ahead of ours.
const clockSkewAllowance = time.Minute

// SchemaValidator checks raw provider payloads before they enter the
// pipeline. Pure: no side effects, rejection excludes one source only.
type SchemaValidator struct {
	validate *validator.Validate
	maxAge   time.Duration
	now      func() time.Time
}

// NewSchemaValidator creates a validator with the given recency window.
func NewSchemaValidator(maxAge time.Duration) *SchemaValidator {
	return &SchemaValidator{
		validate: validator.New(),
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (v *SchemaValidator) WithClock(now func() time.Time) *SchemaValidator {
	v.now = now
	return v
}

// Validate converts a raw quote into a validated Quote, or returns a
// *SchemaError describing why the source is excluded from this run.
func (v *SchemaValidator) Validate(raw *models.RawQuote) (*models.Quote, error) {
	if raw == nil {
		return nil, &SchemaError{Source: "unknown", Reason: "nil payload"}
	}
	if err := v.validate.Struct(raw); err != nil {
		return nil, &SchemaError{Source: raw.SourceName, Reason: firstTagError(err)}
	}

	price := *raw.Price
	if !isFiniteNonNegative(price) {
		return nil, &SchemaError{Source: raw.SourceName, Reason: "price must be finite and non-negative"}
	}

	q := &models.Quote{
		SourceName: raw.SourceName,
		Symbol:     raw.Symbol,
		Price:      price,
		Timestamp:  time.Unix(raw.Timestamp, 0),
	}

	if raw.Volume24h != nil {
		vol := *raw.Volume24h
		if !isFiniteNonNegative(vol) {
			return nil, &SchemaError{Source: raw.SourceName, Reason: "volume_24h must be finite and non-negative"}
		}
		q.Volume24h = vol
		q.HasVolume = true
	}

	now := v.now()
	if q.Timestamp.Before(now.Add(-v.maxAge)) {
		return nil, &SchemaError{Source: raw.SourceName, Reason: "quote is stale"}
	}
	if q.Timestamp.After(now.Add(clockSkewAllowance)) {
		return nil, &SchemaError{Source: raw.SourceName, Reason: "quote timestamp is in the future"}
	}

	return q, nil
}

func isFiniteNonNegative(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

func firstTagError(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return "missing required field " + fe.Field()
		}
		return "field " + fe.Field() + " failed " + fe.Tag()
	}
	return err.Error()
}
