package validation

import (
	"math"
	"time"
)

// TrustConfig tunes the exponential-smoothing trust update.
type TrustConfig struct {
	Alpha       float64       // responsiveness vs. stability, in (0,1)
	Neutral     float64       // weight assigned to unknown or decayed sources
	Min         float64       // clamp floor
	Max         float64       // clamp ceiling
	DevCeiling  float64       // deviation at or above which the run scores zero
	DecayWindow time.Duration // silence beyond this pulls weight toward Neutral
}

// DefaultDevCeiling matches the critical price threshold: a source that is
// a full critical deviation away earns nothing from the run.
const DefaultDevCeiling = 0.05

// NextWeight is the pure trust-update rule:
//
//	w' = clamp(w*(1-a) + score(|dev|)*a, min, max)
//
// where score decreases linearly from 1 at zero deviation to 0 at
// DevCeiling. Young sources (low sampleCount) adapt faster: the effective
// alpha never drops below 1/(sampleCount+1).
func NextWeight(cfg TrustConfig, old, deviation float64, sampleCount int64) float64 {
	a := cfg.Alpha
	if warmup := 1 / float64(sampleCount+1); warmup > a {
		a = warmup
	}
	w := old*(1-a) + ScoreFromDeviation(cfg, deviation)*a
	return clampWeight(cfg, w)
}

// ScoreFromDeviation maps |deviation| to a [0,1] agreement score.
func ScoreFromDeviation(cfg TrustConfig, deviation float64) float64 {
	ceiling := cfg.DevCeiling
	if ceiling <= 0 {
		ceiling = DefaultDevCeiling
	}
	dev := math.Abs(deviation)
	if dev >= ceiling {
		return 0
	}
	return 1 - dev/ceiling
}

// Decayed pulls a weight toward Neutral when the source has been silent
// beyond the decay window, preventing a once-trusted-but-now-silent source
// from permanently dominating. Proportional: a source silent for two full
// windows lands exactly on Neutral.
func Decayed(cfg TrustConfig, weight float64, lastUpdated, now time.Time) float64 {
	if cfg.DecayWindow <= 0 || lastUpdated.IsZero() {
		return weight
	}
	silent := now.Sub(lastUpdated)
	if silent <= cfg.DecayWindow {
		return weight
	}
	excess := float64(silent-cfg.DecayWindow) / float64(cfg.DecayWindow)
	if excess > 1 {
		excess = 1
	}
	return clampWeight(cfg, weight+(cfg.Neutral-weight)*excess)
}

func clampWeight(cfg TrustConfig, w float64) float64 {
	if w < cfg.Min {
		return cfg.Min
	}
	if w > cfg.Max {
		return cfg.Max
	}
	return w
}
