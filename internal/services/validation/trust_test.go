package validation

import (
	"math"
	"testing"
	"time"
)

func trustCfg() TrustConfig {
	return TrustConfig{
		Alpha:       0.1,
		Neutral:     0.5,
		Min:         0.05,
		Max:         0.95,
		DevCeiling:  0.05,
		DecayWindow: 168 * time.Hour,
	}
}

func TestNextWeightConvergesToMax(t *testing.T) {
	cfg := trustCfg()
	w := cfg.Neutral
	for i := int64(0); i < 500; i++ {
		w = NextWeight(cfg, w, 0, i)
	}
	if w != cfg.Max {
		t.Fatalf("expected weight to converge to max %.2f, got %.4f", cfg.Max, w)
	}
}

func TestNextWeightConvergesToMin(t *testing.T) {
	cfg := trustCfg()
	w := cfg.Neutral
	for i := int64(0); i < 500; i++ {
		w = NextWeight(cfg, w, 0.10, i)
	}
	if w != cfg.Min {
		t.Fatalf("expected weight to converge to min %.2f, got %.4f", cfg.Min, w)
	}
}

func TestNextWeightWarmup(t *testing.T) {
	cfg := trustCfg()
	// First observation: effective alpha is 1/(0+1)=1, so the weight jumps
	// straight to the score.
	w := NextWeight(cfg, cfg.Neutral, 0, 0)
	if w != cfg.Max {
		t.Fatalf("first perfect observation should saturate to max, got %.4f", w)
	}
	// A mature source moves by at most alpha per run.
	w2 := NextWeight(cfg, cfg.Neutral, 0, 1000)
	want := cfg.Neutral*(1-cfg.Alpha) + 1*cfg.Alpha
	if math.Abs(w2-want) > 1e-9 {
		t.Fatalf("mature update: want %.4f got %.4f", want, w2)
	}
}

func TestScoreFromDeviationLinear(t *testing.T) {
	cfg := trustCfg()
	if got := ScoreFromDeviation(cfg, 0); got != 1 {
		t.Fatalf("zero deviation should score 1, got %.4f", got)
	}
	if got := ScoreFromDeviation(cfg, 0.025); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("half ceiling should score 0.5, got %.4f", got)
	}
	if got := ScoreFromDeviation(cfg, 0.05); got != 0 {
		t.Fatalf("at ceiling should score 0, got %.4f", got)
	}
	if got := ScoreFromDeviation(cfg, -0.025); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("deviation sign must not matter, got %.4f", got)
	}
}

func TestDecayedPullsTowardNeutral(t *testing.T) {
	cfg := trustCfg()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Inside the window: untouched.
	got := Decayed(cfg, 0.9, now.Add(-cfg.DecayWindow/2), now)
	if got != 0.9 {
		t.Fatalf("no decay inside window, got %.4f", got)
	}

	// One-and-a-half windows of silence: halfway to neutral.
	got = Decayed(cfg, 0.9, now.Add(-cfg.DecayWindow*3/2), now)
	want := 0.9 + (cfg.Neutral-0.9)*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("half-decayed: want %.4f got %.4f", want, got)
	}

	// Two full windows: exactly neutral, and it never overshoots.
	got = Decayed(cfg, 0.9, now.Add(-cfg.DecayWindow*5), now)
	if got != cfg.Neutral {
		t.Fatalf("fully decayed weight should be neutral, got %.4f", got)
	}
	got = Decayed(cfg, 0.1, now.Add(-cfg.DecayWindow*5), now)
	if got != cfg.Neutral {
		t.Fatalf("decay must pull low weights up to neutral too, got %.4f", got)
	}
}

func TestDecayedZeroLastUpdated(t *testing.T) {
	cfg := trustCfg()
	got := Decayed(cfg, 0.8, time.Time{}, time.Now())
	if got != 0.8 {
		t.Fatalf("zero LastUpdated must not decay, got %.4f", got)
	}
}
