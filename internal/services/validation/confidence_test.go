package validation

import (
	"testing"

	"CoinSentry/internal/domain/models"
)

func scoreCfg() ScoreConfig {
	return ScoreConfig{
		WarningPenalty:      10,
		CriticalPenalty:     25,
		SanityPenalty:       10,
		MeanMedianSanity:    0.02,
		TrustBonusMax:       10,
		SingleSourceCeiling: 50,
	}
}

func TestScoreFullAgreement(t *testing.T) {
	s := NewConfidenceScorer(scoreCfg())
	trust := map[string]float64{"a": 0.5, "b": 0.5, "c": 0.5}

	got := s.Score(nil, trust, 3, 3, 0)
	if got != 100 {
		t.Fatalf("full agreement should score 100, got %d", got)
	}
}

func TestScoreSingleSourceCeiling(t *testing.T) {
	s := NewConfidenceScorer(scoreCfg())
	got := s.Score(nil, map[string]float64{"a": 0.95}, 1, 1, 0)
	if got > 50 {
		t.Fatalf("single source must never exceed ceiling 50, got %d", got)
	}
}

func TestScoreMonotonicInDiscrepancies(t *testing.T) {
	s := NewConfidenceScorer(scoreCfg())
	trust := map[string]float64{"a": 0.5, "b": 0.5}

	warning := models.Discrepancy{Metric: models.MetricPrice, Exceeded: true}
	critical := models.Discrepancy{Metric: models.MetricPrice, Exceeded: true, Critical: true}

	clean := s.Score(nil, trust, 2, 2, 0)
	warned := s.Score([]models.Discrepancy{warning}, trust, 2, 2, 0)
	crit := s.Score([]models.Discrepancy{critical}, trust, 2, 2, 0)

	if !(clean >= warned && warned > crit) {
		t.Fatalf("score must not increase with discrepancies: %d %d %d", clean, warned, crit)
	}
}

func TestScoreMeanMedianSanityPenalty(t *testing.T) {
	s := NewConfidenceScorer(scoreCfg())
	trust := map[string]float64{"a": 0.5, "b": 0.5}

	ok := s.Score(nil, trust, 2, 2, 0.01)
	split := s.Score(nil, trust, 2, 2, 0.05)
	if split >= ok {
		t.Fatalf("a large mean/median split must cost confidence: %d vs %d", ok, split)
	}
}

func TestScoreTrustBonus(t *testing.T) {
	s := NewConfidenceScorer(scoreCfg())

	low := s.Score(nil, map[string]float64{"a": 0.1, "b": 0.1}, 2, 3, 0)
	high := s.Score(nil, map[string]float64{"a": 0.9, "b": 0.9}, 2, 3, 0)
	if high <= low {
		t.Fatalf("higher trust must raise confidence: %d vs %d", low, high)
	}
}

func TestScoreBounds(t *testing.T) {
	s := NewConfidenceScorer(scoreCfg())

	if got := s.Score(nil, nil, 0, 3, 0); got != 0 {
		t.Fatalf("no sources used must score 0, got %d", got)
	}

	critical := models.Discrepancy{Exceeded: true, Critical: true}
	many := []models.Discrepancy{critical, critical, critical, critical, critical}
	if got := s.Score(many, nil, 1, 3, 0.5); got < 0 {
		t.Fatalf("score must clamp at 0, got %d", got)
	}
}
