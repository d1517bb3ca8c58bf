package validation

import (
	"math"

	"CoinSentry/internal/domain/models"
)

// ScoreConfig tunes the confidence fold.
type ScoreConfig struct {
	WarningPenalty      int
	CriticalPenalty     int
	SanityPenalty       int     // applied when mean and median diverge
	MeanMedianSanity    float64 // divergence ratio that triggers SanityPenalty
	TrustBonusMax       int
	SingleSourceCeiling int
}

// ConfidenceScorer folds quorum health, discrepancies, and trust weights
// into a 0..100 score.
type ConfidenceScorer struct {
	cfg ScoreConfig
}

func NewConfidenceScorer(cfg ScoreConfig) *ConfidenceScorer {
	return &ConfidenceScorer{cfg: cfg}
}

// Score starts from quorum health (used/expected), subtracts a penalty per
// exceeded discrepancy (larger for critical), penalizes a mean/median split
// that suggests the weighting itself is off, and adds a bonus proportional
// to the average trust weight of the sources actually used. Confidence is
// monotonically non-increasing in the number of exceeded discrepancies.
func (s *ConfidenceScorer) Score(discrepancies []models.Discrepancy, trustWeights map[string]float64, sourcesUsed, sourcesExpected int, meanMedianSplit float64) int {
	if sourcesUsed == 0 || sourcesExpected == 0 {
		return 0
	}

	score := int(math.Round(100 * float64(sourcesUsed) / float64(sourcesExpected)))

	for _, d := range discrepancies {
		if !d.Exceeded {
			continue
		}
		if d.Critical {
			score -= s.cfg.CriticalPenalty
		} else {
			score -= s.cfg.WarningPenalty
		}
	}

	if s.cfg.MeanMedianSanity > 0 && meanMedianSplit > s.cfg.MeanMedianSanity {
		score -= s.cfg.SanityPenalty
	}

	if len(trustWeights) > 0 {
		var sum float64
		for _, w := range trustWeights {
			sum += w
		}
		avg := sum / float64(len(trustWeights))
		score += int(math.Round(avg * float64(s.cfg.TrustBonusMax)))
	}

	if sourcesUsed == 1 && score > s.cfg.SingleSourceCeiling {
		score = s.cfg.SingleSourceCeiling
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
