package scoring

import (
	"context"

	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

const (
	baseScore          = 75
	redFlagPenalty     = 10
	positiveBonus      = 5
	positiveBonusCap   = 25
	positiveConfidence = 0.7
)

// Score reduces a finding set to a confidence score and red-flag count.
// Pure function of its input: start at 75, subtract 10 per red flag, add 5
// per non-red-flag finding with confidence above 0.7 (capped at +25), clamp
// to [0, 100].
func Score(findings []domain.Finding) (score, redFlags int) {
	score = baseScore
	bonus := 0
	for _, f := range findings {
		if f.RedFlag {
			redFlags++
			continue
		}
		if f.Confidence > positiveConfidence {
			bonus += positiveBonus
		}
	}
	if bonus > positiveBonusCap {
		bonus = positiveBonusCap
	}
	score += bonus - redFlags*redFlagPenalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, redFlags
}

// Aggregator reads the full finding set for an investigation and writes the
// summary metrics back onto the investigation row. Idempotent: re-running on
// the same finding set writes the same values.
type Aggregator struct {
	investigations ports.InvestigationRepository
	findings       ports.FindingRepository
	log            *zap.Logger
}

func NewAggregator(investigations ports.InvestigationRepository, findings ports.FindingRepository, log *zap.Logger) *Aggregator {
	return &Aggregator{investigations: investigations, findings: findings, log: log}
}

func (a *Aggregator) Aggregate(ctx context.Context, investigationID int64) (int, int, error) {
	findings, err := a.findings.FindingsByInvestigation(ctx, investigationID)
	if err != nil {
		return 0, 0, err
	}
	score, redFlags := Score(findings)
	if err := a.investigations.SetScore(ctx, investigationID, score, redFlags); err != nil {
		return 0, 0, err
	}
	a.log.Info("aggregated findings",
		zap.Int64("investigation_id", investigationID),
		zap.Int("findings", len(findings)),
		zap.Int("score", score),
		zap.Int("red_flags", redFlags),
	)
	return score, redFlags, nil
}
