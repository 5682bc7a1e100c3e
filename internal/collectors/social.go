package collectors

import (
	"context"

	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

// Platforms is the fixed set queried for candidate profiles.
var Platforms = []string{"facebook", "instagram", "linkedin", "twitter", "tiktok"}

const (
	suspiciousConfidence    = 0.5
	socialRedFlagConfidence = 0.3
)

// SocialCollector searches each platform for candidate profiles matching the
// target's display name. Low match confidence marks the profile suspicious;
// very low confidence makes the finding a red flag.
type SocialCollector struct {
	provider ports.SocialSearchProvider
	findings ports.FindingRepository
	log      *zap.Logger
}

func NewSocialCollector(provider ports.SocialSearchProvider, findings ports.FindingRepository, log *zap.Logger) *SocialCollector {
	return &SocialCollector{provider: provider, findings: findings, log: log}
}

func (c *SocialCollector) Collect(ctx context.Context, investigationID int64, name, refImageURL string) {
	for _, platform := range Platforms {
		candidates, err := c.provider.SearchPlatform(ctx, platform, name, refImageURL)
		if err != nil {
			c.log.Warn("social platform search failed",
				zap.Int64("investigation_id", investigationID),
				zap.String("platform", platform),
				zap.Error(err),
			)
			continue
		}

		for _, candidate := range candidates {
			profile := domain.SocialProfile{
				InvestigationID: investigationID,
				Platform:        platform,
				ProfileURL:      strPtr(candidate.URL),
				Username:        strPtr(candidate.Username),
				DisplayName:     strPtr(candidate.DisplayName),
				ProfileImageURL: strPtr(candidate.ProfileImageURL),
				MatchConfidence: candidate.MatchConfidence,
				Suspicious:      candidate.MatchConfidence < suspiciousConfidence,
			}
			if err := c.findings.AddSocialProfile(ctx, &profile); err != nil {
				c.log.Error("store social profile", zap.Int64("investigation_id", investigationID), zap.Error(err))
				continue
			}

			f := domain.Finding{
				InvestigationID: investigationID,
				Kind:            domain.FindingSocialProfile,
				Source:          platform,
				Confidence:      candidate.MatchConfidence,
				RedFlag:         candidate.MatchConfidence < socialRedFlagConfidence,
				Platform:        strPtr(platform),
				ProfileURL:      strPtr(candidate.URL),
				Username:        strPtr(candidate.Username),
				RawData:         rawJSON(candidate.ProfileData),
			}
			if err := c.findings.AddFinding(ctx, &f); err != nil {
				c.log.Error("store social finding", zap.Int64("investigation_id", investigationID), zap.Error(err))
			}
		}
	}
}
