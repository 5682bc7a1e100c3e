package collectors

import (
	"context"

	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

// BreachCollector looks an identifier (email or phone) up against breach
// databases and writes one BreachRecord plus one finding per breach.
type BreachCollector struct {
	provider ports.BreachProvider
	findings ports.FindingRepository
	log      *zap.Logger
}

func NewBreachCollector(provider ports.BreachProvider, findings ports.FindingRepository, log *zap.Logger) *BreachCollector {
	return &BreachCollector{provider: provider, findings: findings, log: log}
}

func (c *BreachCollector) Collect(ctx context.Context, investigationID int64, identifier string, kind ports.IdentifierKind) {
	breaches, err := c.provider.Lookup(ctx, identifier, kind)
	if err != nil {
		c.log.Warn("breach lookup failed",
			zap.Int64("investigation_id", investigationID),
			zap.String("identifier_kind", string(kind)),
			zap.Error(err),
		)
		return
	}

	for _, breach := range breaches {
		record := domain.BreachRecord{
			InvestigationID: investigationID,
			Name:            breach.Name,
			Date:            strPtr(breach.Date),
			Description:     strPtr(breach.Description),
			DataTypes:       breach.DataTypes,
			Verified:        breach.Verified,
			Severity:        domain.BreachSeverity(breach.Severity),
		}
		switch kind {
		case ports.IdentifierEmail:
			record.Email = strPtr(identifier)
		case ports.IdentifierPhone:
			record.Phone = strPtr(identifier)
		}
		if err := c.findings.AddBreachRecord(ctx, &record); err != nil {
			c.log.Error("store breach record", zap.Int64("investigation_id", investigationID), zap.Error(err))
			continue
		}

		f := domain.Finding{
			InvestigationID: investigationID,
			Kind:            domain.FindingBreachCheck,
			Source:          "breach_directory",
			Confidence:      1.0,
			RedFlag:         record.Severity.RedFlag(),
			BreachName:      strPtr(breach.Name),
			BreachDate:      strPtr(breach.Date),
			RawData:         rawJSON(breach),
		}
		if err := c.findings.AddFinding(ctx, &f); err != nil {
			c.log.Error("store breach finding", zap.Int64("investigation_id", investigationID), zap.Error(err))
		}
	}
}
