package collectors

import (
	"context"

	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

// CriminalCollector searches court record sources for conviction candidates
// matching the target's name. Every candidate is a red flag regardless of
// confidence: the match is name-only evidence, so confidence is
// informational, not a gate.
type CriminalCollector struct {
	provider ports.CriminalRecordsProvider
	findings ports.FindingRepository
	log      *zap.Logger
}

func NewCriminalCollector(provider ports.CriminalRecordsProvider, findings ports.FindingRepository, log *zap.Logger) *CriminalCollector {
	return &CriminalCollector{provider: provider, findings: findings, log: log}
}

func (c *CriminalCollector) Collect(ctx context.Context, investigationID int64, name string) {
	records, err := c.provider.Search(ctx, name)
	if err != nil {
		c.log.Warn("criminal record search failed",
			zap.Int64("investigation_id", investigationID),
			zap.Error(err),
		)
		return
	}

	for _, record := range records {
		row := domain.ConvictionRecord{
			InvestigationID: investigationID,
			FullName:        strPtr(record.FullName),
			Type:            strPtr(record.Type),
			Court:           strPtr(record.Court),
			CaseNumber:      strPtr(record.CaseNumber),
			Date:            strPtr(record.Date),
			Sentence:        strPtr(record.Sentence),
			Jurisdiction:    strPtr(record.Jurisdiction),
			SourceURL:       strPtr(record.SourceURL),
			Confidence:      record.Confidence,
		}
		if err := c.findings.AddConvictionRecord(ctx, &row); err != nil {
			c.log.Error("store conviction record", zap.Int64("investigation_id", investigationID), zap.Error(err))
			continue
		}

		f := domain.Finding{
			InvestigationID: investigationID,
			Kind:            domain.FindingConviction,
			Source:          "court_records",
			Confidence:      record.Confidence,
			RedFlag:         true,
			ConvictionType:  strPtr(record.Type),
			ConvictionDate:  strPtr(record.Date),
			RawData:         rawJSON(record),
		}
		if err := c.findings.AddFinding(ctx, &f); err != nil {
			c.log.Error("store conviction finding", zap.Int64("investigation_id", investigationID), zap.Error(err))
		}
	}
}
