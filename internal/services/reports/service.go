// Package reports assembles the final investigation document: section
// summaries from the stored findings, an executive summary from the text
// generator, and a PDF persisted to the blob store.
package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

type Service struct {
	investigations ports.InvestigationRepository
	findings       ports.FindingRepository
	reports        ports.ReportRepository
	blobs          ports.BlobStore
	text           ports.TextGenerator
	log            *zap.Logger
}

func New(investigations ports.InvestigationRepository, findings ports.FindingRepository, reports ports.ReportRepository, blobs ports.BlobStore, text ports.TextGenerator, log *zap.Logger) *Service {
	return &Service{
		investigations: investigations,
		findings:       findings,
		reports:        reports,
		blobs:          blobs,
		text:           text,
		log:            log,
	}
}

// Generate builds the report for a completed investigation. The second return
// reports whether this call created it; an existing report short-circuits.
func (s *Service) Generate(ctx context.Context, investigationID int64) (domain.Report, bool, error) {
	inv, err := s.investigations.Get(ctx, investigationID)
	if err != nil {
		return domain.Report{}, false, err
	}
	if inv.Status != domain.StatusCompleted {
		return domain.Report{}, false, domain.NewNotFoundError("completed investigation", investigationID)
	}

	if existing, err := s.reports.ReportByInvestigation(ctx, investigationID); err == nil {
		return existing, false, nil
	} else if !domain.IsNotFound(err) {
		return domain.Report{}, false, err
	}

	started := time.Now()
	detail, err := s.loadDetail(ctx, investigationID)
	if err != nil {
		return domain.Report{}, false, err
	}
	detail.Investigation = inv

	redFlags := 0
	for _, f := range detail.Findings {
		if f.RedFlag {
			redFlags++
		}
	}

	report := domain.Report{
		InvestigationID:   investigationID,
		Type:              inv.Type,
		ExecutiveSummary:  s.executiveSummary(ctx, detail, redFlags),
		ImageSummary:      imageSummary(detail.ImageAnalyses),
		SocialSummary:     socialSummary(detail.Socials),
		RedFlagsSummary:   redFlagsSummary(detail.Findings),
		BreachSummary:     breachSummary(detail.Breaches),
		ConvictionSummary: convictionSummary(detail.Convictions),
		TotalPages:        totalPages(inv.Type, len(detail.Findings)),
	}

	pdf := renderPDF(investigationID, "WhoHub OSINT Report")
	key := fmt.Sprintf("reports/%d/report_%s.pdf", investigationID, uuid.NewString())
	if err := s.blobs.Put(ctx, key, "application/pdf", pdf); err != nil {
		return domain.Report{}, false, fmt.Errorf("store report pdf: %w", err)
	}

	report.FilePath = key
	report.FileSize = int64(len(pdf))
	report.GenerationSeconds = int(time.Since(started).Seconds())

	id, err := s.reports.CreateReport(ctx, &report)
	if err != nil {
		return domain.Report{}, false, err
	}
	report.ID = id

	s.log.Info("report generated",
		zap.Int64("investigation_id", investigationID),
		zap.Int("total_pages", report.TotalPages),
		zap.Int64("pdf_bytes", report.FileSize),
	)
	return report, true, nil
}

func (s *Service) Get(ctx context.Context, investigationID int64) (domain.Report, error) {
	return s.reports.ReportByInvestigation(ctx, investigationID)
}

func (s *Service) Download(ctx context.Context, investigationID int64) ([]byte, string, error) {
	report, err := s.reports.ReportByInvestigation(ctx, investigationID)
	if err != nil {
		return nil, "", err
	}
	return s.blobs.Get(ctx, report.FilePath)
}

func (s *Service) Delete(ctx context.Context, investigationID int64) error {
	report, err := s.reports.ReportByInvestigation(ctx, investigationID)
	if err != nil {
		return err
	}
	if report.FilePath != "" {
		if err := s.blobs.Delete(ctx, report.FilePath); err != nil {
			s.log.Warn("report pdf delete failed",
				zap.Int64("investigation_id", investigationID),
				zap.String("key", report.FilePath),
				zap.Error(err),
			)
		}
	}
	return s.reports.DeleteReport(ctx, investigationID)
}

func (s *Service) executiveSummary(ctx context.Context, detail domain.InvestigationDetail, redFlags int) string {
	if s.text != nil {
		summary, err := s.text.Generate(ctx, summaryPrompt(detail, redFlags), summaryMaxTokens)
		if err == nil && strings.TrimSpace(summary) != "" {
			return summary
		}
		if err != nil {
			s.log.Warn("executive summary generation failed, using template",
				zap.Int64("investigation_id", detail.Investigation.ID),
				zap.Error(err),
			)
		}
	}
	return fallbackExecutiveSummary(detail.Investigation.Type, len(detail.Findings), redFlags)
}

func (s *Service) loadDetail(ctx context.Context, id int64) (domain.InvestigationDetail, error) {
	var detail domain.InvestigationDetail
	var err error
	if detail.Findings, err = s.findings.FindingsByInvestigation(ctx, id); err != nil {
		return detail, err
	}
	if detail.ImageAnalyses, err = s.findings.ImageAnalysesByInvestigation(ctx, id); err != nil {
		return detail, err
	}
	if detail.Socials, err = s.findings.SocialProfilesByInvestigation(ctx, id); err != nil {
		return detail, err
	}
	if detail.Breaches, err = s.findings.BreachRecordsByInvestigation(ctx, id); err != nil {
		return detail, err
	}
	if detail.Convictions, err = s.findings.ConvictionRecordsByInvestigation(ctx, id); err != nil {
		return detail, err
	}
	return detail, nil
}
