package investigations

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

const listLimit = 20

type Service struct {
	investigations ports.InvestigationRepository
	findings       ports.FindingRepository
	reports        ports.ReportRepository
	config         ports.ConfigRepository
	jobs           ports.JobRepository
	log            *zap.Logger
}

func New(investigations ports.InvestigationRepository, findings ports.FindingRepository, reports ports.ReportRepository, config ports.ConfigRepository, jobs ports.JobRepository, log *zap.Logger) *Service {
	return &Service{
		investigations: investigations,
		findings:       findings,
		reports:        reports,
		config:         config,
		jobs:           jobs,
		log:            log,
	}
}

// Create validates the submission and inserts the investigation in pending
// state. No partial record is created on validation failure.
func (s *Service) Create(ctx context.Context, in ports.CreateInvestigationInput) (domain.Investigation, error) {
	if !in.Type.Valid() {
		return domain.Investigation{}, domain.NewValidationError("investigation_type", "must be simple or full")
	}
	if !in.AcceptedTerms {
		return domain.Investigation{}, domain.NewValidationError("accepted_terms", "terms must be accepted")
	}

	priceKey := fmt.Sprintf("%s_report_price_aud", in.Type)
	priceRaw, err := s.config.GetValue(ctx, priceKey)
	if err != nil {
		return domain.Investigation{}, fmt.Errorf("pricing configuration: %w", err)
	}
	amount, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		return domain.Investigation{}, fmt.Errorf("pricing configuration %s: %w", priceKey, err)
	}

	paymentRef := "pay_" + uuid.NewString()
	inv := domain.Investigation{
		Type:           in.Type,
		Status:         domain.StatusPending,
		TargetName:     optional(in.TargetName),
		TargetEmail:    optional(in.TargetEmail),
		TargetPhone:    optional(in.TargetPhone),
		DatingPlatform: optional(in.DatingPlatform),
		AdditionalInfo: optional(in.AdditionalInfo),
		PaymentRef:     &paymentRef,
		PaymentStatus:  domain.PaymentPending,
		AmountAUD:      amount,
	}
	id, err := s.investigations.Create(ctx, &inv)
	if err != nil {
		return domain.Investigation{}, err
	}
	inv.ID = id

	s.log.Info("investigation created",
		zap.Int64("investigation_id", id),
		zap.String("type", string(in.Type)),
	)
	return inv, nil
}

func (s *Service) Detail(ctx context.Context, id int64) (domain.InvestigationDetail, error) {
	inv, err := s.investigations.Get(ctx, id)
	if err != nil {
		return domain.InvestigationDetail{}, err
	}

	detail := domain.InvestigationDetail{Investigation: inv}
	if detail.Findings, err = s.findings.FindingsByInvestigation(ctx, id); err != nil {
		return domain.InvestigationDetail{}, err
	}
	if detail.ImageAnalyses, err = s.findings.ImageAnalysesByInvestigation(ctx, id); err != nil {
		return domain.InvestigationDetail{}, err
	}
	if detail.Socials, err = s.findings.SocialProfilesByInvestigation(ctx, id); err != nil {
		return domain.InvestigationDetail{}, err
	}
	if detail.Breaches, err = s.findings.BreachRecordsByInvestigation(ctx, id); err != nil {
		return domain.InvestigationDetail{}, err
	}
	if detail.Convictions, err = s.findings.ConvictionRecordsByInvestigation(ctx, id); err != nil {
		return domain.InvestigationDetail{}, err
	}
	report, err := s.reports.ReportByInvestigation(ctx, id)
	switch {
	case err == nil:
		detail.Report = &report
	case domain.IsNotFound(err):
	default:
		return domain.InvestigationDetail{}, err
	}
	return detail, nil
}

func (s *Service) ListRecent(ctx context.Context) ([]domain.Investigation, error) {
	return s.investigations.ListRecent(ctx, listLimit)
}

// Start is the manual processing trigger. It marks the payment confirmed (a
// shortcut for operator-driven runs; the payment webhook is the production
// path), moves the investigation to processing, and enqueues the pipeline
// job. A repeat call reports ErrAlreadyRunning rather than double-running.
func (s *Service) Start(ctx context.Context, id int64) error {
	if _, err := s.investigations.MarkPaid(ctx, id); err != nil {
		return err
	}
	moved, err := s.investigations.BeginProcessing(ctx, id)
	if err != nil {
		return err
	}
	if !moved {
		return domain.ErrAlreadyRunning
	}
	if _, err := s.jobs.Enqueue(ctx, id); err != nil {
		return err
	}
	s.log.Info("investigation queued for processing", zap.Int64("investigation_id", id))
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.investigations.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("investigation deleted", zap.Int64("investigation_id", id))
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
