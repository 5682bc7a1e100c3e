package ports

import (
	"context"

	"whohub/internal/domain"
)

// InvestigationRepository is the authoritative store for investigation rows.
// Status moves forward only: pending -> processing -> {completed, failed}.
// The guarded transitions below return false instead of regressing.
type InvestigationRepository interface {
	Create(ctx context.Context, inv *domain.Investigation) (int64, error)
	Get(ctx context.Context, id int64) (domain.Investigation, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Investigation, error)

	// Delete removes the investigation and every row referencing its id
	// across findings, aggregates and reports (cascade).
	Delete(ctx context.Context, id int64) error

	AppendImage(ctx context.Context, id int64, url string) error
	RemoveImage(ctx context.Context, id int64, url string) error

	// MarkPaid flips payment_status pending -> paid. Returns false when the
	// payment was not pending (already paid, failed, or refunded).
	MarkPaid(ctx context.Context, id int64) (bool, error)

	// BeginProcessing is the status-guarded compare-and-swap on pipeline
	// start: pending -> processing, only when payment_status = paid.
	BeginProcessing(ctx context.Context, id int64) (bool, error)

	// SetScore writes the aggregated confidence score and red-flag count.
	SetScore(ctx context.Context, id int64, score, redFlags int) error

	Complete(ctx context.Context, id int64) error
	Fail(ctx context.Context, id int64) error

	FindByPaymentRef(ctx context.Context, ref string) (domain.Investigation, error)
	FailPayment(ctx context.Context, ref string) error
}

// FindingRepository persists collector output. Inserts only; findings and
// aggregates are immutable once written.
type FindingRepository interface {
	AddFinding(ctx context.Context, f *domain.Finding) error
	FindingsByInvestigation(ctx context.Context, investigationID int64) ([]domain.Finding, error)

	AddImageAnalysis(ctx context.Context, a *domain.ImageAnalysis) error
	ImageAnalysesByInvestigation(ctx context.Context, investigationID int64) ([]domain.ImageAnalysis, error)

	AddSocialProfile(ctx context.Context, p *domain.SocialProfile) error
	SocialProfilesByInvestigation(ctx context.Context, investigationID int64) ([]domain.SocialProfile, error)

	AddBreachRecord(ctx context.Context, b *domain.BreachRecord) error
	BreachRecordsByInvestigation(ctx context.Context, investigationID int64) ([]domain.BreachRecord, error)

	AddConvictionRecord(ctx context.Context, c *domain.ConvictionRecord) error
	ConvictionRecordsByInvestigation(ctx context.Context, investigationID int64) ([]domain.ConvictionRecord, error)
}

// ReportRepository stores at most one report per investigation.
type ReportRepository interface {
	CreateReport(ctx context.Context, r *domain.Report) (int64, error)
	ReportByInvestigation(ctx context.Context, investigationID int64) (domain.Report, error)
	DeleteReport(ctx context.Context, investigationID int64) error
}

// ConfigRepository reads operator-tunable settings (report pricing).
type ConfigRepository interface {
	GetValue(ctx context.Context, key string) (string, error)
}
