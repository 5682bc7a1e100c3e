package ports

import (
	"context"
	"time"

	"whohub/internal/domain"
)

// Investigations is the service surface behind the investigation endpoints.
type Investigations interface {
	Create(ctx context.Context, in CreateInvestigationInput) (domain.Investigation, error)
	Detail(ctx context.Context, id int64) (domain.InvestigationDetail, error)
	ListRecent(ctx context.Context) ([]domain.Investigation, error)
	// Start marks the investigation paid (manual trigger path) and enqueues
	// pipeline processing. Safe to call more than once; repeats report
	// domain.ErrAlreadyRunning.
	Start(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type CreateInvestigationInput struct {
	Type           domain.InvestigationType
	TargetName     string
	TargetEmail    string
	TargetPhone    string
	DatingPlatform string
	AdditionalInfo string
	AcceptedTerms  bool
}

// Reports assembles and serves the final document for a completed
// investigation.
type Reports interface {
	// Generate returns the report and whether it was created by this call.
	// A second call short-circuits to the existing row.
	Generate(ctx context.Context, investigationID int64) (domain.Report, bool, error)
	Get(ctx context.Context, investigationID int64) (domain.Report, error)
	Download(ctx context.Context, investigationID int64) (data []byte, contentType string, err error)
	Delete(ctx context.Context, investigationID int64) error
}

// Payments reacts to the external payment confirmation signal.
type Payments interface {
	Confirm(ctx context.Context, paymentRef string) error
	Fail(ctx context.Context, paymentRef string) error
}

// Uploads manages submitted target images.
type Uploads interface {
	SaveImage(ctx context.Context, investigationID int64, filename, contentType string, data []byte) (url string, err error)
	GetImage(ctx context.Context, investigationID int64, filename string) (data []byte, contentType string, err error)
	DeleteImage(ctx context.Context, investigationID int64, filename string) error
}

// BlobStore holds opaque byte payloads keyed by path-like strings: submitted
// images and generated report documents.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, key string) error
}

// Locker guards against concurrent pipeline runs for one investigation id.
type Locker interface {
	// Acquire takes the lock or returns false when another holder has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
