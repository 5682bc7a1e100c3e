package ports

import "context"

type PipelineJob struct {
	ID              int64
	InvestigationID int64
}

// JobRepository supports enqueueing and claiming pipeline jobs. A queued job
// survives a crash, so an investigation is never left stuck in processing
// with no claimable work.
type JobRepository interface {
	Enqueue(ctx context.Context, investigationID int64) (jobID int64, err error)
	ClaimNext(ctx context.Context) (job PipelineJob, found bool, err error)
	MarkCompleted(ctx context.Context, jobID int64) error
	MarkFailed(ctx context.Context, jobID int64, reason string) error
	// ClaimForInvestigation claims the queued job for a specific
	// investigation, for the synchronous wait=true path.
	ClaimForInvestigation(ctx context.Context, investigationID int64) (jobID int64, err error)
}
