// Package pipeline drives an investigation from processing to a terminal
// status: fan out the applicable collectors, wait for all of them to settle,
// aggregate the findings, and record the outcome exactly once.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"whohub/internal/collectors"
	"whohub/internal/domain"
	"whohub/internal/ports"
	"whohub/internal/services/scoring"
)

const lockTTL = 10 * time.Minute

// Processor performs the enrichment work for one investigation id.
type Processor interface {
	Process(ctx context.Context, investigationID int64) error
}

// Collectors groups the enrichment units the runner fans out to.
type Collectors struct {
	Image    *collectors.ImageCollector
	Breach   *collectors.BreachCollector
	Social   *collectors.SocialCollector
	Criminal *collectors.CriminalCollector
}

type Runner struct {
	investigations   ports.InvestigationRepository
	collectors       Collectors
	aggregator       *scoring.Aggregator
	lock             ports.Locker
	collectorTimeout time.Duration
	log              *zap.Logger
}

func NewRunner(investigations ports.InvestigationRepository, c Collectors, aggregator *scoring.Aggregator, lock ports.Locker, collectorTimeout time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		investigations:   investigations,
		collectors:       c,
		aggregator:       aggregator,
		lock:             lock,
		collectorTimeout: collectorTimeout,
		log:              log,
	}
}

// Process runs the full enrichment pipeline for one investigation. It always
// reaches a terminal status unless the process crashes: collector failures
// are absorbed inside the fan-out, and only failures of the orchestration
// itself mark the investigation failed.
func (r *Runner) Process(ctx context.Context, id int64) error {
	key := fmt.Sprintf("pipeline:investigation:%d", id)
	acquired, err := r.lock.Acquire(ctx, key, lockTTL)
	if err != nil {
		return domain.NewPipelineError(id, fmt.Errorf("acquire lock: %w", err))
	}
	if !acquired {
		return domain.ErrAlreadyRunning
	}
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx), key); err != nil {
			r.log.Warn("release pipeline lock", zap.Int64("investigation_id", id), zap.Error(err))
		}
	}()

	inv, err := r.investigations.Get(ctx, id)
	if err != nil {
		return err
	}
	switch inv.Status {
	case domain.StatusCompleted, domain.StatusFailed:
		// Terminal already; nothing to do.
		return nil
	}
	if inv.PaymentStatus != domain.PaymentPaid {
		return domain.NewValidationError("payment_status", "must be paid before processing")
	}
	if inv.Status == domain.StatusPending {
		moved, err := r.investigations.BeginProcessing(ctx, id)
		if err != nil {
			return domain.NewPipelineError(id, err)
		}
		if !moved {
			inv, err = r.investigations.Get(ctx, id)
			if err != nil {
				return err
			}
			if inv.Status != domain.StatusProcessing {
				return domain.ErrAlreadyRunning
			}
		}
	}

	r.log.Info("pipeline started",
		zap.Int64("investigation_id", id),
		zap.String("type", string(inv.Type)),
	)

	r.fanOut(ctx, inv)

	score, redFlags, err := r.aggregator.Aggregate(ctx, id)
	if err != nil {
		return r.fail(ctx, id, fmt.Errorf("aggregate: %w", err))
	}
	if err := r.investigations.Complete(ctx, id); err != nil {
		return r.fail(ctx, id, fmt.Errorf("complete: %w", err))
	}

	r.log.Info("pipeline completed",
		zap.Int64("investigation_id", id),
		zap.Int("score", score),
		zap.Int("red_flags", redFlags),
	)
	return nil
}

// fanOut launches every applicable collector and waits for all of them to
// settle. Collectors absorb their own fetch failures; each task gets its own
// deadline so a stuck fetch cannot hold the pipeline open.
func (r *Runner) fanOut(ctx context.Context, inv domain.Investigation) {
	var g errgroup.Group
	run := func(task func(context.Context)) {
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, r.collectorTimeout)
			defer cancel()
			task(tctx)
			return nil
		})
	}

	id := inv.ID
	if len(inv.SubmittedImages) > 0 {
		images := inv.SubmittedImages
		run(func(tctx context.Context) { r.collectors.Image.Collect(tctx, id, images) })
	}
	if inv.TargetEmail != nil {
		email := *inv.TargetEmail
		run(func(tctx context.Context) { r.collectors.Breach.Collect(tctx, id, email, ports.IdentifierEmail) })
	}
	if inv.TargetPhone != nil {
		phone := *inv.TargetPhone
		run(func(tctx context.Context) { r.collectors.Breach.Collect(tctx, id, phone, ports.IdentifierPhone) })
	}
	if inv.TargetName != nil {
		name := *inv.TargetName
		refImage := ""
		if len(inv.SubmittedImages) > 0 {
			refImage = inv.SubmittedImages[0]
		}
		run(func(tctx context.Context) { r.collectors.Social.Collect(tctx, id, name, refImage) })
		if inv.Type == domain.TypeFull {
			run(func(tctx context.Context) { r.collectors.Criminal.Collect(tctx, id, name) })
		}
	}

	// Tasks never return errors; Wait is a settle-all barrier.
	_ = g.Wait()
}

func (r *Runner) fail(ctx context.Context, id int64, cause error) error {
	if err := r.investigations.Fail(ctx, id); err != nil {
		r.log.Error("mark investigation failed", zap.Int64("investigation_id", id), zap.Error(err))
	}
	return domain.NewPipelineError(id, cause)
}

// Run starts worker goroutines that claim queued pipeline jobs and process
// them until ctx is cancelled.
func Run(ctx context.Context, jobs ports.JobRepository, processor Processor, log *zap.Logger, concurrency int, pollInterval time.Duration) {
	if concurrency < 1 {
		return
	}
	jobCh := make(chan ports.PipelineJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(jobCh)
				return
			case <-ticker.C:
				for {
					job, found, err := jobs.ClaimNext(ctx)
					if err != nil {
						log.Warn("job claim error", zap.Error(err))
						break
					}
					if !found {
						break
					}
					jobCh <- job
				}
			}
		}
	}()

	// workers
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobCh {
				if err := processor.Process(ctx, job.InvestigationID); err != nil {
					_ = jobs.MarkFailed(ctx, job.ID, err.Error())
					log.Warn("pipeline job failed",
						zap.Int("worker", idx),
						zap.Int64("job_id", job.ID),
						zap.Int64("investigation_id", job.InvestigationID),
						zap.Error(err),
					)
					continue
				}
				if err := jobs.MarkCompleted(ctx, job.ID); err != nil {
					log.Warn("mark job completed", zap.Int("worker", idx), zap.Int64("job_id", job.ID), zap.Error(err))
				}
			}
		}(i)
	}
}

// ProcessInline claims the queued job for a specific investigation and
// processes it synchronously, using the same processor the background
// workers use.
func ProcessInline(ctx context.Context, jobs ports.JobRepository, processor Processor, investigationID int64) error {
	jobID, err := jobs.ClaimForInvestigation(ctx, investigationID)
	if err != nil {
		return err
	}
	if err := processor.Process(ctx, investigationID); err != nil {
		_ = jobs.MarkFailed(ctx, jobID, err.Error())
		return err
	}
	return jobs.MarkCompleted(ctx, jobID)
}
