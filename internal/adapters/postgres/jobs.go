package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

func (db *DB) Enqueue(ctx context.Context, investigationID int64) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO investigation_jobs (investigation_id) VALUES ($1) RETURNING id
	`, investigationID).Scan(&id)
	return id, err
}

// ClaimNext selects the next queued job using SKIP LOCKED and marks it
// running, so concurrent workers never claim the same job.
func (db *DB) ClaimNext(ctx context.Context) (job ports.PipelineJob, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return job, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		SELECT id, investigation_id FROM investigation_jobs
		WHERE status = 'queued'
		ORDER BY queued_at
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`).Scan(&job.ID, &job.InvestigationID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE investigation_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1
	`, job.ID); err != nil {
		return job, false, err
	}
	return job, true, nil
}

// ClaimForInvestigation grabs the queued job for one investigation; the
// synchronous wait path uses this to drive the job the webhook just queued.
func (db *DB) ClaimForInvestigation(ctx context.Context, investigationID int64) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		UPDATE investigation_jobs SET status='running', started_at=now(), attempts=attempts+1
		WHERE id = (
			SELECT id FROM investigation_jobs
			WHERE investigation_id = $1 AND status = 'queued'
			ORDER BY queued_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id
	`, investigationID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: queued job for investigation %d", domain.ErrNotFound, investigationID)
	}
	return id, err
}

func (db *DB) MarkCompleted(ctx context.Context, jobID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
		UPDATE investigation_jobs SET status='completed', finished_at=now() WHERE id=$1
	`, jobID)
	return err
}

func (db *DB) MarkFailed(ctx context.Context, jobID int64, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
		UPDATE investigation_jobs SET status='failed', finished_at=now(), failure_reason=$2 WHERE id=$1
	`, jobID, reason)
	return err
}
