package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"whohub/internal/domain"
)

func (db *DB) CreateReport(ctx context.Context, r *domain.Report) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO reports (
			investigation_id, report_type, executive_summary, image_summary,
			social_summary, red_flags_summary, breach_summary, conviction_summary,
			total_pages, generation_seconds, file_path, file_size
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, r.InvestigationID, r.Type, r.ExecutiveSummary, r.ImageSummary,
		r.SocialSummary, r.RedFlagsSummary, r.BreachSummary, r.ConvictionSummary,
		r.TotalPages, r.GenerationSeconds, r.FilePath, r.FileSize,
	).Scan(&id)
	return id, err
}

func (db *DB) ReportByInvestigation(ctx context.Context, investigationID int64) (domain.Report, error) {
	var r domain.Report
	err := db.Pool.QueryRow(ctx, `
		SELECT id, investigation_id, report_type, executive_summary, image_summary,
		       social_summary, red_flags_summary, breach_summary, conviction_summary,
		       total_pages, generation_seconds, file_path, file_size, created_at
		FROM reports WHERE investigation_id = $1
	`, investigationID).Scan(
		&r.ID, &r.InvestigationID, &r.Type, &r.ExecutiveSummary, &r.ImageSummary,
		&r.SocialSummary, &r.RedFlagsSummary, &r.BreachSummary, &r.ConvictionSummary,
		&r.TotalPages, &r.GenerationSeconds, &r.FilePath, &r.FileSize, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Report{}, domain.NewNotFoundError("report", investigationID)
	}
	return r, err
}

func (db *DB) DeleteReport(ctx context.Context, investigationID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM reports WHERE investigation_id = $1`, investigationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("report", investigationID)
	}
	return nil
}

// ConfigRepository

func (db *DB) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := db.Pool.QueryRow(ctx, `SELECT value FROM system_config WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: config key %s", domain.ErrNotFound, key)
	}
	return value, err
}
