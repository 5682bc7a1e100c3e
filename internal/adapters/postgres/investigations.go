package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"whohub/internal/domain"
)

const investigationColumns = `
	id, investigation_type, status, target_name, target_email, target_phone,
	dating_platform, additional_info, COALESCE(submitted_images, '{}'),
	payment_ref, payment_status, amount_aud, confidence_score, red_flags_count,
	created_at, completed_at`

func scanInvestigation(row pgx.Row) (domain.Investigation, error) {
	var inv domain.Investigation
	err := row.Scan(
		&inv.ID, &inv.Type, &inv.Status, &inv.TargetName, &inv.TargetEmail, &inv.TargetPhone,
		&inv.DatingPlatform, &inv.AdditionalInfo, &inv.SubmittedImages,
		&inv.PaymentRef, &inv.PaymentStatus, &inv.AmountAUD, &inv.ConfidenceScore, &inv.RedFlagsCount,
		&inv.CreatedAt, &inv.CompletedAt,
	)
	return inv, err
}

func (db *DB) Create(ctx context.Context, inv *domain.Investigation) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO investigations (
			investigation_type, status, target_name, target_email, target_phone,
			dating_platform, additional_info, payment_ref, payment_status, amount_aud
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, inv.Type, inv.Status, inv.TargetName, inv.TargetEmail, inv.TargetPhone,
		inv.DatingPlatform, inv.AdditionalInfo, inv.PaymentRef, inv.PaymentStatus, inv.AmountAUD,
	).Scan(&id)
	return id, err
}

func (db *DB) Get(ctx context.Context, id int64) (domain.Investigation, error) {
	inv, err := scanInvestigation(db.Pool.QueryRow(ctx,
		`SELECT `+investigationColumns+` FROM investigations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Investigation{}, domain.NewNotFoundError("investigation", id)
	}
	return inv, err
}

func (db *DB) ListRecent(ctx context.Context, limit int) ([]domain.Investigation, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+investigationColumns+` FROM investigations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Investigation
	for rows.Next() {
		inv, err := scanInvestigation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Delete relies on ON DELETE CASCADE for findings, aggregates, jobs and
// reports.
func (db *DB) Delete(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM investigations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("investigation", id)
	}
	return nil
}

func (db *DB) AppendImage(ctx context.Context, id int64, url string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations SET submitted_images = array_append(COALESCE(submitted_images, '{}'), $2)
		WHERE id = $1
	`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("investigation", id)
	}
	return nil
}

func (db *DB) RemoveImage(ctx context.Context, id int64, url string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations SET submitted_images = array_remove(submitted_images, $2)
		WHERE id = $1
	`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("investigation", id)
	}
	return nil
}

func (db *DB) MarkPaid(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations SET payment_status = 'paid'
		WHERE id = $1 AND payment_status = 'pending'
	`, id)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	// Distinguish a declined transition from a missing row.
	if err := db.exists(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (db *DB) BeginProcessing(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations SET status = 'processing'
		WHERE id = $1 AND status = 'pending' AND payment_status = 'paid'
	`, id)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	if err := db.exists(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (db *DB) SetScore(ctx context.Context, id int64, score, redFlags int) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations SET confidence_score = $2, red_flags_count = $3 WHERE id = $1
	`, id, score, redFlags)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("investigation", id)
	}
	return nil
}

func (db *DB) Complete(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations SET status = 'completed', completed_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("investigation", id)
	}
	return nil
}

func (db *DB) Fail(ctx context.Context, id int64) error {
	// A completed investigation stays completed.
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations SET status = 'failed' WHERE id = $1 AND status <> 'completed'
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.exists(ctx, id)
	}
	return nil
}

func (db *DB) FindByPaymentRef(ctx context.Context, ref string) (domain.Investigation, error) {
	inv, err := scanInvestigation(db.Pool.QueryRow(ctx,
		`SELECT `+investigationColumns+` FROM investigations WHERE payment_ref = $1`, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Investigation{}, fmt.Errorf("%w: payment ref %s", domain.ErrNotFound, ref)
	}
	return inv, err
}

func (db *DB) FailPayment(ctx context.Context, ref string) error {
	// Status moves forward only: a late failure signal records the payment
	// outcome but never regresses a completed investigation.
	tag, err := db.Pool.Exec(ctx, `
		UPDATE investigations
		SET payment_status = 'failed',
		    status = CASE WHEN status = 'completed' THEN status ELSE 'failed' END
		WHERE payment_ref = $1
	`, ref)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment ref %s", domain.ErrNotFound, ref)
	}
	return nil
}

func (db *DB) exists(ctx context.Context, id int64) error {
	var one int
	err := db.Pool.QueryRow(ctx, `SELECT 1 FROM investigations WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundError("investigation", id)
	}
	return err
}
