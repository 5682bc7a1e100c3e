package postgres

import (
	"context"

	"whohub/internal/domain"
)

func (db *DB) AddFinding(ctx context.Context, f *domain.Finding) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO osint_findings (
			investigation_id, finding_kind, source, confidence, red_flag, raw_data,
			image_url, matched_url, platform, profile_url, username,
			breach_name, breach_date, conviction_type, conviction_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`, f.InvestigationID, f.Kind, f.Source, f.Confidence, f.RedFlag, f.RawData,
		f.ImageURL, f.MatchedURL, f.Platform, f.ProfileURL, f.Username,
		f.BreachName, f.BreachDate, f.ConvictionType, f.ConvictionDate,
	).Scan(&f.ID, &f.CreatedAt)
}

func (db *DB) FindingsByInvestigation(ctx context.Context, investigationID int64) ([]domain.Finding, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, investigation_id, finding_kind, source, confidence, red_flag, raw_data,
		       image_url, matched_url, platform, profile_url, username,
		       breach_name, breach_date, conviction_type, conviction_date, created_at
		FROM osint_findings WHERE investigation_id = $1 ORDER BY id
	`, investigationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Finding
	for rows.Next() {
		var f domain.Finding
		if err := rows.Scan(
			&f.ID, &f.InvestigationID, &f.Kind, &f.Source, &f.Confidence, &f.RedFlag, &f.RawData,
			&f.ImageURL, &f.MatchedURL, &f.Platform, &f.ProfileURL, &f.Username,
			&f.BreachName, &f.BreachDate, &f.ConvictionType, &f.ConvictionDate, &f.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (db *DB) AddImageAnalysis(ctx context.Context, a *domain.ImageAnalysis) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO image_analysis (
			investigation_id, image_url, ai_generated, ai_confidence,
			deepfake_probability, reverse_matches, top_match_url, top_match_domain
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, a.InvestigationID, a.ImageURL, a.AIGenerated, a.AIConfidence,
		a.DeepfakeProbability, a.ReverseMatches, a.TopMatchURL, a.TopMatchDomain,
	).Scan(&a.ID, &a.CreatedAt)
}

func (db *DB) ImageAnalysesByInvestigation(ctx context.Context, investigationID int64) ([]domain.ImageAnalysis, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, investigation_id, image_url, ai_generated, ai_confidence,
		       deepfake_probability, reverse_matches, top_match_url, top_match_domain, created_at
		FROM image_analysis WHERE investigation_id = $1 ORDER BY id
	`, investigationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ImageAnalysis
	for rows.Next() {
		var a domain.ImageAnalysis
		if err := rows.Scan(
			&a.ID, &a.InvestigationID, &a.ImageURL, &a.AIGenerated, &a.AIConfidence,
			&a.DeepfakeProbability, &a.ReverseMatches, &a.TopMatchURL, &a.TopMatchDomain, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (db *DB) AddSocialProfile(ctx context.Context, p *domain.SocialProfile) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO social_profiles (
			investigation_id, platform, profile_url, username, display_name,
			profile_image_url, match_confidence, suspicious
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, p.InvestigationID, p.Platform, p.ProfileURL, p.Username, p.DisplayName,
		p.ProfileImageURL, p.MatchConfidence, p.Suspicious,
	).Scan(&p.ID, &p.CreatedAt)
}

func (db *DB) SocialProfilesByInvestigation(ctx context.Context, investigationID int64) ([]domain.SocialProfile, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, investigation_id, platform, profile_url, username, display_name,
		       profile_image_url, match_confidence, suspicious, created_at
		FROM social_profiles WHERE investigation_id = $1 ORDER BY id
	`, investigationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SocialProfile
	for rows.Next() {
		var p domain.SocialProfile
		if err := rows.Scan(
			&p.ID, &p.InvestigationID, &p.Platform, &p.ProfileURL, &p.Username, &p.DisplayName,
			&p.ProfileImageURL, &p.MatchConfidence, &p.Suspicious, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (db *DB) AddBreachRecord(ctx context.Context, b *domain.BreachRecord) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO breach_records (
			investigation_id, email, phone, name, breach_date, description,
			data_types, verified, severity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, b.InvestigationID, b.Email, b.Phone, b.Name, b.Date, b.Description,
		b.DataTypes, b.Verified, b.Severity,
	).Scan(&b.ID, &b.CreatedAt)
}

func (db *DB) BreachRecordsByInvestigation(ctx context.Context, investigationID int64) ([]domain.BreachRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, investigation_id, email, phone, name, breach_date, description,
		       COALESCE(data_types, '{}'), verified, severity, created_at
		FROM breach_records WHERE investigation_id = $1 ORDER BY id
	`, investigationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BreachRecord
	for rows.Next() {
		var b domain.BreachRecord
		if err := rows.Scan(
			&b.ID, &b.InvestigationID, &b.Email, &b.Phone, &b.Name, &b.Date, &b.Description,
			&b.DataTypes, &b.Verified, &b.Severity, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (db *DB) AddConvictionRecord(ctx context.Context, c *domain.ConvictionRecord) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO conviction_records (
			investigation_id, full_name, conviction_type, court, case_number,
			conviction_date, sentence, jurisdiction, source_url, confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, c.InvestigationID, c.FullName, c.Type, c.Court, c.CaseNumber,
		c.Date, c.Sentence, c.Jurisdiction, c.SourceURL, c.Confidence,
	).Scan(&c.ID, &c.CreatedAt)
}

func (db *DB) ConvictionRecordsByInvestigation(ctx context.Context, investigationID int64) ([]domain.ConvictionRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, investigation_id, full_name, conviction_type, court, case_number,
		       conviction_date, sentence, jurisdiction, source_url, confidence, created_at
		FROM conviction_records WHERE investigation_id = $1 ORDER BY id
	`, investigationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConvictionRecord
	for rows.Next() {
		var c domain.ConvictionRecord
		if err := rows.Scan(
			&c.ID, &c.InvestigationID, &c.FullName, &c.Type, &c.Court, &c.CaseNumber,
			&c.Date, &c.Sentence, &c.Jurisdiction, &c.SourceURL, &c.Confidence, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
