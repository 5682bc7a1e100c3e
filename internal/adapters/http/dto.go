package httpadapter

import (
	"time"

	"whohub/internal/domain"
)

// Wire shapes. Kept apart from the domain structs so column or field renames
// never leak into the public API.

type investigationJSON struct {
	ID              int64      `json:"id"`
	Type            string     `json:"investigation_type"`
	Status          string     `json:"status"`
	TargetName      *string    `json:"target_name,omitempty"`
	TargetEmail     *string    `json:"target_email,omitempty"`
	TargetPhone     *string    `json:"target_phone,omitempty"`
	DatingPlatform  *string    `json:"dating_platform,omitempty"`
	AdditionalInfo  *string    `json:"additional_info,omitempty"`
	SubmittedImages []string   `json:"submitted_images,omitempty"`
	PaymentRef      *string    `json:"payment_ref,omitempty"`
	PaymentStatus   string     `json:"payment_status"`
	AmountAUD       float64    `json:"amount_aud"`
	ConfidenceScore *int       `json:"confidence_score,omitempty"`
	RedFlagsCount   int        `json:"red_flags_count"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func toInvestigationJSON(inv domain.Investigation) investigationJSON {
	return investigationJSON{
		ID:              inv.ID,
		Type:            string(inv.Type),
		Status:          string(inv.Status),
		TargetName:      inv.TargetName,
		TargetEmail:     inv.TargetEmail,
		TargetPhone:     inv.TargetPhone,
		DatingPlatform:  inv.DatingPlatform,
		AdditionalInfo:  inv.AdditionalInfo,
		SubmittedImages: inv.SubmittedImages,
		PaymentRef:      inv.PaymentRef,
		PaymentStatus:   string(inv.PaymentStatus),
		AmountAUD:       inv.AmountAUD,
		ConfidenceScore: inv.ConfidenceScore,
		RedFlagsCount:   inv.RedFlagsCount,
		CreatedAt:       inv.CreatedAt,
		CompletedAt:     inv.CompletedAt,
	}
}

type findingJSON struct {
	ID         int64   `json:"id"`
	Kind       string  `json:"finding_type"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	RedFlag    bool    `json:"is_red_flag"`
	Platform   *string `json:"platform,omitempty"`
	ProfileURL *string `json:"profile_url,omitempty"`
	Username   *string `json:"username,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
	MatchedURL *string `json:"matched_url,omitempty"`
	BreachName *string `json:"breach_name,omitempty"`
}

func toFindingJSON(f domain.Finding) findingJSON {
	return findingJSON{
		ID:         f.ID,
		Kind:       string(f.Kind),
		Source:     f.Source,
		Confidence: f.Confidence,
		RedFlag:    f.RedFlag,
		Platform:   f.Platform,
		ProfileURL: f.ProfileURL,
		Username:   f.Username,
		ImageURL:   f.ImageURL,
		MatchedURL: f.MatchedURL,
		BreachName: f.BreachName,
	}
}

type reportJSON struct {
	ID                int64     `json:"id"`
	InvestigationID   int64     `json:"investigation_id"`
	Type              string    `json:"report_type"`
	ExecutiveSummary  string    `json:"executive_summary"`
	ImageSummary      string    `json:"image_analysis_summary"`
	SocialSummary     string    `json:"social_profiles_summary"`
	RedFlagsSummary   string    `json:"red_flags_summary"`
	BreachSummary     string    `json:"breach_summary"`
	ConvictionSummary string    `json:"conviction_summary"`
	TotalPages        int       `json:"total_pages"`
	GenerationSeconds int       `json:"generation_time_seconds"`
	FilePath          string    `json:"pdf_file_path"`
	FileSize          int64     `json:"pdf_file_size"`
	CreatedAt         time.Time `json:"created_at"`
}

func toReportJSON(r domain.Report) reportJSON {
	return reportJSON{
		ID:                r.ID,
		InvestigationID:   r.InvestigationID,
		Type:              string(r.Type),
		ExecutiveSummary:  r.ExecutiveSummary,
		ImageSummary:      r.ImageSummary,
		SocialSummary:     r.SocialSummary,
		RedFlagsSummary:   r.RedFlagsSummary,
		BreachSummary:     r.BreachSummary,
		ConvictionSummary: r.ConvictionSummary,
		TotalPages:        r.TotalPages,
		GenerationSeconds: r.GenerationSeconds,
		FilePath:          r.FilePath,
		FileSize:          r.FileSize,
		CreatedAt:         r.CreatedAt,
	}
}

type imageAnalysisJSON struct {
	ID                  int64   `json:"id"`
	ImageURL            string  `json:"image_url"`
	AIGenerated         bool    `json:"is_ai_generated"`
	AIConfidence        float64 `json:"ai_confidence"`
	DeepfakeProbability float64 `json:"deepfake_probability"`
	ReverseMatches      int     `json:"reverse_search_matches"`
	TopMatchURL         *string `json:"top_match_url,omitempty"`
	TopMatchDomain      *string `json:"top_match_domain,omitempty"`
}

type socialProfileJSON struct {
	ID              int64   `json:"id"`
	Platform        string  `json:"platform"`
	ProfileURL      *string `json:"profile_url,omitempty"`
	Username        *string `json:"username,omitempty"`
	DisplayName     *string `json:"display_name,omitempty"`
	MatchConfidence float64 `json:"match_confidence"`
	Suspicious      bool    `json:"suspicious_activity"`
}

type breachRecordJSON struct {
	ID        int64    `json:"id"`
	Name      string   `json:"breach_name"`
	Date      *string  `json:"breach_date,omitempty"`
	DataTypes []string `json:"data_types,omitempty"`
	Verified  bool     `json:"verified"`
	Severity  string   `json:"severity"`
}

type convictionRecordJSON struct {
	ID           int64   `json:"id"`
	FullName     *string `json:"full_name,omitempty"`
	Type         *string `json:"conviction_type,omitempty"`
	Court        *string `json:"court_name,omitempty"`
	CaseNumber   *string `json:"case_number,omitempty"`
	Date         *string `json:"conviction_date,omitempty"`
	Jurisdiction *string `json:"jurisdiction,omitempty"`
	Confidence   float64 `json:"confidence"`
}

type detailJSON struct {
	Investigation investigationJSON      `json:"investigation"`
	Findings      []findingJSON          `json:"findings"`
	ImageAnalyses []imageAnalysisJSON    `json:"image_analysis"`
	Socials       []socialProfileJSON    `json:"social_profiles"`
	Breaches      []breachRecordJSON     `json:"breach_records"`
	Convictions   []convictionRecordJSON `json:"conviction_records"`
	Report        *reportJSON            `json:"report,omitempty"`
}

func toDetailJSON(d domain.InvestigationDetail) detailJSON {
	out := detailJSON{
		Investigation: toInvestigationJSON(d.Investigation),
		Findings:      make([]findingJSON, 0, len(d.Findings)),
		ImageAnalyses: make([]imageAnalysisJSON, 0, len(d.ImageAnalyses)),
		Socials:       make([]socialProfileJSON, 0, len(d.Socials)),
		Breaches:      make([]breachRecordJSON, 0, len(d.Breaches)),
		Convictions:   make([]convictionRecordJSON, 0, len(d.Convictions)),
	}
	for _, f := range d.Findings {
		out.Findings = append(out.Findings, toFindingJSON(f))
	}
	for _, a := range d.ImageAnalyses {
		out.ImageAnalyses = append(out.ImageAnalyses, imageAnalysisJSON{
			ID:                  a.ID,
			ImageURL:            a.ImageURL,
			AIGenerated:         a.AIGenerated,
			AIConfidence:        a.AIConfidence,
			DeepfakeProbability: a.DeepfakeProbability,
			ReverseMatches:      a.ReverseMatches,
			TopMatchURL:         a.TopMatchURL,
			TopMatchDomain:      a.TopMatchDomain,
		})
	}
	for _, p := range d.Socials {
		out.Socials = append(out.Socials, socialProfileJSON{
			ID:              p.ID,
			Platform:        p.Platform,
			ProfileURL:      p.ProfileURL,
			Username:        p.Username,
			DisplayName:     p.DisplayName,
			MatchConfidence: p.MatchConfidence,
			Suspicious:      p.Suspicious,
		})
	}
	for _, b := range d.Breaches {
		out.Breaches = append(out.Breaches, breachRecordJSON{
			ID:        b.ID,
			Name:      b.Name,
			Date:      b.Date,
			DataTypes: b.DataTypes,
			Verified:  b.Verified,
			Severity:  string(b.Severity),
		})
	}
	for _, c := range d.Convictions {
		out.Convictions = append(out.Convictions, convictionRecordJSON{
			ID:           c.ID,
			FullName:     c.FullName,
			Type:         c.Type,
			Court:        c.Court,
			CaseNumber:   c.CaseNumber,
			Date:         c.Date,
			Jurisdiction: c.Jurisdiction,
			Confidence:   c.Confidence,
		})
	}
	if d.Report != nil {
		r := toReportJSON(*d.Report)
		out.Report = &r
	}
	return out
}
