// Package providers holds the simulated OSINT sources used until the real
// integrations (Google Vision, HaveIBeenPwned, court record databases) are
// licensed. The shapes and confidences mirror what the live sources return
// so the pipeline, scoring and reports exercise realistic data.
package providers

import (
	"context"

	"whohub/internal/ports"
)

type SimulatedReverseImage struct{}

func (SimulatedReverseImage) Search(ctx context.Context, imageURL string) (ports.ReverseImageResult, error) {
	matches := []ports.ImageMatch{
		{
			URL:          "https://example.com/similar-image-1.jpg",
			Similarity:   0.85,
			SourceDomain: "example.com",
			ThumbnailURL: "https://example.com/thumb1.jpg",
			Context:      "Social media profile",
		},
		{
			URL:          "https://stock-photos.com/image-123.jpg",
			Similarity:   0.92,
			SourceDomain: "stock-photos.com",
			ThumbnailURL: "https://stock-photos.com/thumb123.jpg",
			Context:      "Stock photography",
		},
	}
	return ports.ReverseImageResult{
		Source:       "google_vision",
		Matches:      matches,
		TotalMatches: len(matches),
	}, nil
}

type SimulatedImageAssessor struct{}

func (SimulatedImageAssessor) Assess(ctx context.Context, imageURL string) (ports.ImageAssessment, error) {
	return ports.ImageAssessment{
		AIGenerated:         false,
		Confidence:          0.2,
		DeepfakeProbability: 0.1,
	}, nil
}

type SimulatedBreaches struct{}

func (SimulatedBreaches) Lookup(ctx context.Context, identifier string, kind ports.IdentifierKind) ([]ports.Breach, error) {
	return []ports.Breach{
		{
			Name:        "LinkedIn",
			Date:        "2021-06-01",
			Description: "Professional networking platform breach",
			DataTypes:   []string{"Email addresses", "Names", "Professional information"},
			Verified:    true,
			Severity:    "high",
		},
	}, nil
}

type SimulatedSocialSearch struct{}

func (SimulatedSocialSearch) SearchPlatform(ctx context.Context, platform, name, refImageURL string) ([]ports.SocialCandidate, error) {
	return []ports.SocialCandidate{
		{
			URL:             "https://" + platform + ".com/john_doe_123",
			Username:        "john_doe_123",
			DisplayName:     "John Doe",
			ProfileImageURL: "https://" + platform + ".com/avatar1.jpg",
			MatchConfidence: 0.75,
			ProfileData: map[string]any{
				"followers":       150,
				"posts":           45,
				"verified":        false,
				"account_created": "2020-01-15",
			},
		},
	}, nil
}

type SimulatedCriminalRecords struct{}

func (SimulatedCriminalRecords) Search(ctx context.Context, name string) ([]ports.Conviction, error) {
	return []ports.Conviction{
		{
			FullName:     name,
			Type:         "Fraud",
			Court:        "Sydney District Court",
			CaseNumber:   "SDC-2020-1234",
			Date:         "2020-05-15",
			Sentence:     "6 months suspended sentence",
			Jurisdiction: "NSW, Australia",
			SourceURL:    "https://courts.nsw.gov.au/case/SDC-2020-1234",
			// Name match only.
			Confidence: 0.65,
		},
	}, nil
}
