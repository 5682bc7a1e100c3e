package collectors

import (
	"context"

	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

const (
	maxMatchFindings = 10
	// A reverse-search match above this similarity indicates the photo is in
	// use elsewhere.
	matchRedFlagSimilarity = 0.8
	// An AI-generated verdict below this confidence is not flagged.
	aiRedFlagConfidence = 0.7
)

// ImageCollector runs the AI-generation assessment and reverse search for
// each submitted image, writing one ImageAnalysis aggregate per image plus
// individual findings for matches and flagged assessments.
type ImageCollector struct {
	reverse  ports.ReverseImageSearchProvider
	assessor ports.ImageAssessor
	findings ports.FindingRepository
	log      *zap.Logger
}

func NewImageCollector(reverse ports.ReverseImageSearchProvider, assessor ports.ImageAssessor, findings ports.FindingRepository, log *zap.Logger) *ImageCollector {
	return &ImageCollector{reverse: reverse, assessor: assessor, findings: findings, log: log}
}

func (c *ImageCollector) Collect(ctx context.Context, investigationID int64, imageURLs []string) {
	for _, imageURL := range imageURLs {
		c.collectOne(ctx, investigationID, imageURL)
	}
}

func (c *ImageCollector) collectOne(ctx context.Context, investigationID int64, imageURL string) {
	assessment, err := c.assessor.Assess(ctx, imageURL)
	if err != nil {
		c.log.Warn("image assessment failed",
			zap.Int64("investigation_id", investigationID),
			zap.String("image_url", imageURL),
			zap.Error(err),
		)
		assessment = ports.ImageAssessment{}
	}

	result, err := c.reverse.Search(ctx, imageURL)
	if err != nil {
		c.log.Warn("reverse image search failed",
			zap.Int64("investigation_id", investigationID),
			zap.String("image_url", imageURL),
			zap.Error(err),
		)
		result = ports.ReverseImageResult{}
	}

	analysis := domain.ImageAnalysis{
		InvestigationID:     investigationID,
		ImageURL:            imageURL,
		AIGenerated:         assessment.AIGenerated,
		AIConfidence:        assessment.Confidence,
		DeepfakeProbability: assessment.DeepfakeProbability,
		ReverseMatches:      result.TotalMatches,
	}
	if len(result.Matches) > 0 {
		top := result.Matches[0]
		analysis.TopMatchURL = strPtr(top.URL)
		domainName := top.SourceDomain
		if domainName == "" {
			domainName = registrableDomain(top.URL)
		}
		analysis.TopMatchDomain = strPtr(domainName)
	}
	if err := c.findings.AddImageAnalysis(ctx, &analysis); err != nil {
		c.log.Error("store image analysis", zap.Int64("investigation_id", investigationID), zap.Error(err))
	}

	matches := result.Matches
	if len(matches) > maxMatchFindings {
		matches = matches[:maxMatchFindings]
	}
	for _, match := range matches {
		f := domain.Finding{
			InvestigationID: investigationID,
			Kind:            domain.FindingImageSearch,
			Source:          result.Source,
			Confidence:      match.Similarity,
			RedFlag:         match.Similarity > matchRedFlagSimilarity,
			ImageURL:        strPtr(imageURL),
			MatchedURL:      strPtr(match.URL),
			RawData:         rawJSON(match),
		}
		if err := c.findings.AddFinding(ctx, &f); err != nil {
			c.log.Error("store image match finding", zap.Int64("investigation_id", investigationID), zap.Error(err))
		}
	}

	if assessment.AIGenerated && assessment.Confidence > aiRedFlagConfidence {
		f := domain.Finding{
			InvestigationID: investigationID,
			Kind:            domain.FindingAIDetection,
			Source:          "ai_image_analysis",
			Confidence:      assessment.Confidence,
			RedFlag:         true,
			ImageURL:        strPtr(imageURL),
			RawData:         rawJSON(assessment),
		}
		if err := c.findings.AddFinding(ctx, &f); err != nil {
			c.log.Error("store ai detection finding", zap.Int64("investigation_id", investigationID), zap.Error(err))
		}
	}
}
