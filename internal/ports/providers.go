package ports

import "context"

// Capability interfaces for the external OSINT data sources. Each provider
// is injected into its collector; the pipeline never touches a shared
// client singleton. Implementations are best-effort: a failed call returns
// an error and the collector downgrades it to zero findings.

type ImageMatch struct {
	URL          string
	Similarity   float64
	SourceDomain string
	ThumbnailURL string
	Context      string
}

type ReverseImageResult struct {
	Source       string
	Matches      []ImageMatch
	TotalMatches int
}

type ReverseImageSearchProvider interface {
	Search(ctx context.Context, imageURL string) (ReverseImageResult, error)
}

type ImageAssessment struct {
	AIGenerated         bool
	Confidence          float64
	DeepfakeProbability float64
	Artifacts           []string
}

// ImageAssessor classifies an image as likely AI-generated or not.
type ImageAssessor interface {
	Assess(ctx context.Context, imageURL string) (ImageAssessment, error)
}

type Breach struct {
	Name        string
	Date        string
	Description string
	DataTypes   []string
	Verified    bool
	Severity    string
}

type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

type BreachProvider interface {
	Lookup(ctx context.Context, identifier string, kind IdentifierKind) ([]Breach, error)
}

type SocialCandidate struct {
	URL             string
	Username        string
	DisplayName     string
	ProfileImageURL string
	MatchConfidence float64
	ProfileData     map[string]any
}

type SocialSearchProvider interface {
	SearchPlatform(ctx context.Context, platform, name, refImageURL string) ([]SocialCandidate, error)
}

type Conviction struct {
	FullName     string
	Type         string
	Court        string
	CaseNumber   string
	Date         string
	Sentence     string
	Jurisdiction string
	SourceURL    string
	Confidence   float64
}

type CriminalRecordsProvider interface {
	Search(ctx context.Context, name string) ([]Conviction, error)
}

// TextGenerator produces report narrative text from a prompt. Callers must
// tolerate failure and fall back to template output.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
