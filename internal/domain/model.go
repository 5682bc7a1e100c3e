package domain

import "time"

// Core domain models. HTTP request/response shapes live in the http adapter;
// keep these decoupled where helpful.

type InvestigationType string

const (
	TypeSimple InvestigationType = "simple"
	TypeFull   InvestigationType = "full"
)

func (t InvestigationType) Valid() bool {
	return t == TypeSimple || t == TypeFull
}

type InvestigationStatus string

const (
	StatusPending    InvestigationStatus = "pending"
	StatusProcessing InvestigationStatus = "processing"
	StatusCompleted  InvestigationStatus = "completed"
	StatusFailed     InvestigationStatus = "failed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Investigation struct {
	ID              int64
	Type            InvestigationType
	Status          InvestigationStatus
	TargetName      *string
	TargetEmail     *string
	TargetPhone     *string
	DatingPlatform  *string
	AdditionalInfo  *string
	SubmittedImages []string
	PaymentRef      *string
	PaymentStatus   PaymentStatus
	AmountAUD       float64
	ConfidenceScore *int
	RedFlagsCount   int
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

type FindingKind string

const (
	FindingImageSearch   FindingKind = "image_search"
	FindingBreachCheck   FindingKind = "breach_check"
	FindingSocialProfile FindingKind = "social_profile"
	FindingConviction    FindingKind = "conviction"
	FindingAIDetection   FindingKind = "ai_detection"
)

// Finding is one atomic fact discovered by a collector. Findings are
// append-only; they are never mutated after insert and only removed by a
// cascading investigation delete.
type Finding struct {
	ID              int64
	InvestigationID int64
	Kind            FindingKind
	Source          string
	Confidence      float64
	RedFlag         bool
	RawData         []byte

	ImageURL       *string
	MatchedURL     *string
	Platform       *string
	ProfileURL     *string
	Username       *string
	BreachName     *string
	BreachDate     *string
	ConvictionType *string
	ConvictionDate *string

	CreatedAt time.Time
}

type ImageAnalysis struct {
	ID                  int64
	InvestigationID     int64
	ImageURL            string
	AIGenerated         bool
	AIConfidence        float64
	DeepfakeProbability float64
	ReverseMatches      int
	TopMatchURL         *string
	TopMatchDomain      *string
	CreatedAt           time.Time
}

type SocialProfile struct {
	ID              int64
	InvestigationID int64
	Platform        string
	ProfileURL      *string
	Username        *string
	DisplayName     *string
	ProfileImageURL *string
	MatchConfidence float64
	Suspicious      bool
	CreatedAt       time.Time
}

type BreachSeverity string

const (
	SeverityLow      BreachSeverity = "low"
	SeverityMedium   BreachSeverity = "medium"
	SeverityHigh     BreachSeverity = "high"
	SeverityCritical BreachSeverity = "critical"
)

// RedFlag reports whether a breach of this severity counts against the
// target's trustworthiness.
func (s BreachSeverity) RedFlag() bool {
	return s == SeverityHigh || s == SeverityCritical
}

type BreachRecord struct {
	ID              int64
	InvestigationID int64
	Email           *string
	Phone           *string
	Name            string
	Date            *string
	Description     *string
	DataTypes       []string
	Verified        bool
	Severity        BreachSeverity
	CreatedAt       time.Time
}

type ConvictionRecord struct {
	ID              int64
	InvestigationID int64
	FullName        *string
	Type            *string
	Court           *string
	CaseNumber      *string
	Date            *string
	Sentence        *string
	Jurisdiction    *string
	SourceURL       *string
	Confidence      float64
	CreatedAt       time.Time
}

type Report struct {
	ID                int64
	InvestigationID   int64
	Type              InvestigationType
	ExecutiveSummary  string
	ImageSummary      string
	SocialSummary     string
	RedFlagsSummary   string
	BreachSummary     string
	ConvictionSummary string
	TotalPages        int
	GenerationSeconds int
	FilePath          string
	FileSize          int64
	CreatedAt         time.Time
}

// InvestigationDetail bundles an investigation with every row that references
// it, for the status endpoint and the report assembler.
type InvestigationDetail struct {
	Investigation Investigation
	Findings      []Finding
	ImageAnalyses []ImageAnalysis
	Socials       []SocialProfile
	Breaches      []BreachRecord
	Convictions   []ConvictionRecord
	Report        *Report
}
