package collectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/ports"
	"whohub/internal/testkit"
)

const invID = int64(1)

func findings(t *testing.T, store *testkit.MemoryStore) []domain.Finding {
	t.Helper()
	out, err := store.FindingsByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	return out
}

func TestImageCollectorFlagsStrongMatches(t *testing.T) {
	store := testkit.NewMemoryStore()
	reverse := testkit.StaticReverseImageProvider{Result: ports.ReverseImageResult{
		Source:       "reverse_search",
		TotalMatches: 3,
		Matches: []ports.ImageMatch{
			{URL: "https://stock-photos.com/image-123.jpg", Similarity: 0.92, SourceDomain: "stock-photos.com"},
			{URL: "https://blog.example.co.uk/post.jpg", Similarity: 0.8},
			{URL: "https://example.com/weak.jpg", Similarity: 0.4, SourceDomain: "example.com"},
		},
	}}
	c := NewImageCollector(reverse, testkit.StaticImageAssessor{}, store, zap.NewNop())

	c.Collect(context.Background(), invID, []string{"https://storage.example.com/img.jpg"})

	got := findings(t, store)
	require.Len(t, got, 3)
	// Only similarity strictly above 0.8 is a red flag.
	assert.True(t, got[0].RedFlag)
	assert.False(t, got[1].RedFlag)
	assert.False(t, got[2].RedFlag)

	analyses, err := store.ImageAnalysesByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, 3, analyses[0].ReverseMatches)
	require.NotNil(t, analyses[0].TopMatchDomain)
	assert.Equal(t, "stock-photos.com", *analyses[0].TopMatchDomain)
}

func TestImageCollectorDerivesDomainFromURL(t *testing.T) {
	store := testkit.NewMemoryStore()
	reverse := testkit.StaticReverseImageProvider{Result: ports.ReverseImageResult{
		TotalMatches: 1,
		Matches:      []ports.ImageMatch{{URL: "https://blog.example.co.uk/post.jpg", Similarity: 0.9}},
	}}
	c := NewImageCollector(reverse, testkit.StaticImageAssessor{}, store, zap.NewNop())

	c.Collect(context.Background(), invID, []string{"https://storage.example.com/img.jpg"})

	analyses, err := store.ImageAnalysesByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	require.NotNil(t, analyses[0].TopMatchDomain)
	assert.Equal(t, "example.co.uk", *analyses[0].TopMatchDomain)
}

func TestImageCollectorCapsMatchFindings(t *testing.T) {
	store := testkit.NewMemoryStore()
	matches := make([]ports.ImageMatch, 15)
	for i := range matches {
		matches[i] = ports.ImageMatch{URL: "https://example.com/m.jpg", Similarity: 0.5}
	}
	reverse := testkit.StaticReverseImageProvider{Result: ports.ReverseImageResult{
		TotalMatches: len(matches),
		Matches:      matches,
	}}
	c := NewImageCollector(reverse, testkit.StaticImageAssessor{}, store, zap.NewNop())

	c.Collect(context.Background(), invID, []string{"https://storage.example.com/img.jpg"})

	assert.Len(t, findings(t, store), 10)
	// The aggregate still reports the uncapped total.
	analyses, err := store.ImageAnalysesByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	assert.Equal(t, 15, analyses[0].ReverseMatches)
}

func TestImageCollectorAIDetection(t *testing.T) {
	store := testkit.NewMemoryStore()
	assessor := testkit.StaticImageAssessor{Result: ports.ImageAssessment{
		AIGenerated:         true,
		Confidence:          0.85,
		DeepfakeProbability: 0.4,
	}}
	c := NewImageCollector(testkit.StaticReverseImageProvider{}, assessor, store, zap.NewNop())

	c.Collect(context.Background(), invID, []string{"https://storage.example.com/img.jpg"})

	got := findings(t, store)
	require.Len(t, got, 1)
	assert.Equal(t, domain.FindingAIDetection, got[0].Kind)
	assert.True(t, got[0].RedFlag)
	assert.Equal(t, "ai_image_analysis", got[0].Source)
}

func TestImageCollectorAIBelowThresholdNotFlagged(t *testing.T) {
	store := testkit.NewMemoryStore()
	assessor := testkit.StaticImageAssessor{Result: ports.ImageAssessment{
		AIGenerated: true,
		Confidence:  0.7,
	}}
	c := NewImageCollector(testkit.StaticReverseImageProvider{}, assessor, store, zap.NewNop())

	c.Collect(context.Background(), invID, []string{"https://storage.example.com/img.jpg"})

	// 0.7 is not strictly above the threshold.
	assert.Empty(t, findings(t, store))
}

func TestImageCollectorToleratesProviderFailure(t *testing.T) {
	store := testkit.NewMemoryStore()
	c := NewImageCollector(
		testkit.StaticReverseImageProvider{Err: testkit.ErrProviderDown},
		testkit.StaticImageAssessor{Err: testkit.ErrProviderDown},
		store, zap.NewNop())

	c.Collect(context.Background(), invID, []string{"https://storage.example.com/img.jpg"})

	assert.Empty(t, findings(t, store))
	// The per-image aggregate row is still written with zero values.
	analyses, err := store.ImageAnalysesByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	assert.Len(t, analyses, 1)
}

func TestBreachCollectorSeverityPolicy(t *testing.T) {
	store := testkit.NewMemoryStore()
	provider := testkit.StaticBreachProvider{Breaches: []ports.Breach{
		{Name: "LinkedIn", Severity: "high", Verified: true},
		{Name: "Forum", Severity: "critical"},
		{Name: "Newsletter", Severity: "low"},
		{Name: "Shop", Severity: "medium"},
	}}
	c := NewBreachCollector(provider, store, zap.NewNop())

	c.Collect(context.Background(), invID, "john@example.com", ports.IdentifierEmail)

	got := findings(t, store)
	require.Len(t, got, 4)
	flagged := 0
	for _, f := range got {
		assert.Equal(t, domain.FindingBreachCheck, f.Kind)
		assert.Equal(t, 1.0, f.Confidence)
		if f.RedFlag {
			flagged++
		}
	}
	assert.Equal(t, 2, flagged)

	records, err := store.BreachRecordsByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.NotNil(t, records[0].Email)
	assert.Equal(t, "john@example.com", *records[0].Email)
	assert.Nil(t, records[0].Phone)
}

func TestBreachCollectorPhoneIdentifier(t *testing.T) {
	store := testkit.NewMemoryStore()
	provider := testkit.StaticBreachProvider{Breaches: []ports.Breach{{Name: "Telco", Severity: "low"}}}
	c := NewBreachCollector(provider, store, zap.NewNop())

	c.Collect(context.Background(), invID, "+61400000000", ports.IdentifierPhone)

	records, err := store.BreachRecordsByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Email)
	require.NotNil(t, records[0].Phone)
	assert.Equal(t, "+61400000000", *records[0].Phone)
}

func TestSocialCollectorConfidencePolicy(t *testing.T) {
	cases := []struct {
		name       string
		confidence float64
		suspicious bool
		redFlag    bool
	}{
		{"strong match", 0.75, false, false},
		{"weak match", 0.45, true, false},
		{"very weak match", 0.2, true, true},
		{"boundary suspicious", 0.5, false, false},
		{"boundary red flag", 0.3, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := testkit.NewMemoryStore()
			provider := testkit.StaticSocialProvider{Candidates: []ports.SocialCandidate{
				{URL: "https://example.com/p", Username: "p", MatchConfidence: tc.confidence},
			}}
			c := NewSocialCollector(provider, store, zap.NewNop())

			c.Collect(context.Background(), invID, "John Doe", "")

			profiles, err := store.SocialProfilesByInvestigation(context.Background(), invID)
			require.NoError(t, err)
			require.Len(t, profiles, len(Platforms))
			assert.Equal(t, tc.suspicious, profiles[0].Suspicious)

			got := findings(t, store)
			require.Len(t, got, len(Platforms))
			assert.Equal(t, tc.redFlag, got[0].RedFlag)
		})
	}
}

func TestSocialCollectorQueriesEveryPlatform(t *testing.T) {
	store := testkit.NewMemoryStore()
	provider := testkit.StaticSocialProvider{Candidates: []ports.SocialCandidate{
		{URL: "https://example.com/p", Username: "p", MatchConfidence: 0.75},
	}}
	c := NewSocialCollector(provider, store, zap.NewNop())

	c.Collect(context.Background(), invID, "John Doe", "")

	profiles, err := store.SocialProfilesByInvestigation(context.Background(), invID)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, p := range profiles {
		seen[p.Platform] = true
	}
	for _, platform := range Platforms {
		assert.True(t, seen[platform], platform)
	}
}

func TestCriminalCollectorAlwaysFlags(t *testing.T) {
	store := testkit.NewMemoryStore()
	provider := testkit.StaticCriminalProvider{Convictions: []ports.Conviction{
		{FullName: "John Doe", Type: "Fraud", Court: "Sydney District Court", Confidence: 0.65},
		{FullName: "John Doe", Type: "Theft", Confidence: 0.1},
	}}
	c := NewCriminalCollector(provider, store, zap.NewNop())

	c.Collect(context.Background(), invID, "John Doe")

	got := findings(t, store)
	require.Len(t, got, 2)
	for _, f := range got {
		assert.Equal(t, domain.FindingConviction, f.Kind)
		assert.True(t, f.RedFlag)
		assert.Equal(t, "court_records", f.Source)
	}
}

func TestRegistrableDomain(t *testing.T) {
	assert.Equal(t, "example.com", registrableDomain("https://www.example.com/a.jpg"))
	assert.Equal(t, "example.co.uk", registrableDomain("https://blog.example.co.uk/post"))
	assert.Equal(t, "", registrableDomain("://bad"))
}
