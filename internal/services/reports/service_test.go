package reports

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/testkit"
)

func seedCompleted(t *testing.T, store *testkit.MemoryStore, typ domain.InvestigationType, findings int, redFlags int) int64 {
	t.Helper()
	name := "John Doe"
	id, err := store.Create(context.Background(), &domain.Investigation{
		Type:          typ,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPaid,
		TargetName:    &name,
	})
	require.NoError(t, err)
	for i := 0; i < findings; i++ {
		require.NoError(t, store.AddFinding(context.Background(), &domain.Finding{
			InvestigationID: id,
			Kind:            domain.FindingSocialProfile,
			Source:          "social_search",
			Confidence:      0.8,
			RedFlag:         i < redFlags,
		}))
	}
	require.NoError(t, store.Complete(context.Background(), id))
	return id
}

func newService(store *testkit.MemoryStore, blobs *testkit.MemoryBlobStore, text *testkit.StaticTextGenerator) *Service {
	return New(store, store, store, blobs, text, zap.NewNop())
}

func TestGenerateCreatesReport(t *testing.T) {
	store := testkit.NewMemoryStore()
	blobs := testkit.NewMemoryBlobStore()
	text := &testkit.StaticTextGenerator{Text: "A measured professional summary."}
	svc := newService(store, blobs, text)
	id := seedCompleted(t, store, domain.TypeFull, 12, 2)

	report, created, err := svc.Generate(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "A measured professional summary.", report.ExecutiveSummary)
	// full base 8 pages + ceil(12/10) = 10.
	assert.Equal(t, 10, report.TotalPages)
	assert.True(t, strings.HasPrefix(report.FilePath, "reports/1/report_"))
	assert.True(t, strings.HasSuffix(report.FilePath, ".pdf"))
	assert.NotZero(t, report.FileSize)
	assert.Equal(t, 1, blobs.Len())

	data, contentType, err := svc.Download(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestGenerateShortCircuitsExistingReport(t *testing.T) {
	store := testkit.NewMemoryStore()
	blobs := testkit.NewMemoryBlobStore()
	svc := newService(store, blobs, &testkit.StaticTextGenerator{Text: "summary"})
	id := seedCompleted(t, store, domain.TypeSimple, 3, 0)

	first, created, err := svc.Generate(context.Background(), id)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Generate(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.FilePath, second.FilePath)
	assert.Equal(t, 1, blobs.Len())
}

func TestGenerateRequiresCompletedStatus(t *testing.T) {
	store := testkit.NewMemoryStore()
	svc := newService(store, testkit.NewMemoryBlobStore(), &testkit.StaticTextGenerator{})
	name := "Jane Doe"
	id, err := store.Create(context.Background(), &domain.Investigation{
		Type:       domain.TypeSimple,
		Status:     domain.StatusProcessing,
		TargetName: &name,
	})
	require.NoError(t, err)

	_, _, err = svc.Generate(context.Background(), id)
	assert.True(t, domain.IsNotFound(err))
}

func TestGenerateFallsBackWhenGeneratorFails(t *testing.T) {
	store := testkit.NewMemoryStore()
	text := &testkit.StaticTextGenerator{Err: testkit.ErrProviderDown}
	svc := newService(store, testkit.NewMemoryBlobStore(), text)
	id := seedCompleted(t, store, domain.TypeSimple, 5, 2)

	report, _, err := svc.Generate(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, report.ExecutiveSummary, "5 findings analyzed with 2 potential concerns")
	// simple base 4 pages + ceil(5/10) = 5.
	assert.Equal(t, 5, report.TotalPages)
}

func TestDeleteRemovesReportAndBlob(t *testing.T) {
	store := testkit.NewMemoryStore()
	blobs := testkit.NewMemoryBlobStore()
	svc := newService(store, blobs, &testkit.StaticTextGenerator{Text: "summary"})
	id := seedCompleted(t, store, domain.TypeSimple, 1, 0)

	_, _, err := svc.Generate(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, 0, blobs.Len())

	_, err = svc.Get(context.Background(), id)
	assert.True(t, domain.IsNotFound(err))
}

func TestSectionSummaries(t *testing.T) {
	assert.Equal(t, "No images analyzed.", imageSummary(nil))
	assert.Equal(t, "No social media profiles found.", socialSummary(nil))
	assert.Equal(t, "No significant red flags detected.", redFlagsSummary(nil))
	assert.Equal(t, "No data breaches found.", breachSummary(nil))
	assert.Equal(t, "No criminal convictions found in public records.", convictionSummary(nil))

	url := "https://stock.example.com/a.jpg"
	img := imageSummary([]domain.ImageAnalysis{
		{AIGenerated: true, ReverseMatches: 3, TopMatchURL: &url},
		{ReverseMatches: 2},
	})
	assert.Contains(t, img, "2 image(s) analyzed")
	assert.Contains(t, img, "1 potentially AI-generated")
	assert.Contains(t, img, "5 reverse search matches")

	breach := breachSummary([]domain.BreachRecord{
		{Name: "LinkedIn", Severity: domain.SeverityHigh},
		{Name: "Forum", Severity: domain.SeverityLow},
	})
	assert.Contains(t, breach, "2 data breach(es) found")
	assert.Contains(t, breach, "1 classified as high/critical")
}
