package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whohub/internal/adapters/locks"
	"whohub/internal/collectors"
	"whohub/internal/domain"
	"whohub/internal/ports"
	"whohub/internal/services/scoring"
	"whohub/internal/testkit"
)

type providerSet struct {
	reverse  ports.ReverseImageSearchProvider
	assessor ports.ImageAssessor
	breach   ports.BreachProvider
	social   ports.SocialSearchProvider
	criminal ports.CriminalRecordsProvider
}

func healthyProviders() providerSet {
	return providerSet{
		reverse: testkit.StaticReverseImageProvider{Result: ports.ReverseImageResult{
			Source:       "reverse_search",
			TotalMatches: 1,
			Matches: []ports.ImageMatch{
				{URL: "https://stock-photos.example.com/image-123.jpg", Similarity: 0.92, SourceDomain: "stock-photos.example.com"},
			},
		}},
		assessor: testkit.StaticImageAssessor{Result: ports.ImageAssessment{}},
		breach: testkit.StaticBreachProvider{Breaches: []ports.Breach{
			{Name: "LinkedIn", Date: "2021-06-01", Severity: "high", Verified: true},
		}},
		social: testkit.StaticSocialProvider{Candidates: []ports.SocialCandidate{
			{URL: "https://example.com/john_doe", Username: "john_doe", DisplayName: "John Doe", MatchConfidence: 0.75},
		}},
		criminal: testkit.StaticCriminalProvider{Convictions: []ports.Conviction{
			{FullName: "John Doe", Type: "Fraud", Confidence: 0.65},
		}},
	}
}

func newRunner(store *testkit.MemoryStore, p providerSet, lock ports.Locker) *Runner {
	log := zap.NewNop()
	c := Collectors{
		Image:    collectors.NewImageCollector(p.reverse, p.assessor, store, log),
		Breach:   collectors.NewBreachCollector(p.breach, store, log),
		Social:   collectors.NewSocialCollector(p.social, store, log),
		Criminal: collectors.NewCriminalCollector(p.criminal, store, log),
	}
	agg := scoring.NewAggregator(store, store, log)
	return NewRunner(store, c, agg, lock, 5*time.Second, log)
}

func seedInvestigation(t *testing.T, store *testkit.MemoryStore, typ domain.InvestigationType) int64 {
	t.Helper()
	name := "John Doe"
	email := "john@example.com"
	id, err := store.Create(context.Background(), &domain.Investigation{
		Type:            typ,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPaid,
		TargetName:      &name,
		TargetEmail:     &email,
		SubmittedImages: []string{"https://storage.example.com/investigations/1/image_1.jpg"},
	})
	require.NoError(t, err)
	return id
}

func TestProcessCompletesInvestigation(t *testing.T) {
	store := testkit.NewMemoryStore()
	runner := newRunner(store, healthyProviders(), locks.NewLocalLocker())
	id := seedInvestigation(t, store, domain.TypeFull)

	require.NoError(t, runner.Process(context.Background(), id))

	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, inv.Status)
	require.NotNil(t, inv.CompletedAt)
	require.NotNil(t, inv.ConfidenceScore)

	findings, err := store.FindingsByInvestigation(context.Background(), id)
	require.NoError(t, err)
	// 1 image match, 1 breach, 5 social (one per platform), 1 conviction.
	assert.Len(t, findings, 8)

	// Image match 0.92 and the high-severity breach and the conviction are
	// red flags; the five social candidates at 0.75 are positives:
	// 75 - 3*10 + 25 (capped) = 70.
	assert.Equal(t, 70, *inv.ConfidenceScore)
	assert.Equal(t, 3, inv.RedFlagsCount)
}

func TestProcessSimpleTypeSkipsCriminalSearch(t *testing.T) {
	store := testkit.NewMemoryStore()
	runner := newRunner(store, healthyProviders(), locks.NewLocalLocker())
	id := seedInvestigation(t, store, domain.TypeSimple)

	require.NoError(t, runner.Process(context.Background(), id))

	convictions, err := store.ConvictionRecordsByInvestigation(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, convictions)
}

func TestProcessToleratesFailingCollector(t *testing.T) {
	store := testkit.NewMemoryStore()
	p := healthyProviders()
	p.breach = testkit.StaticBreachProvider{Err: testkit.ErrProviderDown}
	p.reverse = testkit.StaticReverseImageProvider{Err: testkit.ErrProviderDown}
	runner := newRunner(store, p, locks.NewLocalLocker())
	id := seedInvestigation(t, store, domain.TypeFull)

	require.NoError(t, runner.Process(context.Background(), id))

	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, inv.Status)

	// Social and criminal findings still landed despite the two failures.
	findings, err := store.FindingsByInvestigation(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, findings, 6)
}

func TestProcessUnknownInvestigation(t *testing.T) {
	store := testkit.NewMemoryStore()
	runner := newRunner(store, healthyProviders(), locks.NewLocalLocker())

	err := runner.Process(context.Background(), 404)
	assert.True(t, domain.IsNotFound(err))
}

func TestProcessRequiresPayment(t *testing.T) {
	store := testkit.NewMemoryStore()
	runner := newRunner(store, healthyProviders(), locks.NewLocalLocker())
	name := "Jane Doe"
	id, err := store.Create(context.Background(), &domain.Investigation{
		Type:          domain.TypeSimple,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		TargetName:    &name,
	})
	require.NoError(t, err)

	err = runner.Process(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrValidation)

	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, inv.Status)
}

func TestProcessGuardsConcurrentStart(t *testing.T) {
	store := testkit.NewMemoryStore()
	lock := locks.NewLocalLocker()
	runner := newRunner(store, healthyProviders(), lock)
	id := seedInvestigation(t, store, domain.TypeSimple)

	held, err := lock.Acquire(context.Background(), "pipeline:investigation:1", time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	err = runner.Process(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
}

func TestProcessIsIdempotentAfterCompletion(t *testing.T) {
	store := testkit.NewMemoryStore()
	runner := newRunner(store, healthyProviders(), locks.NewLocalLocker())
	id := seedInvestigation(t, store, domain.TypeSimple)

	require.NoError(t, runner.Process(context.Background(), id))
	first, err := store.FindingsByInvestigation(context.Background(), id)
	require.NoError(t, err)

	// A second run is a no-op: no duplicate findings, status stays terminal.
	require.NoError(t, runner.Process(context.Background(), id))
	second, err := store.FindingsByInvestigation(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))

	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, inv.Status)
}

type scoreFailingStore struct {
	*testkit.MemoryStore
}

func (s scoreFailingStore) SetScore(ctx context.Context, id int64, score, redFlags int) error {
	return errors.New("store unreachable")
}

func TestProcessFailsOnAggregationError(t *testing.T) {
	store := testkit.NewMemoryStore()
	failing := scoreFailingStore{store}
	log := zap.NewNop()
	p := healthyProviders()
	c := Collectors{
		Image:    collectors.NewImageCollector(p.reverse, p.assessor, store, log),
		Breach:   collectors.NewBreachCollector(p.breach, store, log),
		Social:   collectors.NewSocialCollector(p.social, store, log),
		Criminal: collectors.NewCriminalCollector(p.criminal, store, log),
	}
	agg := scoring.NewAggregator(failing, store, log)
	runner := NewRunner(failing, c, agg, locks.NewLocalLocker(), 5*time.Second, log)
	id := seedInvestigation(t, store, domain.TypeSimple)

	err := runner.Process(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrPipeline)

	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, inv.Status)
}

func TestProcessInlineDrivesQueuedJob(t *testing.T) {
	store := testkit.NewMemoryStore()
	runner := newRunner(store, healthyProviders(), locks.NewLocalLocker())
	id := seedInvestigation(t, store, domain.TypeSimple)

	jobID, err := store.Enqueue(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, ProcessInline(context.Background(), store, runner, id))
	assert.Equal(t, "completed", store.JobStatus(jobID))

	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, inv.Status)
}
