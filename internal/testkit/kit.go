// Package testkit provides in-memory implementations of the persistence and
// provider ports for exercising the pipeline without Postgres or live
// sources.
package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"whohub/internal/domain"
	"whohub/internal/ports"
)

// MemoryStore implements the repository ports over process memory with the
// same guarded-transition semantics as the Postgres adapter.
type MemoryStore struct {
	mu sync.Mutex

	nextID         int64
	investigations map[int64]*domain.Investigation
	findings       map[int64][]domain.Finding
	imageAnalyses  map[int64][]domain.ImageAnalysis
	socials        map[int64][]domain.SocialProfile
	breaches       map[int64][]domain.BreachRecord
	convictions    map[int64][]domain.ConvictionRecord
	reports        map[int64]*domain.Report
	config         map[string]string

	jobs      map[int64]*memJob
	nextJobID int64
}

type memJob struct {
	id              int64
	investigationID int64
	status          string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		investigations: make(map[int64]*domain.Investigation),
		findings:       make(map[int64][]domain.Finding),
		imageAnalyses:  make(map[int64][]domain.ImageAnalysis),
		socials:        make(map[int64][]domain.SocialProfile),
		breaches:       make(map[int64][]domain.BreachRecord),
		convictions:    make(map[int64][]domain.ConvictionRecord),
		reports:        make(map[int64]*domain.Report),
		config: map[string]string{
			"simple_report_price_aud": "19",
			"full_report_price_aud":   "49",
		},
		jobs: make(map[int64]*memJob),
	}
}

// InvestigationRepository

func (s *MemoryStore) Create(ctx context.Context, inv *domain.Investigation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *inv
	cp.ID = s.nextID
	cp.CreatedAt = time.Now()
	s.investigations[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (domain.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return domain.Investigation{}, domain.NewNotFoundError("investigation", id)
	}
	return *inv, nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]domain.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Investigation, 0, len(s.investigations))
	for _, inv := range s.investigations {
		out = append(out, *inv)
	}
	// Newest first, matching the Postgres adapter's ORDER BY created_at DESC.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.investigations[id]; !ok {
		return domain.NewNotFoundError("investigation", id)
	}
	delete(s.investigations, id)
	delete(s.findings, id)
	delete(s.imageAnalyses, id)
	delete(s.socials, id)
	delete(s.breaches, id)
	delete(s.convictions, id)
	delete(s.reports, id)
	return nil
}

func (s *MemoryStore) AppendImage(ctx context.Context, id int64, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return domain.NewNotFoundError("investigation", id)
	}
	inv.SubmittedImages = append(inv.SubmittedImages, url)
	return nil
}

func (s *MemoryStore) RemoveImage(ctx context.Context, id int64, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return domain.NewNotFoundError("investigation", id)
	}
	kept := inv.SubmittedImages[:0]
	for _, u := range inv.SubmittedImages {
		if u != url {
			kept = append(kept, u)
		}
	}
	inv.SubmittedImages = kept
	return nil
}

func (s *MemoryStore) MarkPaid(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return false, domain.NewNotFoundError("investigation", id)
	}
	if inv.PaymentStatus != domain.PaymentPending {
		return false, nil
	}
	inv.PaymentStatus = domain.PaymentPaid
	return true, nil
}

func (s *MemoryStore) BeginProcessing(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return false, domain.NewNotFoundError("investigation", id)
	}
	if inv.Status != domain.StatusPending || inv.PaymentStatus != domain.PaymentPaid {
		return false, nil
	}
	inv.Status = domain.StatusProcessing
	return true, nil
}

func (s *MemoryStore) SetScore(ctx context.Context, id int64, score, redFlags int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return domain.NewNotFoundError("investigation", id)
	}
	inv.ConfidenceScore = &score
	inv.RedFlagsCount = redFlags
	return nil
}

func (s *MemoryStore) Complete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return domain.NewNotFoundError("investigation", id)
	}
	now := time.Now()
	inv.Status = domain.StatusCompleted
	inv.CompletedAt = &now
	return nil
}

func (s *MemoryStore) Fail(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investigations[id]
	if !ok {
		return domain.NewNotFoundError("investigation", id)
	}
	if inv.Status == domain.StatusCompleted {
		return nil
	}
	inv.Status = domain.StatusFailed
	return nil
}

func (s *MemoryStore) FindByPaymentRef(ctx context.Context, ref string) (domain.Investigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.investigations {
		if inv.PaymentRef != nil && *inv.PaymentRef == ref {
			return *inv, nil
		}
	}
	return domain.Investigation{}, fmt.Errorf("%w: payment ref %s", domain.ErrNotFound, ref)
}

func (s *MemoryStore) FailPayment(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.investigations {
		if inv.PaymentRef != nil && *inv.PaymentRef == ref {
			inv.PaymentStatus = domain.PaymentFailed
			// Same forward-only rule as Fail: completed stays completed.
			if inv.Status != domain.StatusCompleted {
				inv.Status = domain.StatusFailed
			}
			return nil
		}
	}
	return fmt.Errorf("%w: payment ref %s", domain.ErrNotFound, ref)
}

// FindingRepository

func (s *MemoryStore) AddFinding(ctx context.Context, f *domain.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *f
	cp.ID = s.nextID
	cp.CreatedAt = time.Now()
	s.findings[f.InvestigationID] = append(s.findings[f.InvestigationID], cp)
	return nil
}

func (s *MemoryStore) FindingsByInvestigation(ctx context.Context, investigationID int64) ([]domain.Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Finding(nil), s.findings[investigationID]...), nil
}

func (s *MemoryStore) AddImageAnalysis(ctx context.Context, a *domain.ImageAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *a
	cp.ID = s.nextID
	s.imageAnalyses[a.InvestigationID] = append(s.imageAnalyses[a.InvestigationID], cp)
	return nil
}

func (s *MemoryStore) ImageAnalysesByInvestigation(ctx context.Context, investigationID int64) ([]domain.ImageAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ImageAnalysis(nil), s.imageAnalyses[investigationID]...), nil
}

func (s *MemoryStore) AddSocialProfile(ctx context.Context, p *domain.SocialProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *p
	cp.ID = s.nextID
	s.socials[p.InvestigationID] = append(s.socials[p.InvestigationID], cp)
	return nil
}

func (s *MemoryStore) SocialProfilesByInvestigation(ctx context.Context, investigationID int64) ([]domain.SocialProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SocialProfile(nil), s.socials[investigationID]...), nil
}

func (s *MemoryStore) AddBreachRecord(ctx context.Context, b *domain.BreachRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *b
	cp.ID = s.nextID
	s.breaches[b.InvestigationID] = append(s.breaches[b.InvestigationID], cp)
	return nil
}

func (s *MemoryStore) BreachRecordsByInvestigation(ctx context.Context, investigationID int64) ([]domain.BreachRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BreachRecord(nil), s.breaches[investigationID]...), nil
}

func (s *MemoryStore) AddConvictionRecord(ctx context.Context, c *domain.ConvictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *c
	cp.ID = s.nextID
	s.convictions[c.InvestigationID] = append(s.convictions[c.InvestigationID], cp)
	return nil
}

func (s *MemoryStore) ConvictionRecordsByInvestigation(ctx context.Context, investigationID int64) ([]domain.ConvictionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ConvictionRecord(nil), s.convictions[investigationID]...), nil
}

// ReportRepository

func (s *MemoryStore) CreateReport(ctx context.Context, r *domain.Report) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[r.InvestigationID]; exists {
		return 0, fmt.Errorf("report already exists for investigation %d", r.InvestigationID)
	}
	s.nextID++
	cp := *r
	cp.ID = s.nextID
	cp.CreatedAt = time.Now()
	s.reports[r.InvestigationID] = &cp
	return cp.ID, nil
}

func (s *MemoryStore) ReportByInvestigation(ctx context.Context, investigationID int64) (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[investigationID]
	if !ok {
		return domain.Report{}, domain.NewNotFoundError("report", investigationID)
	}
	return *r, nil
}

func (s *MemoryStore) DeleteReport(ctx context.Context, investigationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[investigationID]; !ok {
		return domain.NewNotFoundError("report", investigationID)
	}
	delete(s.reports, investigationID)
	return nil
}

// ConfigRepository

func (s *MemoryStore) GetValue(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.config[key]
	if !ok {
		return "", fmt.Errorf("%w: config key %s", domain.ErrNotFound, key)
	}
	return v, nil
}

// JobRepository

func (s *MemoryStore) Enqueue(ctx context.Context, investigationID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextJobID++
	s.jobs[s.nextJobID] = &memJob{id: s.nextJobID, investigationID: investigationID, status: "queued"}
	return s.nextJobID, nil
}

func (s *MemoryStore) ClaimNext(ctx context.Context) (ports.PipelineJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.status == "queued" {
			j.status = "running"
			return ports.PipelineJob{ID: j.id, InvestigationID: j.investigationID}, true, nil
		}
	}
	return ports.PipelineJob{}, false, nil
}

func (s *MemoryStore) MarkCompleted(ctx context.Context, jobID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		j.status = "completed"
	}
	return nil
}

func (s *MemoryStore) MarkFailed(ctx context.Context, jobID int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		j.status = "failed"
	}
	return nil
}

func (s *MemoryStore) ClaimForInvestigation(ctx context.Context, investigationID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.investigationID == investigationID && j.status == "queued" {
			j.status = "running"
			return j.id, nil
		}
	}
	return 0, fmt.Errorf("%w: queued job for investigation %d", domain.ErrNotFound, investigationID)
}

// JobStatus reports the status of a job, for assertions.
func (s *MemoryStore) JobStatus(jobID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		return j.status
	}
	return ""
}

// MemoryBlobStore keeps blobs in a map.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string]memBlob
}

type memBlob struct {
	contentType string
	data        []byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]memBlob)}
}

func (s *MemoryBlobStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = memBlob{contentType: contentType, data: append([]byte(nil), data...)}
	return nil
}

func (s *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: blob %s", domain.ErrNotFound, key)
	}
	return append([]byte(nil), b.data...), b.contentType, nil
}

func (s *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Len reports the number of stored blobs.
func (s *MemoryBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
