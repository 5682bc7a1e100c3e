package httpadapter

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whohub/internal/adapters/locks"
	"whohub/internal/collectors"
	"whohub/internal/ports"
	"whohub/internal/services/investigations"
	"whohub/internal/services/payments"
	"whohub/internal/services/reports"
	"whohub/internal/services/scoring"
	"whohub/internal/services/uploads"
	"whohub/internal/testkit"
	"whohub/internal/workers/pipeline"
)

const testWebhookSecret = "whsec_test"

func newTestServer(t *testing.T) (*httptest.Server, *testkit.MemoryStore) {
	t.Helper()
	store := testkit.NewMemoryStore()
	blobs := testkit.NewMemoryBlobStore()
	log := zap.NewNop()

	c := pipeline.Collectors{
		Image: collectors.NewImageCollector(testkit.StaticReverseImageProvider{Result: ports.ReverseImageResult{
			Matches: []ports.ImageMatch{{URL: "https://stock-photos.com/image-123.jpg", Similarity: 0.92, SourceDomain: "stock-photos.com"}},
		}}, testkit.StaticImageAssessor{}, store, log),
		Breach: collectors.NewBreachCollector(testkit.StaticBreachProvider{Breaches: []ports.Breach{
			{Name: "LinkedIn", Severity: "high", Verified: true},
		}}, store, log),
		Social: collectors.NewSocialCollector(testkit.StaticSocialProvider{Candidates: []ports.SocialCandidate{
			{URL: "https://example.com/john_doe", Username: "john_doe", MatchConfidence: 0.75},
		}}, store, log),
		Criminal: collectors.NewCriminalCollector(testkit.StaticCriminalProvider{}, store, log),
	}
	runner := pipeline.NewRunner(store, c, scoring.NewAggregator(store, store, log), locks.NewLocalLocker(), 5*time.Second, log)

	srv := New(
		investigations.New(store, store, store, store, store, log),
		reports.New(store, store, store, blobs, testkit.StaticTextGenerator{Text: "Executive summary."}, log),
		payments.New(store, store, log),
		uploads.New(store, blobs, log),
		store,
		runner,
		testWebhookSecret,
		log,
	)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInvestigationLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	// Create.
	resp := postJSON(t, ts.URL+"/api/investigations", map[string]any{
		"investigation_type": "full",
		"target_name":        "John Doe",
		"target_email":       "john@example.com",
		"accepted_terms":     true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created investigationJSON
	decode(t, resp, &created)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 49.0, created.AmountAUD)

	// Upload an image.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="image"; filename="photo.jpg"`)
	partHeader.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/uploads/investigation/%d/image", ts.URL, created.ID), &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	uploadResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, uploadResp.StatusCode)
	uploadResp.Body.Close()

	// Start synchronously.
	resp = postJSON(t, fmt.Sprintf("%s/api/investigations/%d/start?wait=true", ts.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail detailJSON
	decode(t, resp, &detail)
	assert.Equal(t, "completed", detail.Investigation.Status)
	assert.NotEmpty(t, detail.Findings)

	// Starting again conflicts.
	resp = postJSON(t, fmt.Sprintf("%s/api/investigations/%d/start", ts.URL, created.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Generate and download the report.
	resp = postJSON(t, fmt.Sprintf("%s/api/reports/generate/%d", ts.URL, created.ID), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var report reportJSON
	decode(t, resp, &report)
	assert.Equal(t, "Executive summary.", report.ExecutiveSummary)

	dl, err := http.Get(fmt.Sprintf("%s/api/reports/%d/download", ts.URL, created.ID))
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, http.StatusOK, dl.StatusCode)
	assert.Equal(t, "application/pdf", dl.Header.Get("Content-Type"))
	assert.Contains(t, dl.Header.Get("Content-Disposition"), "whohub_report_")
}

func TestErrorMapping(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/investigations/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/investigations", map[string]any{
		"investigation_type": "premium",
		"accepted_terms":     true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/investigations/not-a-number")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func signStripePayload(secret string, body []byte, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeWebhookConfirmsPayment(t *testing.T) {
	ts, store := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/investigations", map[string]any{
		"investigation_type": "simple",
		"target_name":        "John Doe",
		"accepted_terms":     true,
	})
	var created investigationJSON
	decode(t, resp, &created)
	require.NotNil(t, created.PaymentRef)

	body := []byte(fmt.Sprintf(`{"type":"payment_intent.succeeded","data":{"object":{"id":"%s"}}}`, *created.PaymentRef))
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/webhooks/stripe", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(stripeSignatureHeader, signStripePayload(testWebhookSecret, body, time.Now().Unix()))
	whResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer whResp.Body.Close()
	assert.Equal(t, http.StatusOK, whResp.StatusCode)

	// The webhook moved the investigation to processing and queued a job.
	inv, err := store.Get(req.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "processing", string(inv.Status))
	assert.Equal(t, "paid", string(inv.PaymentStatus))
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	ts, _ := newTestServer(t)

	body := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pay_x"}}}`)

	// No signature.
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/webhooks/stripe", bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Wrong secret.
	req, err = http.NewRequest(http.MethodPost, ts.URL+"/api/webhooks/stripe", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(stripeSignatureHeader, signStripePayload("whsec_other", body, time.Now().Unix()))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Stale timestamp.
	req, err = http.NewRequest(http.MethodPost, ts.URL+"/api/webhooks/stripe", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(stripeSignatureHeader, signStripePayload(testWebhookSecret, body, time.Now().Add(-time.Hour).Unix()))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestVerifyStripeSignature(t *testing.T) {
	body := []byte(`{"type":"payment_intent.succeeded"}`)
	now := time.Now()

	header := signStripePayload("secret", body, now.Unix())
	assert.True(t, verifyStripeSignature(header, body, "secret", now))
	assert.False(t, verifyStripeSignature(header, []byte("tampered"), "secret", now))
	assert.False(t, verifyStripeSignature(header, body, "", now))
	assert.False(t, verifyStripeSignature("t=abc,v1=ff", body, "secret", now))
	assert.False(t, verifyStripeSignature(strings.ReplaceAll(header, "v1=", "v1=00"), body, "secret", now))
}
