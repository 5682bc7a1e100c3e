package httpadapter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	signatureTolerance    = 5 * time.Minute
)

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// handleStripeWebhook verifies the signed payload and applies the payment
// outcome. Unknown event types are acknowledged so the provider stops
// retrying them.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable body"})
		return
	}
	if !verifyStripeSignature(r.Header.Get(stripeSignatureHeader), body, s.webhookSecret, time.Now()) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	paymentRef := event.Data.Object.ID
	switch event.Type {
	case "payment_intent.succeeded":
		err = s.payments.Confirm(r.Context(), paymentRef)
	case "payment_intent.payment_failed", "payment_intent.canceled":
		err = s.payments.Fail(r.Context(), paymentRef)
	default:
		s.log.Info("unhandled webhook event", zap.String("type", event.Type))
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// verifyStripeSignature checks the t=...,v1=... header format: HMAC-SHA256
// over "<timestamp>.<body>", with a replay window on the timestamp.
func verifyStripeSignature(header string, body []byte, secret string, now time.Time) bool {
	if secret == "" || header == "" {
		return false
	}
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil || ts <= 0 {
		return false
	}
	skew := now.Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > signatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte{'.'})
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, sigHex := range signatures {
		decoded, err := hex.DecodeString(sigHex)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, decoded) {
			return true
		}
	}
	return false
}
