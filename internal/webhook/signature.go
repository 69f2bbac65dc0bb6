package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/peridotvault/peridot-core/internal/adapter"
)

const signaturePrefix = "sha256="

// GenerateSignedPayload generates a signed webhook payload with HMAC-SHA256 signature
// Returns the JSON payload, signature header value, timestamp, and any error
func GenerateSignedPayload(secret string, event WebhookEvent, json adapter.JSON, now time.Time) (payload []byte, signature string, timestamp int64, err error) {
	payload, err = json.Marshal(event)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	timestamp = now.Unix()
	signature = Sign(secret, timestamp, event.EventID, payload)

	return payload, signature, timestamp, nil
}

// Sign returns the "sha256=<hex>" HMAC of "{timestamp}.{event_id}.{payload}"
func Sign(secret string, timestamp int64, eventID string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = fmt.Fprintf(h, "%d.%s.", timestamp, eventID)
	h.Write(payload)
	return signaturePrefix + hex.EncodeToString(h.Sum(nil))
}

// Verify checks a signature header produced by Sign in constant time
func Verify(secret string, timestamp int64, eventID string, payload []byte, signature string) bool {
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	expected := Sign(secret, timestamp, eventID, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
