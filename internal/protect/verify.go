package protect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// Fixed failure reasons distinguishing a structured rejection from a
// transport-level failure.
const (
	ReasonHashNotFound       = "hash not found or invalid"
	ReasonVerificationFailed = "verification failed"
)

// Outcome is the normalized result of a verification lookup. Either
// Verified is true and the record fields are populated, or Reason carries
// one of the fixed failure strings. Valid for one query only; outcomes
// are never cached.
type Outcome struct {
	Verified        bool
	Creator         string
	Timestamp       time.Time
	ProtectionLevel string
	ContentID       string
	Reason          string
}

// rawVerification mirrors the service's verification record.
type rawVerification struct {
	Verified        bool   `json:"verified"`
	Creator         string `json:"creator"`
	Timestamp       string `json:"timestamp"`
	ProtectionLevel string `json:"protection_level"`
	ContentID       string `json:"content_id"`
}

// Verify looks up a content hash against the service. An empty hash is a
// no-op returning the zero Outcome. Every call is independent; overlapping
// lookups are not deduplicated.
func (c *Client) Verify(ctx context.Context, hash string) Outcome {
	if hash == "" {
		return Outcome{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/verify/"+url.PathEscape(hash), nil)
	if err != nil {
		return Outcome{Reason: ReasonVerificationFailed}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Outcome{Reason: ReasonVerificationFailed}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Outcome{Reason: ReasonHashNotFound}
	}

	var raw rawVerification
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Outcome{Reason: ReasonVerificationFailed}
	}

	return Outcome{
		Verified:        true,
		Creator:         raw.Creator,
		Timestamp:       parseTimestamp(raw.Timestamp),
		ProtectionLevel: raw.ProtectionLevel,
		ContentID:       raw.ContentID,
	}
}

// parseTimestamp accepts the formats the service has been seen to emit.
// An unparseable value yields the zero time rather than a failure.
func parseTimestamp(s string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		// The backend serializes record timestamps with fractional
		// seconds and no zone.
		"2006-01-02T15:04:05.999999-07:00",
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
