package protect

import (
	"strings"
	"time"
)

// Score defaults applied when the service omits the optional stats fields.
// A partially populated response still yields a usable result.
const (
	DefaultProtectionScore   = 95
	DefaultManipulationScore = 87
)

// Stats describes the effect of the applied protection layers.
type Stats struct {
	ProtectionScore      float64 `json:"protection_score"`
	ManipulationScore    float64 `json:"manipulation_score"`
	CryptographicSigning bool    `json:"cryptographic_signing"`
	BinaryShielding      bool    `json:"binary_shielding"`
	AICloaking           bool    `json:"ai_cloaking"`
}

// Certificate asserts content identity and authenticity for a protected
// asset. Immutable once composed.
type Certificate struct {
	ContentID     string `json:"content_id"`
	OriginalHash  string `json:"original_hash"`
	ProtectedHash string `json:"protected_hash"`
	Signature     string `json:"signature"`
	IssuedAt      string `json:"issued_at"`
}

// Result is the normalized outcome of a successful protection run.
type Result struct {
	OriginalURL  string      `json:"original_url"`
	ProtectedURL string      `json:"protected_url"`
	Stats        Stats       `json:"stats"`
	Certificate  Certificate `json:"certificate"`
}

// rawResult mirrors the service's wire format. Optional score fields are
// pointers so absence is distinguishable from zero.
type rawResult struct {
	Status       string   `json:"status"`
	ContentID    string   `json:"content_id"`
	OriginalHash string   `json:"original_hash"`
	ProtectedHash string  `json:"protected_hash"`
	Signature    string   `json:"signature"`
	OriginalURL  string   `json:"original_url"`
	ProtectedURL string   `json:"protected_url"`
	IssuedAt     string   `json:"issued_at"`
	Stats        rawStats `json:"stats"`
}

type rawStats struct {
	CryptographicSigning bool     `json:"cryptographic_signing"`
	BinaryManipulation   bool     `json:"binary_manipulation"`
	AICloaking           bool     `json:"ai_cloaking"`
	ProtectionScore      *float64 `json:"protection_score"`
	ManipulationScore    *float64 `json:"manipulation_score"`
}

// composeResult maps the wire format onto the normalized Result: asset
// paths become fully qualified URLs, absent scores take their defaults,
// and the certificate's issuance timestamp falls back to composition time
// when the server does not supply one.
func composeResult(raw *rawResult, baseURL string, now time.Time) *Result {
	stats := Stats{
		ProtectionScore:      DefaultProtectionScore,
		ManipulationScore:    DefaultManipulationScore,
		CryptographicSigning: raw.Stats.CryptographicSigning,
		BinaryShielding:      raw.Stats.BinaryManipulation,
		AICloaking:           raw.Stats.AICloaking,
	}
	if raw.Stats.ProtectionScore != nil {
		stats.ProtectionScore = *raw.Stats.ProtectionScore
	}
	if raw.Stats.ManipulationScore != nil {
		stats.ManipulationScore = *raw.Stats.ManipulationScore
	}

	issuedAt := raw.IssuedAt
	if issuedAt == "" {
		issuedAt = now.UTC().Format(time.RFC3339)
	}

	return &Result{
		OriginalURL:  absoluteURL(baseURL, raw.OriginalURL),
		ProtectedURL: absoluteURL(baseURL, raw.ProtectedURL),
		Stats:        stats,
		Certificate: Certificate{
			ContentID:     raw.ContentID,
			OriginalHash:  raw.OriginalHash,
			ProtectedHash: raw.ProtectedHash,
			Signature:     raw.Signature,
			IssuedAt:      issuedAt,
		},
	}
}

// absoluteURL joins a service-relative path with the base address. Paths
// the service already returns absolute are passed through.
func absoluteURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(baseURL, "/") + path
}
