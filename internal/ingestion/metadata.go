package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes where a job description came from
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 hex digest of the cleaned text
	Rendered  bool   `json:"rendered,omitempty"`
}

// NewMetadata stamps cleaned content with the current time and its hash
func NewMetadata(content string, url string) *Metadata {
	sum := sha256.Sum256([]byte(content))
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      hex.EncodeToString(sum[:]),
	}
}
