package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Entry is the cached result of one answered question.
type Entry struct {
	Response  string `json:"response"`
	ImageName string `json:"image_name,omitempty"`
	Source    string `json:"source,omitempty"`
}

type Stats struct {
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	Sets           int64   `json:"sets"`
	TotalRequests  int64   `json:"total_requests"`
	HitRatePercent float64 `json:"hit_rate_percent"`
	Backend        string  `json:"backend"`
}

// ResponseCache is the TTL/eviction contract shared by both backing stores.
// A zero or negative ttl on Set means the backend default.
type ResponseCache interface {
	Get(ctx context.Context, question, userID string) (*Entry, bool)
	Set(ctx context.Context, question, userID string, entry Entry, ttl time.Duration) error
	Invalidate(ctx context.Context, question, userID string) error
	Clear(ctx context.Context) error
	Stats() Stats
}

// Thai polite particles stripped before hashing so "ราคาเท่าไหร่คะ" and
// "ราคาเท่าไหร่ค่ะ" share a cache entry.
var politeParticles = []string{"ค่ะ", "คะ", "ครับ", "น่ะ"}

func normalizeQuestion(question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	for _, p := range politeParticles {
		normalized = strings.ReplaceAll(normalized, p, "")
	}
	return normalized
}

// Key derives the fixed-width cache key for a question, optionally scoped
// to a user.
func Key(question, userID string) string {
	normalized := normalizeQuestion(question)
	if userID != "" {
		normalized = userID + ":" + normalized
	}
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
