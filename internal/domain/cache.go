package domain

import "time"

// CacheMatchKind distinguishes how a cache hit was found.
type CacheMatchKind string

const (
	MatchExact    CacheMatchKind = "exact"
	MatchSemantic CacheMatchKind = "semantic"
)

// CacheEntry is owned exclusively by the semantic cache.
type CacheEntry struct {
	QueryText string        `json:"query_text"`
	Embedding []float32     `json:"-"`
	Answer    AnswerResult  `json:"answer"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
}

// Expired reports whether the entry's TTL has lapsed at the given time.
// A zero TTL means the entry never expires.
func (e CacheEntry) Expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.CreatedAt) > e.TTL
}

// CacheHit pairs an entry with the kind of match that found it.
type CacheHit struct {
	Entry      CacheEntry     `json:"entry"`
	Kind       CacheMatchKind `json:"kind"`
	Similarity float64        `json:"similarity,omitempty"`
}
