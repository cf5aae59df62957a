package service

import (
	"strings"
	"sync"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultCacheMaxEntries          = 1000
	DefaultCacheSimilarityThreshold = 0.95
	DefaultCacheTTL                 = time.Hour
)

// CacheStats is a point-in-time snapshot for observability.
type CacheStats struct {
	Entries      int   `json:"entries"`
	ExactHits    int64 `json:"exact_hits"`
	SemanticHits int64 `json:"semantic_hits"`
	Misses       int64 `json:"misses"`
	Evictions    int64 `json:"evictions"`
}

// CacheService is the in-process semantic response cache. It is an
// optimization, never a correctness dependency: a miss costs one
// orchestration run, nothing more.
type CacheService struct {
	mu      sync.Mutex
	entries map[string]*domain.CacheEntry
	// order tracks normalized keys by insertion time; the front is evicted
	// first when the population cap is exceeded.
	order []string

	maxEntries int
	threshold  float64
	defaultTTL time.Duration
	logger     *zap.Logger

	exactHits    int64
	semanticHits int64
	misses       int64
	evictions    int64
}

func NewCacheService(maxEntries int, threshold float64, defaultTTL time.Duration, logger *zap.Logger) *CacheService {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	if threshold <= 0 {
		threshold = DefaultCacheSimilarityThreshold
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultCacheTTL
	}
	return &CacheService{
		entries:    make(map[string]*domain.CacheEntry),
		maxEntries: maxEntries,
		threshold:  threshold,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

func normalizeQuery(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Get looks up an answer by exact text first, then by embedding proximity
// when an embedding is supplied. Expired entries read as misses and are
// removed lazily.
func (s *CacheService) Get(queryText string, embedding []float32) (*domain.CacheHit, bool) {
	key := normalizeQuery(queryText)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		if entry.Expired(now) {
			s.removeLocked(key)
		} else {
			s.exactHits++
			return &domain.CacheHit{Entry: *entry, Kind: domain.MatchExact, Similarity: 1.0}, true
		}
	}

	if len(embedding) > 0 {
		var best *domain.CacheEntry
		bestSim := 0.0
		for _, k := range s.order {
			entry := s.entries[k]
			if entry == nil || entry.Expired(now) {
				continue
			}
			sim := CosineSimilarity(embedding, entry.Embedding)
			if sim >= s.threshold && sim > bestSim {
				best = entry
				bestSim = sim
			}
		}
		if best != nil {
			s.semanticHits++
			return &domain.CacheHit{Entry: *best, Kind: domain.MatchSemantic, Similarity: bestSim}, true
		}
	}

	s.misses++
	return nil, false
}

// Put writes an entry under the normalized exact key and evicts the oldest
// entries when the population exceeds the cap. ttl <= 0 uses the default.
func (s *CacheService) Put(queryText string, embedding []float32, answer domain.AnswerResult, ttl time.Duration) {
	key := normalizeQuery(queryText)
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		// Re-insert moves the key to the back of the eviction order.
		s.removeFromOrderLocked(key)
	}

	s.entries[key] = &domain.CacheEntry{
		QueryText: queryText,
		Embedding: embedding,
		Answer:    answer,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}
	s.order = append(s.order, key)

	for len(s.entries) > s.maxEntries {
		oldest := s.order[0]
		s.removeLocked(oldest)
		s.evictions++
		s.logger.Debug("cache eviction", zap.String("key", oldest))
	}
}

// Stats returns a snapshot of cache counters.
func (s *CacheService) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{
		Entries:      len(s.entries),
		ExactHits:    s.exactHits,
		SemanticHits: s.semanticHits,
		Misses:       s.misses,
		Evictions:    s.evictions,
	}
}

func (s *CacheService) removeLocked(key string) {
	delete(s.entries, key)
	s.removeFromOrderLocked(key)
}

func (s *CacheService) removeFromOrderLocked(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
