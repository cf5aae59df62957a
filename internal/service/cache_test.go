package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(maxEntries int) *CacheService {
	return NewCacheService(maxEntries, 0.95, time.Hour, zap.NewNop())
}

func TestCacheService_ExactRoundTrip(t *testing.T) {
	c := newTestCache(10)
	answer := domain.AnswerResult{Answer: "42", IsVerified: true}
	emb := []float32{0.1, 0.2, 0.3}

	c.Put("What is the answer?", emb, answer, 0)

	hit, ok := c.Get("What is the answer?", emb)
	require.True(t, ok)
	assert.Equal(t, domain.MatchExact, hit.Kind)
	assert.Equal(t, "42", hit.Entry.Answer.Answer)
}

func TestCacheService_ExactMatchNormalizesText(t *testing.T) {
	c := newTestCache(10)
	c.Put("What  IS the Answer?", nil, domain.AnswerResult{Answer: "42"}, 0)

	hit, ok := c.Get("what is the answer?", nil)
	require.True(t, ok)
	assert.Equal(t, domain.MatchExact, hit.Kind)
}

func TestCacheService_SemanticHitAboveThreshold(t *testing.T) {
	c := newTestCache(10)
	c.Put("query one", []float32{1, 0, 0}, domain.AnswerResult{Answer: "cached"}, 0)

	// Different text, nearly identical embedding.
	hit, ok := c.Get("query two", []float32{0.999, 0.01, 0})
	require.True(t, ok)
	assert.Equal(t, domain.MatchSemantic, hit.Kind)
	assert.Equal(t, "cached", hit.Entry.Answer.Answer)
	assert.GreaterOrEqual(t, hit.Similarity, 0.95)
}

func TestCacheService_SemanticMissBelowThreshold(t *testing.T) {
	c := newTestCache(10)
	c.Put("query one", []float32{1, 0, 0}, domain.AnswerResult{Answer: "cached"}, 0)

	_, ok := c.Get("query two", []float32{0, 1, 0})
	assert.False(t, ok)
}

func TestCacheService_NoEmbeddingSkipsSemanticScan(t *testing.T) {
	c := newTestCache(10)
	c.Put("query one", []float32{1, 0, 0}, domain.AnswerResult{Answer: "cached"}, 0)

	_, ok := c.Get("query two", nil)
	assert.False(t, ok)
}

func TestCacheService_TTLExpiryReadsAsMiss(t *testing.T) {
	c := newTestCache(10)
	c.Put("short lived", nil, domain.AnswerResult{Answer: "x"}, time.Nanosecond)

	time.Sleep(time.Millisecond)

	_, ok := c.Get("short lived", nil)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries, "expired entry should be lazily removed")
}

func TestCacheService_EvictsOldestFirst(t *testing.T) {
	c := newTestCache(3)

	for i := 0; i < 5; i++ {
		c.Put(fmt.Sprintf("query %d", i), nil, domain.AnswerResult{Answer: fmt.Sprintf("a%d", i)}, 0)
	}

	stats := c.Stats()
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, int64(2), stats.Evictions)

	// Oldest two are gone, newest three remain.
	_, ok := c.Get("query 0", nil)
	assert.False(t, ok)
	_, ok = c.Get("query 1", nil)
	assert.False(t, ok)
	for i := 2; i < 5; i++ {
		_, ok = c.Get(fmt.Sprintf("query %d", i), nil)
		assert.True(t, ok, "query %d should survive", i)
	}
}

func TestCacheService_NeverExceedsMax(t *testing.T) {
	c := newTestCache(8)
	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("q%d", i), nil, domain.AnswerResult{}, 0)
		assert.LessOrEqual(t, c.Stats().Entries, 8)
	}
}

func TestCacheService_ReinsertRefreshesEvictionOrder(t *testing.T) {
	c := newTestCache(2)

	c.Put("a", nil, domain.AnswerResult{}, 0)
	c.Put("b", nil, domain.AnswerResult{}, 0)
	c.Put("a", nil, domain.AnswerResult{}, 0) // re-insert
	c.Put("c", nil, domain.AnswerResult{}, 0) // should evict b

	_, ok := c.Get("b", nil)
	assert.False(t, ok)
	_, ok = c.Get("a", nil)
	assert.True(t, ok)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity(nil, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
