package service

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

// DefaultGoldenThreshold is stricter than the cache threshold because a
// golden hit skips verification entirely.
const DefaultGoldenThreshold = 0.85

// GoldenService holds the curated (canonical query, vetted answer) index in
// memory. Records are refreshed only by an explicit Reload, never per query.
type GoldenService struct {
	store     domain.GoldenStore
	threshold float64
	logger    *zap.Logger

	mu      sync.RWMutex
	records []domain.GoldenRecord
}

func NewGoldenService(store domain.GoldenStore, threshold float64, logger *zap.Logger) *GoldenService {
	if threshold <= 0 {
		threshold = DefaultGoldenThreshold
	}
	return &GoldenService{
		store:     store,
		threshold: threshold,
		logger:    logger,
	}
}

// Reload swaps the in-memory index from the backing store. Concurrent
// lookups keep serving the previous index until the swap.
func (s *GoldenService) Reload(ctx context.Context) error {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.logger.Info("golden index reloaded", zap.Int("records", len(records)))
	return nil
}

// Lookup returns the single highest-similarity record at or above the
// strict threshold, or nothing.
func (s *GoldenService) Lookup(queryText string, embedding []float32) (*domain.GoldenHit, bool) {
	if len(embedding) == 0 {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.GoldenRecord
	bestSim := 0.0
	for i := range s.records {
		sim := CosineSimilarity(embedding, s.records[i].Embedding)
		if sim >= s.threshold && sim > bestSim {
			best = &s.records[i]
			bestSim = sim
		}
	}

	if best == nil {
		return nil, false
	}

	s.logger.Debug("golden hit",
		zap.String("query", queryText),
		zap.String("canonical", best.CanonicalQuery),
		zap.Float64("similarity", bestSim))

	return &domain.GoldenHit{Record: *best, Similarity: bestSim}, true
}

// Size reports the loaded record count, for observability.
func (s *GoldenService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
