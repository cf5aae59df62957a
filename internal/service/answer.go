package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

// ErrEmptyQuery is the only request error surfaced to callers; every other
// internal failure degrades to a best-effort answer.
var ErrEmptyQuery = errors.New("query text is required")

const (
	defaultCacheWriteTTL = time.Hour
	pricingMatchLimit    = 10
	streamChunkRunes     = 48
)

// AnswerService runs the full answer pipeline: shortcuts first, then
// routing, then the agent loop with verification.
type AnswerService struct {
	embedder     domain.EmbeddingClient
	golden       *GoldenService
	cache        *CacheService
	router       *RouterService
	pricing      domain.PricingStore
	orchestrator *OrchestratorService
	judge        *JudgeService
	logger       *zap.Logger

	cacheTTL time.Duration
}

func NewAnswerService(
	embedder domain.EmbeddingClient,
	golden *GoldenService,
	cache *CacheService,
	router *RouterService,
	pricing domain.PricingStore,
	orchestrator *OrchestratorService,
	judge *JudgeService,
	logger *zap.Logger,
) *AnswerService {
	return &AnswerService{
		embedder:     embedder,
		golden:       golden,
		cache:        cache,
		router:       router,
		pricing:      pricing,
		orchestrator: orchestrator,
		judge:        judge,
		logger:       logger,
		cacheTTL:     defaultCacheWriteTTL,
	}
}

// SetCacheTTL overrides the write-through TTL; zero keeps the default.
func (s *AnswerService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// Answer resolves one query through the shortcut chain and, failing that,
// the agent loop. It returns ErrEmptyQuery for blank input and otherwise
// always produces an answer.
func (s *AnswerService) Answer(ctx context.Context, q domain.Query) (*domain.AnswerResult, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return nil, ErrEmptyQuery
	}

	// A missing provider or a failed embedding downgrades golden and
	// semantic matching to exact-only cache lookups rather than failing
	// the request.
	var embedding []float32
	if s.embedder != nil {
		var err error
		embedding, err = s.embedder.Embed(ctx, q.Text)
		if err != nil {
			s.logger.Warn("query embedding failed, semantic shortcuts disabled", zap.Error(err))
			embedding = nil
		}
	} else {
		s.logger.Warn("no embedding provider configured, semantic shortcuts disabled")
	}

	if embedding != nil {
		if hit, ok := s.golden.Lookup(q.Text, embedding); ok {
			s.logger.Info("golden hit",
				zap.String("canonical_query", hit.Record.CanonicalQuery),
				zap.Float64("similarity", hit.Similarity))
			return goldenResult(hit), nil
		}
	}

	if hit, ok := s.cache.Get(q.Text, embedding); ok {
		result := hit.Entry.Answer
		if hit.Kind == domain.MatchExact {
			result.Path = domain.PathCacheExact
		} else {
			result.Path = domain.PathCacheSemantic
		}
		return &result, nil
	}

	routing := s.router.Route(q.Text, q.PartitionOverride)
	s.logger.Info("routed query",
		zap.String("primary", string(routing.Primary)),
		zap.Float64("confidence", routing.Confidence),
		zap.Bool("fast_path", routing.IsFastPath))

	if routing.IsFastPath {
		if result, ok := s.answerPricing(ctx, q, routing); ok {
			return result, nil
		}
		// Empty catalog or a dead pricing backend falls through to the
		// agent loop instead of answering with nothing.
	}

	result := s.answerAgent(ctx, q, routing)

	if result.IsVerified && embedding != nil {
		s.cache.Put(q.Text, embedding, *result, s.cacheTTL)
	}
	return result, nil
}

// AnswerStream resolves the query and emits the answer text to sink in
// chunks, followed by the final result.
func (s *AnswerService) AnswerStream(ctx context.Context, q domain.Query, sink func(chunk string) error) (*domain.AnswerResult, error) {
	result, err := s.Answer(ctx, q)
	if err != nil {
		return nil, err
	}

	runes := []rune(result.Answer)
	for start := 0; start < len(runes); start += streamChunkRunes {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		end := start + streamChunkRunes
		if end > len(runes) {
			end = len(runes)
		}
		if err := sink(string(runes[start:end])); err != nil {
			return result, fmt.Errorf("stream sink: %w", err)
		}
	}
	return result, nil
}

func goldenResult(hit *domain.GoldenHit) *domain.AnswerResult {
	sources := make([]domain.Source, 0, len(hit.Record.SourceDocIDs))
	for _, id := range hit.Record.SourceDocIDs {
		sources = append(sources, domain.Source{Title: id, Score: hit.Similarity})
	}
	return &domain.AnswerResult{
		Answer:     hit.Record.AnswerText,
		Sources:    sources,
		IsVerified: true,
		Path:       domain.PathGolden,
	}
}

// answerPricing serves catalog questions directly from the pricing table,
// skipping retrieval and generation entirely.
func (s *AnswerService) answerPricing(ctx context.Context, q domain.Query, routing domain.RoutingDecision) (*domain.AnswerResult, bool) {
	items, err := s.pricing.FindMatching(ctx, q.Text, pricingMatchLimit)
	if err != nil {
		s.logger.Warn("pricing lookup failed", zap.Error(err))
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}

	var sb strings.Builder
	sb.WriteString("Here is the current pricing:\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s: %.2f %s", item.Service, item.Price, item.Currency))
		if item.Notes != "" {
			sb.WriteString(" (" + item.Notes + ")")
		}
		sb.WriteString("\n")
	}

	return &domain.AnswerResult{
		Answer:     sb.String(),
		Sources:    []domain.Source{{Title: "pricing catalog", Partition: string(domain.PartitionPricing), Score: 1.0}},
		IsVerified: true,
		Path:       domain.PathPricing,
		Routing:    &routing,
	}, true
}

func (s *AnswerService) answerAgent(ctx context.Context, q domain.Query, routing domain.RoutingDecision) *domain.AnswerResult {
	run := s.orchestrator.Run(ctx, q, routing)

	verdict := s.judge.Verify(ctx, q.Text, run.Draft, run.Evidence.Texts())
	answer := run.Draft
	if !verdict.Acceptable(s.judge.Threshold()) && verdict.CorrectedAnswer != "" {
		s.logger.Info("using corrected draft",
			zap.String("status", string(verdict.Status)),
			zap.Float64("score", verdict.Score))
		answer = verdict.CorrectedAnswer
	}

	return &domain.AnswerResult{
		Answer:     answer,
		Sources:    run.Evidence.Sources(),
		IsVerified: verdict.Acceptable(s.judge.Threshold()),
		Path:       domain.PathAgent,
		Verdict:    &verdict,
		Steps:      run.Steps,
		Conflicts:  run.Conflicts,
		Routing:    &routing,
	}
}
