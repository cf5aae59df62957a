package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/Harshitk-cp/sibyl/internal/registry"
	"github.com/Harshitk-cp/sibyl/internal/store"
	"go.uber.org/zap"
)

const (
	ToolVectorSearch = "vector_search"
	ToolDeepDive     = "deep_dive"

	defaultSearchTopK  = 5
	observationSnippet = 400
)

// ToolResult is one tool call's output: the textual observation fed back to
// the model plus the structured documents gathered for the evidence set.
type ToolResult struct {
	Observation string
	Documents   []domain.RetrievedDocument
	Conflicts   []domain.ConflictRecord
}

// Tool is the closed capability interface behind dynamic dispatch. The
// orchestrator holds a registry keyed by Spec().Name.
type Tool interface {
	Spec() domain.ToolSpec
	Execute(ctx context.Context, args json.RawMessage) (*ToolResult, error)
}

// SearchTool queries the routed partitions, resolves cross-partition
// conflicts, and optionally re-ranks the merged survivors.
type SearchTool struct {
	registry   *registry.Registry
	embedder   domain.EmbeddingClient
	reranker   *RerankService
	conflicts  *ConflictService
	partitions []domain.Partition
	tier       string
	logger     *zap.Logger
}

func NewSearchTool(
	reg *registry.Registry,
	embedder domain.EmbeddingClient,
	reranker *RerankService,
	conflicts *ConflictService,
	routing domain.RoutingDecision,
	tier string,
	logger *zap.Logger,
) *SearchTool {
	partitions := expandWithUpdates(append([]domain.Partition{routing.Primary}, routing.Fallbacks...))
	return &SearchTool{
		registry:   reg,
		embedder:   embedder,
		reranker:   reranker,
		conflicts:  conflicts,
		partitions: partitions,
		tier:       tier,
		logger:     logger,
	}
}

// expandWithUpdates appends the updates-oriented counterpart of every routed
// partition, deduplicated in order. Overlapping pairs must be searched
// together or their conflicts can never be detected.
func expandWithUpdates(routed []domain.Partition) []domain.Partition {
	seen := make(map[domain.Partition]bool, len(routed))
	out := make([]domain.Partition, 0, len(routed)+len(domain.OverlappingPairs))
	add := func(p domain.Partition) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range routed {
		add(p)
		for _, pair := range domain.OverlappingPairs {
			if pair.Base == p {
				add(pair.Updates)
			}
		}
	}
	return out
}

func (t *SearchTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        ToolVectorSearch,
		Description: "Search the routed knowledge partitions for passages relevant to a query.",
		InputSchema: `{"query":"string","top_k":"int (optional, default 5)"}`,
	}
}

type searchArgs struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (t *SearchTool) Execute(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	var a searchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("parse search arguments: %w", err)
	}
	if a.Query == "" {
		return nil, errors.New("search query is required")
	}
	if a.TopK <= 0 {
		a.TopK = defaultSearchTopK
	}

	if t.embedder == nil {
		return nil, errors.New("no embedding provider configured")
	}
	embedding, err := t.embedder.Embed(ctx, a.Query)
	if err != nil {
		return nil, fmt.Errorf("embed search query: %w", err)
	}

	resultsByPartition := make(map[domain.Partition][]domain.RetrievedDocument)
	for _, p := range t.partitions {
		h := t.registry.Get(string(p))
		if h == nil {
			continue
		}
		docs, err := h.Store.Search(ctx, h.Partition, embedding, domain.SearchOpts{
			TopK:   a.TopK,
			Filter: domain.SearchFilter{Tier: t.tier},
		})
		if err != nil {
			// One dead partition degrades the search, it does not fail it.
			t.logger.Warn("partition search failed",
				zap.String("partition", string(p)), zap.Error(err))
			continue
		}
		if len(docs) > 0 {
			resultsByPartition[h.Partition] = docs
		}
	}

	conflicts := t.conflicts.Detect(resultsByPartition)
	evidence, _ := t.conflicts.Resolve(resultsByPartition, conflicts)

	docs := t.reranker.Rerank(ctx, a.Query, evidence.Documents, a.TopK)

	return &ToolResult{
		Observation: formatSearchObservation(docs),
		Documents:   docs,
		Conflicts:   conflicts,
	}, nil
}

// DeepDiveTool fetches a full source document when a snippet is not enough.
type DeepDiveTool struct {
	docs domain.DocumentStore
}

func NewDeepDiveTool(docs domain.DocumentStore) *DeepDiveTool {
	return &DeepDiveTool{docs: docs}
}

func (t *DeepDiveTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        ToolDeepDive,
		Description: "Fetch the full text of one source document by its source identifier.",
		InputSchema: `{"source_id":"string"}`,
	}
}

type deepDiveArgs struct {
	SourceID string `json:"source_id"`
}

func (t *DeepDiveTool) Execute(ctx context.Context, args json.RawMessage) (*ToolResult, error) {
	var a deepDiveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("parse deep dive arguments: %w", err)
	}
	if a.SourceID == "" {
		return nil, errors.New("source_id is required")
	}

	doc, err := t.docs.GetBySourceID(ctx, a.SourceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &ToolResult{
				Observation: fmt.Sprintf("no document found for source id %q", a.SourceID),
			}, nil
		}
		return nil, fmt.Errorf("deep dive lookup: %w", err)
	}

	return &ToolResult{
		Observation: fmt.Sprintf("[%s] %s\n%s", doc.SourceID(), doc.Title, doc.Text),
		Documents:   []domain.RetrievedDocument{*doc},
	}, nil
}

func formatSearchObservation(docs []domain.RetrievedDocument) string {
	if len(docs) == 0 {
		return "no matching documents found"
	}
	var sb strings.Builder
	for i, d := range docs {
		text := truncateRunes(d.Text, observationSnippet)
		sb.WriteString(fmt.Sprintf("%d. [%s] (%s, score %.2f) %s\n",
			i+1, d.SourceID(), d.SourcePartition, d.Score, text))
	}
	return sb.String()
}

// truncateRunes shortens s to at most max bytes without splitting a rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
