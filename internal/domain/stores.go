package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DocumentStore is one partition's view of the vector-search backend.
type DocumentStore interface {
	// Search runs a similarity query scoped to one partition. Superseded and
	// repealed documents are excluded unless the filter opts in.
	Search(ctx context.Context, partition Partition, embedding []float32, opts SearchOpts) ([]RetrievedDocument, error)
	// GetBySourceID fetches one full document by canonical chapter id,
	// document id, or raw primary key.
	GetBySourceID(ctx context.Context, sourceID string) (*RetrievedDocument, error)
}

// GoldenStore persists curated golden records.
type GoldenStore interface {
	Create(ctx context.Context, rec *GoldenRecord) error
	ListAll(ctx context.Context) ([]GoldenRecord, error)
}

// PricingItem is one row of the pricing catalog consumed by the fast path.
type PricingItem struct {
	ID        uuid.UUID `json:"id"`
	Service   string    `json:"service"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PricingStore backs the pricing fast path with catalog rows.
type PricingStore interface {
	FindMatching(ctx context.Context, queryText string, limit int) ([]PricingItem, error)
}

// EmbeddingClient turns text into a fixed-length vector, deterministically
// for identical input.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ToolSpec describes one tool offered to the model during reasoning.
type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema string `json:"input_schema"`
}

// DecisionRequest is the context handed to the model for one reasoning step.
type DecisionRequest struct {
	Query   string          `json:"query"`
	Routing RoutingDecision `json:"routing"`
	Tools   []ToolSpec      `json:"tools"`
	History []AgentStep     `json:"history"`
}

// LLMClient is the generation function surface used by the orchestrator and
// the verification judge.
type LLMClient interface {
	// Decide produces the next reasoning step: tool calls or a final answer.
	Decide(ctx context.Context, req DecisionRequest) (*AgentDecision, error)
	// Synthesize drafts an answer to the query from the evidence texts.
	Synthesize(ctx context.Context, query string, evidence []string) (string, error)
	// Judge scores a draft against the evidence with a constrained,
	// low-temperature prompt.
	Judge(ctx context.Context, query, draft string, evidence []string) (*VerificationVerdict, error)
}
