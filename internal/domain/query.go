package domain

import (
	"github.com/google/uuid"
)

// Query is the immutable request-scoped value entering the pipeline.
type Query struct {
	Text              string     `json:"text"`
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	SessionID         *uuid.UUID `json:"session_id,omitempty"`
	PartitionOverride string     `json:"partition_override,omitempty"`
	Tier              string     `json:"tier,omitempty"`
}

// Source is one citation attached to an answer.
type Source struct {
	Title     string  `json:"title"`
	Partition string  `json:"partition"`
	Score     float64 `json:"score"`
}

// AnswerPath records which stage of the pipeline produced the answer.
type AnswerPath string

const (
	PathGolden        AnswerPath = "golden"
	PathCacheExact    AnswerPath = "cache_exact"
	PathCacheSemantic AnswerPath = "cache_semantic"
	PathPricing       AnswerPath = "pricing"
	PathAgent         AnswerPath = "agent"
)

// AnswerResult is the single outbound payload of the pipeline.
type AnswerResult struct {
	Answer     string                `json:"answer"`
	Sources    []Source              `json:"sources"`
	IsVerified bool                  `json:"is_verified"`
	Path       AnswerPath            `json:"path"`
	Verdict    *VerificationVerdict  `json:"verdict,omitempty"`
	Steps      []AgentStep           `json:"steps,omitempty"`
	Conflicts  []ConflictRecord      `json:"conflicts,omitempty"`
	Routing    *RoutingDecision      `json:"routing,omitempty"`
}
