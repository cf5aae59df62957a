package domain

import "github.com/google/uuid"

type ConflictType string

const (
	ConflictTemporal ConflictType = "temporal"
	ConflictSemantic ConflictType = "semantic"
)

// ConflictRecord is appended per detected pair; losers are flagged in the
// evidence, never deleted from the report.
type ConflictRecord struct {
	Type        ConflictType `json:"type"`
	LosingID    uuid.UUID    `json:"losing_document_id"`
	WinningID   uuid.UUID    `json:"winning_document_id"`
	RuleApplied string       `json:"rule_applied"`
}

// PartitionPair marks two partitions known to overlap in subject matter.
// Updates is the newer/updates-oriented side and wins temporal conflicts.
type PartitionPair struct {
	Base    Partition
	Updates Partition
}

// OverlappingPairs is the pairwise rule table. It is intentionally a table
// of known names rather than a general recency metric; extend it when a new
// partition gains an updates counterpart.
var OverlappingPairs = []PartitionPair{
	{Base: PartitionKnowledge, Updates: PartitionKnowledgeUpdates},
	{Base: PartitionTax, Updates: PartitionTaxUpdates},
}
