package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus flags carried in partition metadata. Superseded and
// repealed documents are excluded at search time.
type DocumentStatus string

const (
	StatusActive     DocumentStatus = "active"
	StatusSuperseded DocumentStatus = "superseded"
	StatusRepealed   DocumentStatus = "repealed"
)

// DocumentMetadata is the partition-specific structured metadata of a
// retrieved document. Optional fields are pointers, never absent map keys.
type DocumentMetadata struct {
	ChapterID   string         `json:"chapter_id,omitempty"`
	DocumentID  string         `json:"document_id,omitempty"`
	Status      DocumentStatus `json:"status,omitempty"`
	Tier        string         `json:"tier,omitempty"`
	EffectiveAt *time.Time     `json:"effective_at,omitempty"`
}

// RetrievedDocument is one retrieval result. The re-ranker may overwrite
// Score (keeping the original under OriginalScore) and the conflict
// resolver may flag it as a conflict loser.
type RetrievedDocument struct {
	ID              uuid.UUID        `json:"id"`
	Text            string           `json:"text"`
	Title           string           `json:"title,omitempty"`
	SourcePartition Partition        `json:"source_partition"`
	Score           float64          `json:"score"`
	OriginalScore   *float64         `json:"original_score,omitempty"`
	Metadata        DocumentMetadata `json:"metadata"`
	ConflictLoser   bool             `json:"conflict_loser,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// SourceID returns the most traceable identifier for citation: structural
// chapter id first, document id next, raw chunk id last.
func (d RetrievedDocument) SourceID() string {
	if d.Metadata.ChapterID != "" {
		return d.Metadata.ChapterID
	}
	if d.Metadata.DocumentID != "" {
		return d.Metadata.DocumentID
	}
	return d.ID.String()
}

// SearchFilter scopes a vector search within one partition.
type SearchFilter struct {
	Tier            string
	IncludeInactive bool
}

// SearchOpts bound a vector search call.
type SearchOpts struct {
	TopK     int
	MinScore float64
	Filter   SearchFilter
}

// EvidenceSet is the conflict-resolved document collection backing a draft.
type EvidenceSet struct {
	Documents []RetrievedDocument `json:"documents"`
}

// Texts returns the evidence bodies in order, for prompting and judging.
func (e EvidenceSet) Texts() []string {
	out := make([]string, 0, len(e.Documents))
	for _, d := range e.Documents {
		out = append(out, d.Text)
	}
	return out
}

// Sources maps the evidence to answer citations, deduplicated by source id.
func (e EvidenceSet) Sources() []Source {
	seen := make(map[string]bool, len(e.Documents))
	out := make([]Source, 0, len(e.Documents))
	for _, d := range e.Documents {
		id := d.SourceID()
		if seen[id] {
			continue
		}
		seen[id] = true
		title := d.Title
		if title == "" {
			title = id
		}
		out = append(out, Source{Title: title, Partition: string(d.SourcePartition), Score: d.Score})
	}
	return out
}
