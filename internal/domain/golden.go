package domain

import (
	"time"

	"github.com/google/uuid"
)

// GoldenRecord is a curated (canonical query, vetted answer) pair. The store
// is populated out of band and read-only at query time.
type GoldenRecord struct {
	ID             uuid.UUID `json:"id"`
	CanonicalQuery string    `json:"canonical_query"`
	Embedding      []float32 `json:"-"`
	AnswerText     string    `json:"answer_text"`
	SourceDocIDs   []string  `json:"source_document_ids,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// GoldenHit is the at-most-one match returned by a lookup.
type GoldenHit struct {
	Record     GoldenRecord `json:"record"`
	Similarity float64      `json:"similarity"`
}
