package store

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

type GoldenStore struct {
	db *pgxpool.Pool
}

func NewGoldenStore(db *pgxpool.Pool) *GoldenStore {
	return &GoldenStore{db: db}
}

func (s *GoldenStore) Create(ctx context.Context, rec *domain.GoldenRecord) error {
	var embedding *pgvector.Vector
	if len(rec.Embedding) > 0 {
		v := pgvector.NewVector(rec.Embedding)
		embedding = &v
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO golden_records (canonical_query, embedding, answer_text, source_document_ids)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rec.CanonicalQuery, embedding, rec.AnswerText, rec.SourceDocIDs,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *GoldenStore) ListAll(ctx context.Context) ([]domain.GoldenRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, canonical_query, embedding, answer_text, source_document_ids, created_at
		 FROM golden_records
		 WHERE embedding IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("list golden records: %w", err)
	}
	defer rows.Close()

	var records []domain.GoldenRecord
	for rows.Next() {
		var rec domain.GoldenRecord
		var vec pgvector.Vector
		if err := rows.Scan(&rec.ID, &rec.CanonicalQuery, &vec, &rec.AnswerText, &rec.SourceDocIDs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan golden record: %w", err)
		}
		rec.Embedding = vec.Slice()
		records = append(records, rec)
	}

	return records, rows.Err()
}
