package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

const documentColumns = `id, partition, chapter_id, document_id, title, content, status, tier, effective_at, created_at`

type DocumentStore struct {
	db *pgxpool.Pool
}

func NewDocumentStore(db *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Search(ctx context.Context, partition domain.Partition, embedding []float32, opts domain.SearchOpts) ([]domain.RetrievedDocument, error) {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}

	vec := pgvector.NewVector(embedding)

	var conditions []string
	var args []any

	conditions = append(conditions, fmt.Sprintf("partition = $%d", len(args)+1))
	args = append(args, string(partition))

	conditions = append(conditions, "embedding IS NOT NULL")

	if !opts.Filter.IncludeInactive {
		conditions = append(conditions, fmt.Sprintf("status NOT IN ($%d, $%d)", len(args)+1, len(args)+2))
		args = append(args, string(domain.StatusSuperseded), string(domain.StatusRepealed))
	}

	if opts.Filter.Tier != "" {
		conditions = append(conditions, fmt.Sprintf("(tier = '' OR tier = $%d)", len(args)+1))
		args = append(args, opts.Filter.Tier)
	}

	embeddingParam := len(args) + 1
	args = append(args, vec)

	if opts.MinScore > 0 {
		conditions = append(conditions, fmt.Sprintf("1 - (embedding <=> $%d) >= $%d", embeddingParam, len(args)+1))
		args = append(args, opts.MinScore)
	}

	limitParam := len(args) + 1
	args = append(args, opts.TopK)

	query := fmt.Sprintf(
		`SELECT %s, 1 - (embedding <=> $%d) AS score
		 FROM documents
		 WHERE %s
		 ORDER BY score DESC
		 LIMIT $%d`,
		documentColumns,
		embeddingParam,
		strings.Join(conditions, " AND "),
		limitParam,
	)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("document search query: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievedDocument
	for rows.Next() {
		doc, err := scanDocumentWithScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		results = append(results, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("document search rows: %w", err)
	}

	return results, nil
}

// GetBySourceID fetches one full document. The identifier is matched against
// the canonical chapter id, the document id, and finally the raw primary key.
func (s *DocumentStore) GetBySourceID(ctx context.Context, sourceID string) (*domain.RetrievedDocument, error) {
	doc, err := s.getWhere(ctx, "chapter_id = $1", sourceID)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	doc, err = s.getWhere(ctx, "document_id = $1", sourceID)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, parseErr := uuid.Parse(sourceID)
	if parseErr != nil {
		return nil, ErrNotFound
	}
	return s.getWhere(ctx, "id = $1", id)
}

func (s *DocumentStore) getWhere(ctx context.Context, condition string, arg any) (*domain.RetrievedDocument, error) {
	row := s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s, 1.0 AS score FROM documents WHERE %s LIMIT 1`, documentColumns, condition),
		arg,
	)
	doc, err := scanDocumentWithScore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// CountByPartition reports approximate partition size for registry metadata.
func (s *DocumentStore) CountByPartition(ctx context.Context, partition domain.Partition) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE partition = $1`,
		string(partition),
	).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocumentWithScore(row rowScanner) (domain.RetrievedDocument, error) {
	var d domain.RetrievedDocument
	var partition, status string
	err := row.Scan(
		&d.ID, &partition, &d.Metadata.ChapterID, &d.Metadata.DocumentID,
		&d.Title, &d.Text, &status, &d.Metadata.Tier, &d.Metadata.EffectiveAt,
		&d.CreatedAt, &d.Score,
	)
	if err != nil {
		return domain.RetrievedDocument{}, err
	}
	d.SourcePartition = domain.Partition(partition)
	d.Metadata.Status = domain.DocumentStatus(status)
	return d, nil
}
