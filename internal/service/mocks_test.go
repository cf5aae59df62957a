package service

import (
	"context"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/Harshitk-cp/sibyl/internal/store"
)

type mockGoldenStore struct {
	records []domain.GoldenRecord
	listErr error

	createCalls int
}

func (m *mockGoldenStore) Create(_ context.Context, rec *domain.GoldenRecord) error {
	m.createCalls++
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockGoldenStore) ListAll(_ context.Context) ([]domain.GoldenRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

type mockDocumentStore struct {
	docs      []domain.RetrievedDocument
	searchErr error
	getErr    error

	searchCalls int
}

func (m *mockDocumentStore) Search(_ context.Context, _ domain.Partition, _ []float32, opts domain.SearchOpts) ([]domain.RetrievedDocument, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if opts.TopK > 0 && len(m.docs) > opts.TopK {
		return m.docs[:opts.TopK], nil
	}
	return m.docs, nil
}

func (m *mockDocumentStore) GetBySourceID(_ context.Context, sourceID string) (*domain.RetrievedDocument, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.docs {
		if m.docs[i].SourceID() == sourceID {
			return &m.docs[i], nil
		}
	}
	return nil, store.ErrNotFound
}

type mockPricingStore struct {
	items   []domain.PricingItem
	findErr error
}

func (m *mockPricingStore) FindMatching(_ context.Context, _ string, limit int) ([]domain.PricingItem, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if limit > 0 && len(m.items) > limit {
		return m.items[:limit], nil
	}
	return m.items, nil
}

// mockEmbedder returns a canned vector per exact input text, falling back
// to a shared default.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	embedErr error

	calls []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return []float32{1, 0, 0}, nil
}
