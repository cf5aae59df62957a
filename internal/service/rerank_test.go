package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rerankDocs(n int) []domain.RetrievedDocument {
	docs := make([]domain.RetrievedDocument, n)
	for i := range docs {
		docs[i] = domain.RetrievedDocument{
			ID:    uuid.New(),
			Text:  "doc " + string(rune('a'+i)),
			Score: float64(n-i) / float64(n),
		}
	}
	return docs
}

func TestRerankService_DisabledReturnsTopKUnchanged(t *testing.T) {
	s := NewRerankService("", "http://unused", time.Second, zap.NewNop())
	docs := rerankDocs(4)

	out := s.Rerank(context.Background(), "q", docs, 2)

	require.Len(t, out, 2)
	assert.Equal(t, docs[0].ID, out[0].ID)
	assert.Equal(t, docs[1].ID, out[1].ID)
	assert.Nil(t, out[0].OriginalScore)
}

func TestRerankService_EmptyInput(t *testing.T) {
	s := NewRerankService("key", "http://unused", time.Second, zap.NewNop())
	out := s.Rerank(context.Background(), "q", nil, 3)
	assert.Empty(t, out)
}

func TestRerankService_MapsScoresByIndexAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "q", req.Query)
		assert.Len(t, req.Documents, 3)

		// Reverse the original order.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 2, "relevance_score": 0.99},
				{"index": 0, "relevance_score": 0.10},
				{"index": 1, "relevance_score": 0.50},
			},
		})
	}))
	defer srv.Close()

	s := NewRerankService("key", srv.URL, time.Second, zap.NewNop())
	docs := rerankDocs(3)

	out := s.Rerank(context.Background(), "q", docs, 2)

	require.Len(t, out, 2)
	assert.Equal(t, docs[2].ID, out[0].ID)
	assert.Equal(t, 0.99, out[0].Score)
	require.NotNil(t, out[0].OriginalScore)
	assert.InDelta(t, docs[2].Score, *out[0].OriginalScore, 1e-9)
	assert.Equal(t, docs[1].ID, out[1].ID)
}

func TestRerankService_TransportErrorFallsBack(t *testing.T) {
	s := NewRerankService("key", "http://127.0.0.1:1", 100*time.Millisecond, zap.NewNop())
	docs := rerankDocs(3)

	out := s.Rerank(context.Background(), "q", docs, 2)

	require.Len(t, out, 2)
	assert.Equal(t, docs[0].ID, out[0].ID)
	assert.Equal(t, docs[1].ID, out[1].ID)
}

func TestRerankService_Non200FallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewRerankService("key", srv.URL, time.Second, zap.NewNop())
	docs := rerankDocs(2)

	out := s.Rerank(context.Background(), "q", docs, 2)
	assert.Equal(t, docs[0].ID, out[0].ID)
}

func TestRerankService_EmptyResultsFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	s := NewRerankService("key", srv.URL, time.Second, zap.NewNop())
	docs := rerankDocs(3)

	out := s.Rerank(context.Background(), "q", docs, 3)
	require.Len(t, out, 3)
	for i := range out {
		assert.Equal(t, docs[i].ID, out[i].ID)
	}
}

func TestRerankService_OutOfRangeIndicesIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 7, "relevance_score": 0.9},
				{"index": 1, "relevance_score": 0.8},
			},
		})
	}))
	defer srv.Close()

	s := NewRerankService("key", srv.URL, time.Second, zap.NewNop())
	docs := rerankDocs(2)

	out := s.Rerank(context.Background(), "q", docs, 2)
	require.Len(t, out, 1)
	assert.Equal(t, docs[1].ID, out[0].ID)
}
