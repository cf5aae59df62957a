package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultRerankTimeout = 5 * time.Second
	rerankModel          = "rerank-v3.5"
)

// RerankService re-scores candidates against the query with an external
// relevance model. Every failure path falls back to the original order;
// re-ranking never fails the caller.
type RerankService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewRerankService(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *RerankService {
	if timeout <= 0 {
		timeout = DefaultRerankTimeout
	}
	return &RerankService{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Enabled reports whether a credential is configured.
func (s *RerankService) Enabled() bool {
	return s.apiKey != ""
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank returns up to topK documents, rescored and sorted descending by
// the external relevance score. The prior score survives under
// OriginalScore. Disabled, empty input, or any transport/shape failure
// returns the first topK unchanged.
func (s *RerankService) Rerank(ctx context.Context, queryText string, docs []domain.RetrievedDocument, topK int) []domain.RetrievedDocument {
	if topK <= 0 || topK > len(docs) {
		topK = len(docs)
	}

	if !s.Enabled() || len(docs) == 0 {
		return docs[:topK]
	}

	results, err := s.call(ctx, queryText, docs, topK)
	if err != nil {
		s.logger.Warn("rerank failed, keeping original order", zap.Error(err))
		return docs[:topK]
	}
	if len(results) == 0 {
		s.logger.Warn("rerank returned no results, keeping original order")
		return docs[:topK]
	}

	reranked := make([]domain.RetrievedDocument, 0, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(docs) {
			continue
		}
		doc := docs[r.Index]
		prior := doc.Score
		doc.OriginalScore = &prior
		doc.Score = r.RelevanceScore
		reranked = append(reranked, doc)
	}
	if len(reranked) == 0 {
		return docs[:topK]
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})

	if len(reranked) > topK {
		reranked = reranked[:topK]
	}
	return reranked
}

func (s *RerankService) call(ctx context.Context, queryText string, docs []domain.RetrievedDocument, topK int) ([]struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	body, err := json.Marshal(rerankRequest{
		Query:     queryText,
		Documents: texts,
		Model:     rerankModel,
		TopN:      topK,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v2/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rerank API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}

	return result.Results, nil
}
