package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/Harshitk-cp/sibyl/internal/service"
)

type GoldenHandler struct {
	svc      *service.GoldenService
	store    domain.GoldenStore
	embedder domain.EmbeddingClient
}

func NewGoldenHandler(svc *service.GoldenService, store domain.GoldenStore, embedder domain.EmbeddingClient) *GoldenHandler {
	return &GoldenHandler{svc: svc, store: store, embedder: embedder}
}

type createGoldenRequest struct {
	CanonicalQuery string   `json:"canonical_query"`
	AnswerText     string   `json:"answer_text"`
	SourceDocIDs   []string `json:"source_document_ids,omitempty"`
}

// Create registers a curated record and reloads the in-memory index so the
// record is matchable immediately.
func (h *GoldenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoldenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CanonicalQuery = strings.TrimSpace(req.CanonicalQuery)
	if req.CanonicalQuery == "" || strings.TrimSpace(req.AnswerText) == "" {
		writeError(w, http.StatusBadRequest, "canonical_query and answer_text are required")
		return
	}

	if h.embedder == nil {
		writeError(w, http.StatusServiceUnavailable, "no embedding provider configured")
		return
	}
	embedding, err := h.embedder.Embed(r.Context(), req.CanonicalQuery)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to embed canonical query")
		return
	}

	rec := &domain.GoldenRecord{
		CanonicalQuery: req.CanonicalQuery,
		Embedding:      embedding,
		AnswerText:     req.AnswerText,
		SourceDocIDs:   req.SourceDocIDs,
	}
	if err := h.store.Create(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create golden record")
		return
	}

	if err := h.svc.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "record created but index reload failed")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// Reload refreshes the in-memory index from the store.
func (h *GoldenHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload golden records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": h.svc.Size()})
}
