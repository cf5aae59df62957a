package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/Harshitk-cp/sibyl/internal/service"
	"github.com/google/uuid"
)

type AnswerHandler struct {
	svc *service.AnswerService
}

func NewAnswerHandler(svc *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{svc: svc}
}

type answerRequest struct {
	Query     string `json:"query"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Partition string `json:"partition,omitempty"`
	Tier      string `json:"tier,omitempty"`
	Stream    bool   `json:"stream,omitempty"`
}

func (r answerRequest) toQuery() (domain.Query, error) {
	q := domain.Query{
		Text:              r.Query,
		PartitionOverride: r.Partition,
		Tier:              r.Tier,
	}
	if r.Partition != "" && !domain.ValidPartition(r.Partition) {
		return q, fmt.Errorf("unknown partition %q", r.Partition)
	}
	if r.UserID != "" {
		id, err := uuid.Parse(r.UserID)
		if err != nil {
			return q, errors.New("invalid user_id")
		}
		q.UserID = &id
	}
	if r.SessionID != "" {
		id, err := uuid.Parse(r.SessionID)
		if err != nil {
			return q, errors.New("invalid session_id")
		}
		q.SessionID = &id
	}
	return q, nil
}

func (h *AnswerHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := req.toQuery()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Stream {
		h.stream(w, r, q)
		return
	}

	result, err := h.svc.Answer(r.Context(), q)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to answer query")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// stream emits the answer as server-sent events: chunk events with the
// answer text, then one result event with the full payload.
func (h *AnswerHandler) stream(w http.ResponseWriter, r *http.Request, q domain.Query) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	result, err := h.svc.AnswerStream(r.Context(), q, func(chunk string) error {
		payload, merr := json.Marshal(map[string]string{"text": chunk})
		if merr != nil {
			return merr
		}
		if _, werr := fmt.Fprintf(w, "event: chunk\ndata: %s\n\n", payload); werr != nil {
			return werr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		// Mid-stream failures cannot change the status line; the missing
		// result event tells the client the stream was cut short.
		return
	}

	payload, merr := json.Marshal(result)
	if merr != nil {
		return
	}
	fmt.Fprintf(w, "event: result\ndata: %s\n\n", payload)
	flusher.Flush()
}
