package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sibyl/internal/registry"
	"github.com/go-chi/chi/v5"
)

type PartitionHandler struct {
	registry *registry.Registry
}

func NewPartitionHandler(reg *registry.Registry) *PartitionHandler {
	return &PartitionHandler{registry: reg}
}

func (h *PartitionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"partitions": h.registry.List()})
}

func (h *PartitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := h.registry.Info(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown partition")
		return
	}
	writeJSON(w, http.StatusOK, info)
}
