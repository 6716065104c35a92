package handler

import (
	"context"
	"net/http"

	"go-auth-service/internal/model"
)

type statsSource interface {
	Snapshot(ctx context.Context) (model.Stats, error)
}

type StatsHandler struct {
	stats statsSource
}

func NewStatsHandler(stats statsSource) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.stats.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, snapshot, nil)
}
