package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go-auth-service/internal/model"
)

type auditSource interface {
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

type AuditHandler struct {
	audit auditSource
}

func NewAuditHandler(audit auditSource) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := model.AuditQuery{
		Action: strings.TrimSpace(q.Get("action")),
		UserID: strings.TrimSpace(q.Get("user_id")),
		Status: strings.TrimSpace(q.Get("status")),
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
	}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.Limit, _ = strconv.Atoi(q.Get("limit"))

	entries, meta, err := h.audit.Query(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, entries, &meta)
}
