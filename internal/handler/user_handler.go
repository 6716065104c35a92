package handler

import (
	"context"
	"net/http"

	"go-auth-service/internal/model"
)

type userLister interface {
	List(ctx context.Context) ([]model.AuthUser, error)
}

type UserHandler struct {
	users userLister
}

func NewUserHandler(users userLister) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, users, nil)
}
