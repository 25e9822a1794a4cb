package handler

import (
	"io"
	"net/http"

	"github.com/go-api-filestore/internal/application/user"
	"github.com/go-api-filestore/internal/domain"
	"github.com/go-api-filestore/internal/pkg/jsonx"
	"github.com/go-api-filestore/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	body, _ := io.ReadAll(r.Body)
	jsonx.Parse(body, &req)
	if err := h.svc.Register(r.Context(), req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "user created"})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	u, err := h.svc.Fetch(r.Context(), phone, middleware.TokenFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSafeUser(u))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	var req domain.UpdateUserRequest
	body, _ := io.ReadAll(r.Body)
	jsonx.Parse(body, &req)
	if err := h.svc.Update(r.Context(), phone, req, middleware.TokenFromContext(r.Context())); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user updated"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if err := h.svc.Delete(r.Context(), phone, middleware.TokenFromContext(r.Context())); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user deleted"})
}
