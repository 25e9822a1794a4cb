package handler

import (
	"io"
	"net/http"

	"github.com/go-api-filestore/internal/application/token"
	"github.com/go-api-filestore/internal/domain"
	"github.com/go-api-filestore/internal/pkg/jsonx"
	"github.com/go-chi/chi/v5"
)

// TokenHandler handles token lifecycle endpoints.
type TokenHandler struct {
	svc token.Service
}

func NewTokenHandler(svc token.Service) *TokenHandler { return &TokenHandler{svc: svc} }

// Create issues a token against phone+password. The token is returned in
// full; it is the one record type with no secret in it.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTokenRequest
	body, _ := io.ReadAll(r.Body)
	jsonx.Parse(body, &req)
	t, err := h.svc.Issue(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TokenHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Fetch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TokenHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req domain.ExtendTokenRequest
	body, _ := io.ReadAll(r.Body)
	jsonx.Parse(body, &req)
	req.ID = chi.URLParam(r, "id")
	t, err := h.svc.Extend(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Revoke(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "token revoked"})
}
