package storage

import (
	"context"

	"github.com/go-api-filestore/internal/domain"
)

// TokenRepo provides typed operations for the tokens collection, keyed by id.
type TokenRepo struct {
	store Store
}

func NewTokenRepo(store Store) *TokenRepo {
	return &TokenRepo{store: store}
}

func (r *TokenRepo) Get(ctx context.Context, id string) (*domain.Token, error) {
	var t domain.Token
	if err := r.store.Read(ctx, CollectionTokens, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) Create(ctx context.Context, t *domain.Token) error {
	return r.store.Create(ctx, CollectionTokens, t.ID, t)
}

func (r *TokenRepo) Update(ctx context.Context, t *domain.Token) error {
	return r.store.Update(ctx, CollectionTokens, t.ID, t)
}

func (r *TokenRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionTokens, id)
}
