package storage

import (
	"context"

	"github.com/go-api-filestore/internal/domain"
)

// UserRepo provides typed operations for the users collection, keyed by phone.
type UserRepo struct {
	store Store
}

func NewUserRepo(store Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Get(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	if err := r.store.Read(ctx, CollectionUsers, phone, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.store.Create(ctx, CollectionUsers, u.Phone, u)
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.store.Update(ctx, CollectionUsers, u.Phone, u)
}

func (r *UserRepo) Delete(ctx context.Context, phone string) error {
	return r.store.Delete(ctx, CollectionUsers, phone)
}
