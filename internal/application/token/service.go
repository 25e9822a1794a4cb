package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-api-filestore/internal/domain"
	"github.com/go-api-filestore/internal/pkg/creds"
	"github.com/go-api-filestore/internal/pkg/validate"
)

// tokenDuration is the lifetime granted on issue and on each extend.
const tokenDuration = time.Hour

var tokenIDTag = fmt.Sprintf("len=%d,alphanum", domain.TokenIDLength)

type Service interface {
	Issue(ctx context.Context, req domain.CreateTokenRequest) (*domain.Token, error)
	Fetch(ctx context.Context, id string) (*domain.Token, error)
	Extend(ctx context.Context, req domain.ExtendTokenRequest) (*domain.Token, error)
	Revoke(ctx context.Context, id string) error
	Verify(ctx context.Context, id, phone string) bool
}

type tokenStore interface {
	Get(ctx context.Context, id string) (*domain.Token, error)
	Create(ctx context.Context, t *domain.Token) error
	Update(ctx context.Context, t *domain.Token) error
	Delete(ctx context.Context, id string) error
}

type userGetter interface {
	Get(ctx context.Context, phone string) (*domain.User, error)
}

type hasher interface {
	Hash(plaintext string) (string, error)
}

type service struct {
	repo   tokenStore
	users  userGetter
	hasher hasher
}

func NewService(repo tokenStore, users userGetter, hasher hasher) Service {
	return &service{repo: repo, users: users, hasher: hasher}
}

// Issue authenticates phone+password and creates a fresh token record.
// The full token is returned to the caller; it carries no secret.
func (s *service) Issue(ctx context.Context, req domain.CreateTokenRequest) (*domain.Token, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	u, err := s.users.Get(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("could not find the specified user: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	if digest != u.PasswordHash {
		return nil, fmt.Errorf("password does not match the stored password: %w", domain.ErrUnauthorized)
	}
	id, err := creds.RandomString(domain.TokenIDLength)
	if err != nil {
		return nil, err
	}
	t := &domain.Token{
		ID:      id,
		Phone:   req.Phone,
		Expires: time.Now().Add(tokenDuration),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Fetch returns the raw token record. Interpreting the expiry is the
// caller's responsibility.
func (s *service) Fetch(ctx context.Context, id string) (*domain.Token, error) {
	if err := validate.Var(id, "id", tokenIDTag); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	return s.repo.Get(ctx, id)
}

// Extend pushes an unexpired token's expiry another tokenDuration forward.
// An expired token is terminal: it cannot transition back to active.
func (s *service) Extend(ctx context.Context, req domain.ExtendTokenRequest) (*domain.Token, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	t, err := s.repo.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("specified token does not exist: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	if !t.Expires.After(time.Now()) {
		return nil, fmt.Errorf("token has already expired and cannot be extended: %w", domain.ErrExpired)
	}
	t.Expires = time.Now().Add(tokenDuration)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Revoke(ctx context.Context, id string) error {
	if err := validate.Var(id, "id", tokenIDTag); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	return s.repo.Delete(ctx, id)
}

// Verify reports whether the token exists, belongs to phone and has not
// expired. It never errors: any lookup failure reads as false.
func (s *service) Verify(ctx context.Context, id, phone string) bool {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return false
	}
	return t.Phone == phone && t.Expires.After(time.Now())
}
