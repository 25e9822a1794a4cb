package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-api-filestore/internal/domain"
	"github.com/go-api-filestore/internal/pkg/validate"
)

const phoneTag = "required,len=10,number"

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) error
	Fetch(ctx context.Context, phone, tokenID string) (*domain.User, error)
	Update(ctx context.Context, phone string, req domain.UpdateUserRequest, tokenID string) error
	Delete(ctx context.Context, phone, tokenID string) error
}

type userStore interface {
	Get(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, phone string) error
}

type tokenVerifier interface {
	Verify(ctx context.Context, tokenID, phone string) bool
}

type hasher interface {
	Hash(plaintext string) (string, error)
}

type service struct {
	repo   userStore
	tokens tokenVerifier
	hasher hasher
}

func NewService(repo userStore, tokens tokenVerifier, hasher hasher) Service {
	return &service{repo: repo, tokens: tokens, hasher: hasher}
}

// Register creates a user keyed by phone. tosAgreement is stored as true;
// validation already rejected anything else.
func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if _, err := s.repo.Get(ctx, req.Phone); err == nil {
		return fmt.Errorf("a user with phone %s already exists: %w", req.Phone, domain.ErrConflict)
	}
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}
	u := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: digest,
		TOSAgreement: true,
	}
	// The pre-check above is advisory; the store's exclusive create decides
	// the race between two registrations of the same phone.
	return s.repo.Create(ctx, u)
}

// Fetch returns the user with the password digest stripped. The caller must
// hold a token that verifies for the target phone.
func (s *service) Fetch(ctx context.Context, phone, tokenID string) (*domain.User, error) {
	if err := validate.Var(phone, "phone", phoneTag); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if !s.tokens.Verify(ctx, tokenID, phone) {
		return nil, fmt.Errorf("missing or invalid token for phone %s: %w", phone, domain.ErrForbidden)
	}
	u, err := s.repo.Get(ctx, phone)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// Update merges the supplied fields into the stored record and writes it
// back wholesale. Concurrent updates to the same phone are last-writer-wins.
func (s *service) Update(ctx context.Context, phone string, req domain.UpdateUserRequest, tokenID string) error {
	if err := validate.Var(phone, "phone", phoneTag); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if req.FirstName == nil && req.LastName == nil && req.Password == nil {
		return fmt.Errorf("at least one of firstName, lastName or password is required: %w", domain.ErrBadRequest)
	}
	if !s.tokens.Verify(ctx, tokenID, phone) {
		return fmt.Errorf("missing or invalid token for phone %s: %w", phone, domain.ErrForbidden)
	}
	u, err := s.repo.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("specified user does not exist: %w", domain.ErrBadRequest)
		}
		return err
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = digest
	}
	return s.repo.Update(ctx, u)
}

// Delete removes the user record. Outstanding tokens for the phone are left
// in place; they verify until expiry but every protected operation re-reads
// the user and comes back empty.
func (s *service) Delete(ctx context.Context, phone, tokenID string) error {
	if err := validate.Var(phone, "phone", phoneTag); err != nil {
		return fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if !s.tokens.Verify(ctx, tokenID, phone) {
		return fmt.Errorf("missing or invalid token for phone %s: %w", phone, domain.ErrForbidden)
	}
	if _, err := s.repo.Get(ctx, phone); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("could not find the specified user: %w", domain.ErrBadRequest)
		}
		return err
	}
	return s.repo.Delete(ctx, phone)
}
