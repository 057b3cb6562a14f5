// Package stores manages the outlets that own store-scoped catalogs.
package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/logger"
)

// Repository persists stores
type Repository interface {
	List(ctx context.Context) ([]domain.Store, error)
	// Get returns domain.ErrStoreNotFound for unknown ids
	Get(ctx context.Context, id string) (*domain.Store, error)
	Upsert(ctx context.Context, s domain.Store) error
	// Delete reports whether a row was removed
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// SaveInput is the payload of a store upsert.
// A nil Password keeps the current one, an empty one removes it.
type SaveInput struct {
	ID       string  `json:"id" validate:"required,max=64"`
	Name     string  `json:"name" validate:"required,max=120"`
	Password *string `json:"password,omitempty" validate:"omitempty,max=72"`
}

// Service manages stores and their optional access passwords
type Service struct {
	repo Repository
	cost int
}

// NewService creates a store service hashing passwords with bcrypt at cost
func NewService(repo Repository, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost}
}

// List returns every store ordered by name
func (s *Service) List(ctx context.Context) ([]domain.Store, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	if list == nil {
		list = []domain.Store{}
	}
	return list, nil
}

// Save creates or replaces a store
func (s *Service) Save(ctx context.Context, in SaveInput) (*domain.Store, error) {
	id, name := strings.TrimSpace(in.ID), strings.TrimSpace(in.Name)
	if id == "" || name == "" {
		return nil, fmt.Errorf("%w: id and name are required", domain.ErrInvalidStore)
	}

	store := domain.Store{ID: id, Name: name}

	switch {
	case in.Password == nil:
		existing, err := s.repo.Get(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrStoreNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
		}
		if existing != nil {
			store.PasswordHash = existing.PasswordHash
		}
	case *in.Password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStore, err)
		}
		store.PasswordHash = string(hash)
	}
	store.HasPassword = store.PasswordHash != ""

	if err := s.repo.Upsert(ctx, store); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}

	logger.FromContext(ctx).Info(LogMsgStoreSaved, "store_id", id, "has_password", store.HasPassword)
	return &store, nil
}

// Delete removes a store. Its catalog row is left in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	if !deleted {
		return domain.ErrStoreNotFound
	}
	logger.FromContext(ctx).Info(LogMsgStoreDeleted, "store_id", id)
	return nil
}

// Verify checks password against the store's hash.
// Stores without a password accept anything.
func (s *Service) Verify(ctx context.Context, id, password string) error {
	store, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	if store.PasswordHash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(store.PasswordHash), []byte(password)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgVerifyFailed, "store_id", id)
		return domain.ErrInvalidCredentials
	}
	return nil
}

// EnsureDefault creates the default store when no store exists.
// It reports whether the store was created.
func (s *Service) EnsureDefault(ctx context.Context, id, name string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.repo.Upsert(ctx, domain.Store{ID: id, Name: name}); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrDatabaseError, err)
	}
	logger.FromContext(ctx).Info(LogMsgDefaultStoreCreated, "store_id", id, "name", name)
	return true, nil
}
