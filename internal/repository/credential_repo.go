package repository

import (
	"context"
	"errors"
	"time"

	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/cache"
)

// ErrCredentialNotFound no credential is stored under the session id
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository persists remote bearer tokens per console session
type CredentialRepository interface {
	Save(ctx context.Context, sessionID string, cred *domain.StoredCredential, ttl time.Duration) error
	Find(ctx context.Context, sessionID string) (*domain.StoredCredential, error)
	Delete(ctx context.Context, sessionID string) error
}

type credentialRepository struct {
	cache cache.Service
}

// NewCredentialRepository creates a CredentialRepository on top of the cache
func NewCredentialRepository(c cache.Service) CredentialRepository {
	return &credentialRepository{cache: c}
}

func (r *credentialRepository) Save(ctx context.Context, sessionID string, cred *domain.StoredCredential, ttl time.Duration) error {
	return r.cache.SetSession(ctx, sessionID, cred, ttl)
}

func (r *credentialRepository) Find(ctx context.Context, sessionID string) (*domain.StoredCredential, error) {
	var cred domain.StoredCredential
	err := r.cache.GetSession(ctx, sessionID, &cred)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) Delete(ctx context.Context, sessionID string) error {
	return r.cache.DeleteSession(ctx, sessionID)
}
