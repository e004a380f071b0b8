package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/repository"
	pkgjwt "github.com/olagu/console/pkg/jwt"
	"github.com/olagu/console/pkg/logger"
)

// Authenticator verifies admin credentials against the remote service
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
}

// AuthService admin login, session restore and logout
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Restore(ctx context.Context, sessionID string) (*domain.Session, error)
	FromBearer(token string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthServiceConfig session lifetime and bearer verification settings
type AuthServiceConfig struct {
	// DefaultTTL applies to credentials issued without an exp claim
	DefaultTTL   time.Duration
	// BearerSecret is the remote service's HMAC signing key. Bearer tokens are
	// refused when it is empty.
	BearerSecret string
}

type authService struct {
	auth         Authenticator
	creds        repository.CredentialRepository
	defaultTTL   time.Duration
	bearerSecret []byte
	now          func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(auth Authenticator, creds repository.CredentialRepository, cfg AuthServiceConfig) AuthService {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 24 * time.Hour
	}
	return &authService{
		auth:         auth,
		creds:        creds,
		defaultTTL:   cfg.DefaultTTL,
		bearerSecret: []byte(cfg.BearerSecret),
		now:          time.Now,
	}
}

// Login authenticates remotely and persists the returned credential under a new
// session id. The identity comes from the server's user payload. Nothing is
// stored on failure.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.Validationf("username and password are required")
	}

	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Str("username", username).Msg("login failed")
		return nil, err
	}

	now := s.now()
	claims, err := pkgjwt.DecodeAt(res.Token, now)
	switch {
	case errors.Is(err, pkgjwt.ErrExpiredToken):
		return nil, &common.RemoteError{Kind: common.ErrAuth, Message: "issued credential is already expired"}
	case err != nil:
		logger.GetLogger().Warn().Err(err).Str("username", username).Msg("login returned an unreadable credential")
		return nil, &common.RemoteError{Kind: common.ErrAuth, Message: "issued credential is unreadable"}
	}
	expiresAt := now.Add(s.defaultTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	sess := &domain.Session{
		ID:        uuid.NewString(),
		AdminID:   res.User.ID.String(),
		Username:  res.User.Username,
		Role:      res.User.Role,
		ExpiresAt: expiresAt,
		Token:     res.Token,
	}
	cred := &domain.StoredCredential{
		Token:     res.Token,
		AdminID:   sess.AdminID,
		Username:  sess.Username,
		Role:      sess.Role,
		ExpiresAt: expiresAt,
	}
	if err := s.creds.Save(ctx, sess.ID, cred, expiresAt.Sub(now)); err != nil {
		return nil, err
	}

	logger.WithUsername(sess.Username).Info().Str("role", string(sess.Role)).Msg("admin logged in")
	return sess, nil
}

// Restore rebuilds the identity for a session id by decoding its stored
// credential. Fields the token lacks come from what Login stored. An expired or
// undecodable credential is discarded.
func (s *authService) Restore(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, common.ErrUnauthorized
	}
	cred, err := s.creds.Find(ctx, sessionID)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	claims, err := pkgjwt.DecodeAt(cred.Token, now)
	if err != nil {
		s.discard(ctx, sessionID)
		return nil, common.ErrUnauthorized
	}

	sess := sessionFromClaims(claims, cred.Token)
	sess.ID = sessionID
	if sess.AdminID == "" {
		sess.AdminID = cred.AdminID
	}
	if sess.Role == "" {
		sess.Role = cred.Role
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = cred.ExpiresAt
	}
	if sess.Expired(now) {
		s.discard(ctx, sessionID)
		return nil, common.ErrUnauthorized
	}
	return sess, nil
}

func (s *authService) discard(ctx context.Context, sessionID string) {
	if err := s.creds.Delete(ctx, sessionID); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("failed to discard stale credential")
	}
}

// FromBearer derives an identity from a caller-supplied token. The signature must
// verify against the configured secret.
func (s *authService) FromBearer(token string) (*domain.Session, error) {
	if len(s.bearerSecret) == 0 {
		return nil, common.ErrUnauthorized
	}
	claims, err := pkgjwt.Verify(token, s.bearerSecret, s.now())
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	return sessionFromClaims(claims, token), nil
}

func sessionFromClaims(claims *pkgjwt.Claims, token string) *domain.Session {
	sess := &domain.Session{
		AdminID:  claims.GetID(),
		Username: claims.Username,
		Role:     domain.Role(claims.Role),
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess
}

// Logout discards the stored credential; unknown ids are fine
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.creds.Delete(ctx, sessionID)
}
