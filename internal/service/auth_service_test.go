package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/repository"
	"github.com/olagu/console/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("remote-secret"))
	require.NoError(t, err)
	return token
}

// recordingCredentials counts writes to the credential store
type recordingCredentials struct {
	repository.CredentialRepository
	saves int
}

func (r *recordingCredentials) Save(ctx context.Context, sessionID string, cred *domain.StoredCredential, ttl time.Duration) error {
	r.saves++
	return r.CredentialRepository.Save(ctx, sessionID, cred, ttl)
}

func newTestAuthService() (*authService, *mockAuthenticator, *recordingCredentials) {
	auth := new(mockAuthenticator)
	creds := &recordingCredentials{CredentialRepository: repository.NewCredentialRepository(cache.NewMemoryService())}
	svc := NewAuthService(auth, creds, AuthServiceConfig{DefaultTTL: time.Hour, BearerSecret: "remote-secret"}).(*authService)
	svc.now = func() time.Time { return authNow }
	return svc, auth, creds
}

func TestLogin_PersistsCredential(t *testing.T) {
	svc, auth, creds := newTestAuthService()
	ctx := context.Background()
	token := mintToken(t, jwt.MapClaims{
		"id": 1, "username": "root", "role": "super_admin",
		"exp": authNow.Add(2 * time.Hour).Unix(),
	})
	auth.On("Login", "root", "pw").Return(&domain.LoginResult{
		Token: token,
		User:  &domain.Admin{ID: "1", Username: "root", Role: domain.RoleSuperAdmin},
	}, nil)

	sess, err := svc.Login(ctx, "root", "pw")

	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "root", sess.Username)
	assert.True(t, sess.IsSuperAdmin())
	assert.Equal(t, authNow.Add(2*time.Hour).Unix(), sess.ExpiresAt.Unix())

	stored, err := creds.Find(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, token, stored.Token)
}

func TestLogin_IdentityFromServerPayload(t *testing.T) {
	svc, auth, _ := newTestAuthService()
	token := mintToken(t, jwt.MapClaims{
		"id": 9, "username": "token-name", "role": "admin",
		"exp": authNow.Add(time.Hour).Unix(),
	})
	auth.On("Login", "mod", "pw").Return(&domain.LoginResult{
		Token: token,
		User:  &domain.Admin{ID: "2", Username: "mod", Role: domain.RoleAdmin},
	}, nil)

	sess, err := svc.Login(context.Background(), "mod", "pw")
	require.NoError(t, err)
	assert.Equal(t, "mod", sess.Username)
	assert.Equal(t, "2", sess.AdminID)
}

func TestLogin_FailureStoresNothing(t *testing.T) {
	svc, auth, creds := newTestAuthService()
	auth.On("Login", "root", "bad").Return(nil, &common.RemoteError{Kind: common.ErrAuth, Status: 401, Message: "bad password"})

	sess, err := svc.Login(context.Background(), "root", "bad")

	assert.Nil(t, sess)
	assert.ErrorIs(t, err, common.ErrAuth)
	assert.Equal(t, 0, creds.saves)
}

func TestLogin_NoExpiryUsesDefaultTTL(t *testing.T) {
	svc, auth, creds := newTestAuthService()
	ctx := context.Background()
	token := mintToken(t, jwt.MapClaims{"username": "root"})
	auth.On("Login", "root", "pw").Return(&domain.LoginResult{
		Token: token,
		User:  &domain.Admin{ID: "1", Username: "root", Role: domain.RoleSuperAdmin},
	}, nil)

	sess, err := svc.Login(ctx, "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, authNow.Add(time.Hour), sess.ExpiresAt)
	assert.Equal(t, 1, creds.saves)

	// the token has no role or exp; both come from what Login stored
	restored, err := svc.Restore(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", restored.Username)
	assert.Equal(t, "1", restored.AdminID)
	assert.True(t, restored.IsSuperAdmin())
	assert.Equal(t, authNow.Add(time.Hour), restored.ExpiresAt)

	svc.now = func() time.Time { return authNow.Add(2 * time.Hour) }
	_, err = svc.Restore(ctx, sess.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_UnreadableCredentialRejected(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"no username claim", mintToken(t, jwt.MapClaims{"id": 1, "role": "admin", "exp": authNow.Add(time.Hour).Unix()})},
		{"not a jwt", "opaque-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, auth, creds := newTestAuthService()
			auth.On("Login", "root", "pw").Return(&domain.LoginResult{
				Token: tt.token,
				User:  &domain.Admin{ID: "1", Username: "root", Role: domain.RoleAdmin},
			}, nil)

			sess, err := svc.Login(context.Background(), "root", "pw")

			assert.Nil(t, sess)
			assert.ErrorIs(t, err, common.ErrAuth)
			assert.Equal(t, 0, creds.saves)
		})
	}
}

func TestLogin_Timeout(t *testing.T) {
	svc, auth, _ := newTestAuthService()
	auth.On("Login", "root", "pw").Return(nil, &common.RemoteError{Kind: common.ErrTimeout})

	_, err := svc.Login(context.Background(), "root", "pw")
	assert.ErrorIs(t, err, common.ErrTimeout)
	assert.NotErrorIs(t, err, common.ErrAuth)
}

func TestLogin_ExpiredCredentialRejected(t *testing.T) {
	svc, auth, _ := newTestAuthService()
	token := mintToken(t, jwt.MapClaims{
		"id": 1, "username": "root", "role": "super_admin",
		"exp": authNow.Add(-time.Minute).Unix(),
	})
	auth.On("Login", "root", "pw").Return(&domain.LoginResult{
		Token: token,
		User:  &domain.Admin{ID: "1", Username: "root", Role: domain.RoleSuperAdmin},
	}, nil)

	_, err := svc.Login(context.Background(), "root", "pw")
	assert.ErrorIs(t, err, common.ErrAuth)
}

func TestLogin_RequiresInput(t *testing.T) {
	svc, auth, _ := newTestAuthService()
	_, err := svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, common.ErrValidation)
	auth.AssertNumberOfCalls(t, "Login", 0)
}

func TestRestore(t *testing.T) {
	svc, _, creds := newTestAuthService()
	ctx := context.Background()
	token := mintToken(t, jwt.MapClaims{
		"id": "7", "username": "mod", "role": "admin",
		"exp": authNow.Add(time.Hour).Unix(),
	})
	require.NoError(t, creds.Save(ctx, "sid", &domain.StoredCredential{Token: token}, time.Hour))

	sess, err := svc.Restore(ctx, "sid")

	require.NoError(t, err)
	assert.Equal(t, "sid", sess.ID)
	assert.Equal(t, "7", sess.AdminID)
	assert.Equal(t, "mod", sess.Username)
	assert.Equal(t, domain.RoleAdmin, sess.Role)
	assert.Equal(t, token, sess.Token)
}

func TestRestore_ExpiredIsDiscarded(t *testing.T) {
	svc, _, creds := newTestAuthService()
	ctx := context.Background()
	token := mintToken(t, jwt.MapClaims{
		"id": 1, "username": "root", "role": "super_admin",
		"exp": authNow.Add(-time.Second).Unix(),
	})
	require.NoError(t, creds.Save(ctx, "sid", &domain.StoredCredential{Token: token}, time.Hour))

	_, err := svc.Restore(ctx, "sid")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = creds.Find(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestRestore_GarbageIsDiscarded(t *testing.T) {
	svc, _, creds := newTestAuthService()
	ctx := context.Background()
	require.NoError(t, creds.Save(ctx, "sid", &domain.StoredCredential{Token: "not-a-jwt"}, time.Hour))

	_, err := svc.Restore(ctx, "sid")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = creds.Find(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestRestore_UnknownSession(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, err := svc.Restore(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = svc.Restore(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestFromBearer(t *testing.T) {
	svc, _, _ := newTestAuthService()
	token := mintToken(t, jwt.MapClaims{
		"id": 1, "username": "root", "role": "super_admin",
		"exp": authNow.Add(time.Hour).Unix(),
	})

	sess, err := svc.FromBearer(token)
	require.NoError(t, err)
	assert.True(t, sess.IsSuperAdmin())
	assert.Equal(t, authNow.Add(time.Hour).Unix(), sess.ExpiresAt.Unix())

	_, err = svc.FromBearer("")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestFromBearer_RejectsForgedTokens(t *testing.T) {
	svc, _, _ := newTestAuthService()
	claims := jwt.MapClaims{"username": "attacker", "role": "super_admin", "exp": authNow.Add(time.Hour).Unix()}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("made-up-key"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, token := range []string{forged, unsigned} {
		sess, err := svc.FromBearer(token)
		assert.Nil(t, sess)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	}
}

func TestFromBearer_DisabledWithoutSecret(t *testing.T) {
	svc := NewAuthService(new(mockAuthenticator), repository.NewCredentialRepository(cache.NewMemoryService()), AuthServiceConfig{}).(*authService)
	svc.now = func() time.Time { return authNow }
	token := mintToken(t, jwt.MapClaims{"username": "root", "role": "super_admin", "exp": authNow.Add(time.Hour).Unix()})

	_, err := svc.FromBearer(token)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogout_Idempotent(t *testing.T) {
	svc, _, creds := newTestAuthService()
	ctx := context.Background()
	require.NoError(t, creds.Save(ctx, "sid", &domain.StoredCredential{Token: "t"}, time.Hour))

	require.NoError(t, svc.Logout(ctx, "sid"))
	require.NoError(t, svc.Logout(ctx, "sid"))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err := creds.Find(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}
