package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("remote-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeAt_Valid(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	token := sign(t, jwt.MapClaims{
		"id":       7,
		"username": "alice",
		"role":     "super_admin",
		"exp":      now.Add(time.Hour).Unix(),
	})

	claims, err := DecodeAt(token, now)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.GetID())
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "super_admin", claims.Role)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestDecodeAt_StringID(t *testing.T) {
	now := time.Now()
	token := sign(t, jwt.MapClaims{
		"id": "a1b2", "username": "bob", "role": "admin", "exp": now.Add(time.Minute).Unix(),
	})

	claims, err := DecodeAt(token, now)
	require.NoError(t, err)
	assert.Equal(t, "a1b2", claims.GetID())
}

func TestDecodeAt_Expired(t *testing.T) {
	now := time.Now()
	token := sign(t, jwt.MapClaims{
		"id": 1, "username": "alice", "role": "admin", "exp": now.Add(-time.Second).Unix(),
	})

	_, err := DecodeAt(token, now)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestDecodeAt_MissingExpiry(t *testing.T) {
	token := sign(t, jwt.MapClaims{"id": 1, "username": "alice", "role": "admin"})

	claims, err := DecodeAt(token, time.Now())
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.Equal(t, "alice", claims.Username)
}

func TestDecodeAt_Garbage(t *testing.T) {
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := DecodeAt(token, time.Now())
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestDecodeAt_MissingUsername(t *testing.T) {
	token := sign(t, jwt.MapClaims{"id": 1, "role": "admin", "exp": time.Now().Add(time.Hour).Unix()})

	_, err := DecodeAt(token, time.Now())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	secret := []byte("remote-secret")

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "attacker", "role": "super_admin", "exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("made-up-key"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"username": "attacker", "role": "super_admin", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  []byte
		wantErr error
	}{
		{
			name:  "signed with the shared key",
			token: sign(t, jwt.MapClaims{"id": 3, "username": "alice", "role": "admin", "exp": now.Add(time.Hour).Unix()}),
		},
		{name: "signed with another key", token: forged, wantErr: ErrInvalidToken},
		{name: "unsigned", token: unsigned, wantErr: ErrInvalidToken},
		{
			name:    "expired",
			token:   sign(t, jwt.MapClaims{"username": "alice", "exp": now.Add(-time.Minute).Unix()}),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "no exp",
			token:   sign(t, jwt.MapClaims{"username": "alice", "role": "admin"}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "no username",
			token:   sign(t, jwt.MapClaims{"role": "admin", "exp": now.Add(time.Hour).Unix()}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "no secret configured",
			token:   sign(t, jwt.MapClaims{"username": "alice", "exp": now.Add(time.Hour).Unix()}),
			secret:  []byte{},
			wantErr: ErrInvalidToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := secret
			if tt.secret != nil {
				key = tt.secret
			}
			claims, err := Verify(tt.token, key, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, "3", claims.GetID())
		})
	}
}
