package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRestorer struct {
	sessions map[string]*domain.Session
	bearer   map[string]*domain.Session
}

func (s *stubRestorer) Restore(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, common.ErrUnauthorized
}

func (s *stubRestorer) FromBearer(token string) (*domain.Session, error) {
	if sess, ok := s.bearer[token]; ok {
		return sess, nil
	}
	return nil, common.ErrUnauthorized
}

var testSessionCfg = SessionConfig{CookieName: "olagu_session", LoginURL: "/admin/login"}

func newSessionRouter(r *stubRestorer, gates ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(LoadSession(r, testSessionCfg))
	engine.Use(gates...)
	engine.GET("/test", func(c *gin.Context) {
		name := ""
		if s := GetSession(c); s != nil {
			name = s.Username
		}
		c.JSON(http.StatusOK, gin.H{"username": name})
	})
	return engine
}

func restorer() *stubRestorer {
	return &stubRestorer{
		sessions: map[string]*domain.Session{
			"sid-admin": {ID: "sid-admin", Username: "mei", Role: domain.RoleAdmin},
			"sid-super": {ID: "sid-super", Username: "root", Role: domain.RoleSuperAdmin},
		},
		bearer: map[string]*domain.Session{
			"tok": {Username: "api", Role: domain.RoleAdmin},
		},
	}
}

func TestLoadSession_Cookie(t *testing.T) {
	r := newSessionRouter(restorer())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: "olagu_session", Value: "sid-admin"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mei"`)
}

func TestLoadSession_StaleCookieCleared(t *testing.T) {
	r := newSessionRouter(restorer())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: "olagu_session", Value: "gone"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "olagu_session=;")
	assert.Contains(t, w.Body.String(), `"username":""`)
}

func TestLoadSession_BearerFallback(t *testing.T) {
	r := newSessionRouter(restorer())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"api"`)
}

func TestRequireSession(t *testing.T) {
	r := newSessionRouter(restorer(), RequireSession("/admin/login"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body common.V2Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, common.CodeLoginRequired, body.Error.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"login_url":"/admin/login"`))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: "olagu_session", Value: "sid-admin"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSuperAdmin(t *testing.T) {
	r := newSessionRouter(restorer(), RequireSuperAdmin())

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"admin", "sid-admin", http.StatusForbidden},
		{"super admin", "sid-super", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "olagu_session", Value: tt.cookie})
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRequestLogger_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "abc123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 8)
}
