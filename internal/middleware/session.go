package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/logger"
)

const sessionKey = "session"

// SessionRestorer resolves the caller's identity
type SessionRestorer interface {
	Restore(ctx context.Context, sessionID string) (*domain.Session, error)
	FromBearer(token string) (*domain.Session, error)
}

// SessionConfig cookie and redirect settings for admin routes
type SessionConfig struct {
	CookieName string
	Secure     bool
	LoginURL   string
}

// LoadSession resolves the session from the session cookie, falling back to an
// Authorization: Bearer header. It never aborts; gates decide what to do with a
// missing identity.
func LoadSession(restorer SessionRestorer, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid, err := c.Cookie(cfg.CookieName); err == nil && sid != "" {
			sess, err := restorer.Restore(c.Request.Context(), sid)
			switch {
			case err == nil:
				c.Set(sessionKey, sess)
				c.Next()
				return
			case errors.Is(err, common.ErrUnauthorized):
				ClearSessionCookie(c, cfg)
			default:
				logger.GetLogger().Error().Err(err).Msg("session restore failed")
			}
		}

		if token := bearerToken(c); token != "" {
			if sess, err := restorer.FromBearer(token); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// SetSessionCookie issues the session cookie
func SetSessionCookie(c *gin.Context, cfg SessionConfig, sessionID string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, sessionID, maxAge, "/", "", cfg.Secure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context, cfg SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}

// GetSession returns the identity resolved by LoadSession, or nil
func GetSession(c *gin.Context) *domain.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*domain.Session); ok {
			return s
		}
	}
	return nil
}

// SessionID returns the cookie session id of the current identity, if any
func SessionID(c *gin.Context) string {
	if s := GetSession(c); s != nil {
		return s.ID
	}
	return ""
}

// RequireSession rejects requests without an admin identity. The response tells
// the console where to send the user to log in.
func RequireSession(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAdmin() {
			common.V2ErrorResponse(c, http.StatusUnauthorized, common.ErrUnauthorized.Error(),
				gin.H{"login_url": loginURL})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin rejects anyone but super admins with 403
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if !sess.IsAdmin() {
			common.V2ErrorResponse(c, http.StatusUnauthorized, common.ErrUnauthorized.Error(), nil)
			c.Abort()
			return
		}
		if !sess.IsSuperAdmin() {
			common.V2ErrorResponse(c, http.StatusForbidden, "super admin only", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
