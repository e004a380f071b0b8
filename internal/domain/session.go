package domain

import "time"

// Session is the identity of a logged-in admin. It is passed explicitly to every
// workflow operation that needs authorization.
type Session struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"admin_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"-"`
}

// IsAdmin reports whether s is a usable admin identity
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role.Valid()
}

// IsSuperAdmin reports whether s may manage other admins
func (s *Session) IsSuperAdmin() bool {
	return s != nil && s.Role == RoleSuperAdmin
}

// Expired reports whether the session's credential is past its expiry
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// StoredCredential is what the credential store keeps per session id
type StoredCredential struct {
	Token     string    `json:"token"`
	AdminID   string    `json:"admin_id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MeResponse current identity
type MeResponse struct {
	AdminID      string    `json:"admin_id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	ExpiresAt    time.Time `json:"expires_at"`
}
