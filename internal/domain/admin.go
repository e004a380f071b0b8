package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// FlexID is an identifier the remote service may send as a number or a string
type FlexID string

// UnmarshalJSON accepts 12, "12" and null
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexID(strings.TrimSpace(n.String()))
	return nil
}

// String returns the id as sent on the wire
func (id FlexID) String() string {
	return string(id)
}

// Role is an admin's authorization level
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Admin is an administrator account owned by the remote service
type Admin struct {
	ID        FlexID     `json:"id"`
	Username  string     `json:"username"`
	Role      Role       `json:"role"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// CreateAdminRequest super admin creates a new admin
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     Role   `json:"role" binding:"required"`
}

// UpdateAdminRequest role/email change
type UpdateAdminRequest struct {
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Role  Role   `json:"role,omitempty"`
}

// ChangePasswordRequest password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// LoginRequest admin login form
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is what the remote auth service returns on success
type LoginResult struct {
	Token string `json:"token"`
	User  *Admin `json:"user"`
}
