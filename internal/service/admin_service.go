package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/logger"
)

// AdminAPI remote admin account endpoints
type AdminAPI interface {
	ListAdmins(ctx context.Context, token string) ([]*domain.Admin, error)
	GetAdminByUsername(ctx context.Context, token, username string) (*domain.Admin, error)
	CreateAdmin(ctx context.Context, token string, req *domain.CreateAdminRequest) (*domain.Admin, error)
	UpdateAdmin(ctx context.Context, token, id string, req *domain.UpdateAdminRequest) (*domain.Admin, error)
	DeleteAdmin(ctx context.Context, token, id string) error
	ChangeAdminPassword(ctx context.Context, token, id string, req *domain.ChangePasswordRequest) error
}

// AdminService admin account management
type AdminService interface {
	List(ctx context.Context, s *domain.Session) ([]*domain.Admin, error)
	Count(ctx context.Context, s *domain.Session) (int, error)
	GetByUsername(ctx context.Context, s *domain.Session, username string) (*domain.Admin, error)
	Create(ctx context.Context, s *domain.Session, req *domain.CreateAdminRequest) (*domain.Admin, error)
	Update(ctx context.Context, s *domain.Session, id string, req *domain.UpdateAdminRequest) (*domain.Admin, error)
	Delete(ctx context.Context, s *domain.Session, id string) error
	ChangePassword(ctx context.Context, s *domain.Session, id string, req *domain.ChangePasswordRequest) error
}

type adminService struct {
	api AdminAPI
}

// NewAdminService creates a new AdminService
func NewAdminService(api AdminAPI) AdminService {
	return &adminService{api: api}
}

func (s *adminService) List(ctx context.Context, sess *domain.Session) ([]*domain.Admin, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	admins, err := s.api.ListAdmins(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []*domain.Admin{}
	}
	return admins, nil
}

func (s *adminService) Count(ctx context.Context, sess *domain.Session) (int, error) {
	admins, err := s.List(ctx, sess)
	if err != nil {
		return 0, err
	}
	return len(admins), nil
}

func (s *adminService) GetByUsername(ctx context.Context, sess *domain.Session, username string) (*domain.Admin, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" {
		return nil, common.Validationf("username is required")
	}
	return s.api.GetAdminByUsername(ctx, sess.Token, username)
}

// Create checks that the username is free before asking the remote service
func (s *adminService) Create(ctx context.Context, sess *domain.Session, req *domain.CreateAdminRequest) (*domain.Admin, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, common.Validationf("username and password are required")
	}
	if req.Role == "" {
		req.Role = domain.RoleAdmin
	}
	if !req.Role.Valid() {
		return nil, common.Validationf("unknown role %q", req.Role)
	}

	_, err := s.api.GetAdminByUsername(ctx, sess.Token, req.Username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("username %q: %w", req.Username, common.ErrConflict)
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	admin, err := s.api.CreateAdmin(ctx, sess.Token, req)
	if err != nil {
		return nil, err
	}
	logger.WithUsername(sess.Username).Info().
		Str("created", req.Username).
		Str("role", string(req.Role)).
		Msg("admin created")
	return admin, nil
}

func (s *adminService) Update(ctx context.Context, sess *domain.Session, id string, req *domain.UpdateAdminRequest) (*domain.Admin, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	if req.Role != "" && !req.Role.Valid() {
		return nil, common.Validationf("unknown role %q", req.Role)
	}
	return s.api.UpdateAdmin(ctx, sess.Token, id, req)
}

// Delete removes an admin; a super admin cannot delete their own account
func (s *adminService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireSuperAdmin(sess); err != nil {
		return err
	}
	if id == sess.AdminID {
		return common.Validationf("cannot delete your own account")
	}
	if err := s.api.DeleteAdmin(ctx, sess.Token, id); err != nil {
		return err
	}
	logger.WithUsername(sess.Username).Info().Str("admin_id", id).Msg("admin deleted")
	return nil
}

// ChangePassword is allowed for super admins and for the account owner
func (s *adminService) ChangePassword(ctx context.Context, sess *domain.Session, id string, req *domain.ChangePasswordRequest) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if !sess.IsSuperAdmin() && id != sess.AdminID {
		return common.ErrForbidden
	}
	if req.NewPassword == "" {
		return common.Validationf("new password is required")
	}
	return s.api.ChangeAdminPassword(ctx, sess.Token, id, req)
}
