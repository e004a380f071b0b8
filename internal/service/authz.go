package service

import (
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
)

func requireAdmin(s *domain.Session) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}
	return nil
}

func requireSuperAdmin(s *domain.Session) error {
	if !s.IsAdmin() {
		return common.ErrUnauthorized
	}
	if !s.IsSuperAdmin() {
		return common.ErrForbidden
	}
	return nil
}
