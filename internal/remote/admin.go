package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
)

// ListAdmins GET /api/admin/list
func (c *Client) ListAdmins(ctx context.Context, token string) ([]*domain.Admin, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/admin/list", token, nil, nil, &raw); err != nil {
		return nil, err
	}
	var admins []*domain.Admin
	if _, err := decodeList(raw, &admins); err != nil {
		return nil, fmt.Errorf("%w: admin list: %v", common.ErrTransport, err)
	}
	return admins, nil
}

// GetAdminByUsername GET /api/admin/by-username/{username}
func (c *Client) GetAdminByUsername(ctx context.Context, token, username string) (*domain.Admin, error) {
	var admin domain.Admin
	path := "/api/admin/by-username/" + url.PathEscape(username)
	if err := c.do(ctx, http.MethodGet, path, token, nil, nil, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin POST /api/admin/create
func (c *Client) CreateAdmin(ctx context.Context, token string, req *domain.CreateAdminRequest) (*domain.Admin, error) {
	var admin domain.Admin
	if err := c.do(ctx, http.MethodPost, "/api/admin/create", token, nil, req, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateAdmin PUT /api/admin/{id}
func (c *Client) UpdateAdmin(ctx context.Context, token, id string, req *domain.UpdateAdminRequest) (*domain.Admin, error) {
	var admin domain.Admin
	if err := c.do(ctx, http.MethodPut, "/api/admin/"+url.PathEscape(id), token, nil, req, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// DeleteAdmin DELETE /api/admin/{id}
func (c *Client) DeleteAdmin(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/"+url.PathEscape(id), token, nil, nil, nil)
}

// ChangeAdminPassword PUT /api/admin/{id}/change-password
func (c *Client) ChangeAdminPassword(ctx context.Context, token, id string, req *domain.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/api/admin/"+url.PathEscape(id)+"/change-password", token, nil, req, nil)
}
