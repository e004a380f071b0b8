package service

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"
	"time"

	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/logger"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// --- sessions ---

func adminSession() *domain.Session {
	return &domain.Session{ID: "s1", AdminID: "2", Username: "mod", Role: domain.RoleAdmin, Token: "admin-token"}
}

func superSession() *domain.Session {
	return &domain.Session{ID: "s2", AdminID: "1", Username: "root", Role: domain.RoleSuperAdmin, Token: "super-token"}
}

// --- Mock EligibilityRegistrar ---

type mockRegistrar struct {
	mock.Mock
}

func (m *mockRegistrar) RegisterEligibleAccount(ctx context.Context, token, accountID string) error {
	return m.Called(token, accountID).Error(0)
}

// --- Mock Authenticator ---

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

// --- Mock AdminAPI ---

type mockAdminAPI struct {
	mock.Mock
}

func (m *mockAdminAPI) ListAdmins(ctx context.Context, token string) ([]*domain.Admin, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Admin), args.Error(1)
}

func (m *mockAdminAPI) GetAdminByUsername(ctx context.Context, token, username string) (*domain.Admin, error) {
	args := m.Called(token, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *mockAdminAPI) CreateAdmin(ctx context.Context, token string, req *domain.CreateAdminRequest) (*domain.Admin, error) {
	args := m.Called(token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *mockAdminAPI) UpdateAdmin(ctx context.Context, token, id string, req *domain.UpdateAdminRequest) (*domain.Admin, error) {
	args := m.Called(token, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *mockAdminAPI) DeleteAdmin(ctx context.Context, token, id string) error {
	return m.Called(token, id).Error(0)
}

func (m *mockAdminAPI) ChangeAdminPassword(ctx context.Context, token, id string, req *domain.ChangePasswordRequest) error {
	return m.Called(token, id, req).Error(0)
}

// --- Mock GiftCodeAPI ---

type mockGiftCodeAPI struct {
	mock.Mock
}

func (m *mockGiftCodeAPI) ListGiftCodes(ctx context.Context, token string, page, pageSize int) ([]*domain.GiftCode, int, error) {
	args := m.Called(token, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.GiftCode), args.Int(1), args.Error(2)
}

func (m *mockGiftCodeAPI) GetGiftCode(ctx context.Context, token, id string) (*domain.GiftCode, error) {
	args := m.Called(token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GiftCode), args.Error(1)
}

func (m *mockGiftCodeAPI) CreateGiftCode(ctx context.Context, token string, g *domain.GiftCode) error {
	return m.Called(token, g).Error(0)
}

func (m *mockGiftCodeAPI) DeleteGiftCode(ctx context.Context, token, id string) error {
	return m.Called(token, id).Error(0)
}

func (m *mockGiftCodeAPI) ExtendGiftCode(ctx context.Context, token, id string, expiry time.Time) error {
	return m.Called(token, id, expiry).Error(0)
}

func (m *mockGiftCodeAPI) UpdateGiftCodeAccounts(ctx context.Context, token, id string, accounts []string) error {
	return m.Called(token, id, accounts).Error(0)
}

func (m *mockGiftCodeAPI) GiftCodeRedemptions(ctx context.Context, token, id string, page, pageSize int) ([]json.RawMessage, int, error) {
	args := m.Called(token, id, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]json.RawMessage), args.Int(1), args.Error(2)
}

func (m *mockGiftCodeAPI) GiftCodeLogs(ctx context.Context, token, id string, page, pageSize int) ([]json.RawMessage, int, error) {
	args := m.Called(token, id, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]json.RawMessage), args.Int(1), args.Error(2)
}
