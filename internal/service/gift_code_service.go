package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/pkg/logger"
)

// Gift code list paging limits
const (
	DefaultGiftCodePageSize = 10
	MaxGiftCodePageSize     = 100
)

// GiftCodeAPI remote gift code endpoints
type GiftCodeAPI interface {
	ListGiftCodes(ctx context.Context, token string, page, pageSize int) ([]*domain.GiftCode, int, error)
	GetGiftCode(ctx context.Context, token, id string) (*domain.GiftCode, error)
	CreateGiftCode(ctx context.Context, token string, g *domain.GiftCode) error
	DeleteGiftCode(ctx context.Context, token, id string) error
	ExtendGiftCode(ctx context.Context, token, id string, expiry time.Time) error
	UpdateGiftCodeAccounts(ctx context.Context, token, id string, accounts []string) error
	GiftCodeRedemptions(ctx context.Context, token, id string, page, pageSize int) ([]json.RawMessage, int, error)
	GiftCodeLogs(ctx context.Context, token, id string, page, pageSize int) ([]json.RawMessage, int, error)
}

// GiftCodeService gift code management
type GiftCodeService interface {
	Create(ctx context.Context, s *domain.Session, req *domain.CreateGiftCodeRequest) (*domain.GiftCode, error)
	ListPage(ctx context.Context, s *domain.Session, page, pageSize int) ([]*domain.GiftCodeView, int, error)
	Get(ctx context.Context, s *domain.Session, id string) (*domain.GiftCodeView, error)
	Delete(ctx context.Context, s *domain.Session, id string) error
	ExtendExpiry(ctx context.Context, s *domain.Session, id string, newExpiry time.Time) (*domain.GiftCode, error)
	AddAccounts(ctx context.Context, s *domain.Session, id, text string) (*domain.AddAccountsResult, error)
	RemoveAccount(ctx context.Context, s *domain.Session, id, account string) (*domain.GiftCode, error)
	Redemptions(ctx context.Context, s *domain.Session, id string, page, pageSize int) ([]json.RawMessage, int, error)
	Logs(ctx context.Context, s *domain.Session, id string, page, pageSize int) ([]json.RawMessage, int, error)
}

type giftCodeService struct {
	api GiftCodeAPI
	now func() time.Time
}

// NewGiftCodeService creates a new GiftCodeService
func NewGiftCodeService(api GiftCodeAPI) GiftCodeService {
	return &giftCodeService{api: api, now: time.Now}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultGiftCodePageSize
	}
	if pageSize > MaxGiftCodePageSize {
		pageSize = MaxGiftCodePageSize
	}
	return page, pageSize
}

func (s *giftCodeService) view(g *domain.GiftCode) *domain.GiftCodeView {
	return &domain.GiftCodeView{GiftCode: g, State: g.State(s.now())}
}

// Create validates a new code. Specific codes take their accounts from the list
// and the newline text together; normal codes never carry accounts. Reward
// quantities are checked by request binding.
func (s *giftCodeService) Create(ctx context.Context, sess *domain.Session, req *domain.CreateGiftCodeRequest) (*domain.GiftCode, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, common.Validationf("code is required")
	}
	if !req.Type.Valid() {
		return nil, common.Validationf("unknown gift code type %q", req.Type)
	}
	if len(req.Rewards) == 0 {
		return nil, common.Validationf("at least one reward is required")
	}
	if !req.ExpiryDate.After(s.now()) {
		return nil, common.Validationf("expiry date must be in the future")
	}

	g := &domain.GiftCode{
		Code:              code,
		Type:              req.Type,
		Rewards:           req.Rewards,
		ExpiryDate:        req.ExpiryDate,
		CheckCreationTime: req.CheckCreationTime,
	}
	if req.Type == domain.GiftCodeTypeSpecific {
		accounts := append(append([]string{}, req.SpecificAccounts...), domain.ParseAccounts(req.AccountsText)...)
		g.SpecificAccounts = domain.UniqueAccounts(accounts)
		if len(g.SpecificAccounts) == 0 {
			return nil, common.Validationf("specific gift codes need at least one account")
		}
	}

	if err := s.api.CreateGiftCode(ctx, sess.Token, g); err != nil {
		return nil, err
	}
	logger.WithUsername(sess.Username).Info().
		Str("code", g.Code).
		Str("type", string(g.Type)).
		Int("accounts", len(g.SpecificAccounts)).
		Msg("gift code created")
	return g, nil
}

func (s *giftCodeService) ListPage(ctx context.Context, sess *domain.Session, page, pageSize int) ([]*domain.GiftCodeView, int, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	codes, total, err := s.api.ListGiftCodes(ctx, sess.Token, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views := make([]*domain.GiftCodeView, 0, len(codes))
	for _, g := range codes {
		views = append(views, s.view(g))
	}
	return views, total, nil
}

func (s *giftCodeService) Get(ctx context.Context, sess *domain.Session, id string) (*domain.GiftCodeView, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	g, err := s.api.GetGiftCode(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	return s.view(g), nil
}

func (s *giftCodeService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.api.DeleteGiftCode(ctx, sess.Token, id); err != nil {
		return err
	}
	logger.WithUsername(sess.Username).Info().Str("gift_code_id", id).Msg("gift code deleted")
	return nil
}

// ExtendExpiry moves the expiry forward. The new date must be after both now and
// the current expiry; an expired code becomes active again.
func (s *giftCodeService) ExtendExpiry(ctx context.Context, sess *domain.Session, id string, newExpiry time.Time) (*domain.GiftCode, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if !newExpiry.After(s.now()) {
		return nil, common.Validationf("new expiry date must be in the future")
	}

	g, err := s.api.GetGiftCode(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	if !newExpiry.After(g.ExpiryDate) {
		return nil, common.Validationf("new expiry date must be after the current expiry %s",
			g.ExpiryDate.Format("2006-01-02 15:04:05"))
	}

	if err := s.api.ExtendGiftCode(ctx, sess.Token, id, newExpiry); err != nil {
		return nil, err
	}
	g.ExpiryDate = newExpiry
	logger.WithUsername(sess.Username).Info().
		Str("gift_code_id", id).
		Time("expiry", newExpiry).
		Msg("gift code extended")
	return g, nil
}

func (s *giftCodeService) specific(ctx context.Context, sess *domain.Session, id string) (*domain.GiftCode, error) {
	g, err := s.api.GetGiftCode(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	if g.Type != domain.GiftCodeTypeSpecific {
		return nil, common.Validationf("gift code %s is not account specific", id)
	}
	return g, nil
}

// AddAccounts appends the accounts in text that are not already listed. Nothing
// new is a successful no-op with Added = 0.
func (s *giftCodeService) AddAccounts(ctx context.Context, sess *domain.Session, id, text string) (*domain.AddAccountsResult, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	g, err := s.specific(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	merged, added := domain.MergeAccounts(g.SpecificAccounts, domain.ParseAccounts(text))
	if added == 0 {
		return &domain.AddAccountsResult{Added: 0, GiftCode: g}, nil
	}
	if err := s.api.UpdateGiftCodeAccounts(ctx, sess.Token, id, merged); err != nil {
		return nil, err
	}
	g.SpecificAccounts = merged

	logger.WithUsername(sess.Username).Info().
		Str("gift_code_id", id).
		Int("added", added).
		Msg("gift code accounts added")
	return &domain.AddAccountsResult{Added: added, GiftCode: g}, nil
}

// RemoveAccount drops one exact account and returns the code as the server now has it
func (s *giftCodeService) RemoveAccount(ctx context.Context, sess *domain.Session, id, account string) (*domain.GiftCode, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if account == "" {
		return nil, common.Validationf("account is required")
	}

	g, err := s.specific(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	remaining, found := domain.RemoveAccount(g.SpecificAccounts, account)
	if !found {
		return nil, fmt.Errorf("account %q on gift code %s: %w", account, id, common.ErrNotFound)
	}
	if err := s.api.UpdateGiftCodeAccounts(ctx, sess.Token, id, remaining); err != nil {
		return nil, err
	}

	logger.WithUsername(sess.Username).Info().
		Str("gift_code_id", id).
		Str("account", account).
		Msg("gift code account removed")
	return s.api.GetGiftCode(ctx, sess.Token, id)
}

func (s *giftCodeService) Redemptions(ctx context.Context, sess *domain.Session, id string, page, pageSize int) ([]json.RawMessage, int, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.api.GiftCodeRedemptions(ctx, sess.Token, id, page, pageSize)
}

func (s *giftCodeService) Logs(ctx context.Context, sess *domain.Session, id string, page, pageSize int) ([]json.RawMessage, int, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.api.GiftCodeLogs(ctx, sess.Token, id, page, pageSize)
}
