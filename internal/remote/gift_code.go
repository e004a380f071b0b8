package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
)

// WireTimeLayout is the upstream date format for expiry dates
const WireTimeLayout = "2006-01-02 15:04:05"

// wireGiftCode is a gift code as the upstream API sends it. rewards and
// specific_accounts are JSON documents encoded inside strings.
type wireGiftCode struct {
	ID                domain.FlexID   `json:"id"`
	Code              string          `json:"code"`
	Type              string          `json:"type"`
	Rewards           json.RawMessage `json:"rewards"`
	SpecificAccounts  json.RawMessage `json:"specific_accounts"`
	ExpiryDate        string          `json:"expiry_date"`
	CheckCreationTime bool            `json:"check_creation_time"`
	RedeemCount       int             `json:"redeem_count"`
	CreatedAt         string          `json:"created_at"`
}

// wireCreateGiftCode is the create payload
type wireCreateGiftCode struct {
	Code              string  `json:"code"`
	Type              string  `json:"type"`
	Rewards           string  `json:"rewards"`
	SpecificAccounts  *string `json:"specific_accounts"`
	ExpiryDate        string  `json:"expiry_date"`
	CheckCreationTime bool    `json:"check_creation_time"`
}

// decodeEmbedded reads a field that is either a JSON-encoded string or the
// document itself. null and "" leave dest untouched.
func decodeEmbedded(raw json.RawMessage, dest interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		raw = []byte(s)
	}
	return json.Unmarshal(raw, dest)
}

func encodeEmbedded(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(WireTimeLayout, s, c.loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (c *Client) formatTime(t time.Time) string {
	return t.In(c.loc).Format(WireTimeLayout)
}

func (c *Client) toDomain(w *wireGiftCode) (*domain.GiftCode, error) {
	g := &domain.GiftCode{
		ID:                w.ID,
		Code:              w.Code,
		Type:              domain.GiftCodeType(w.Type),
		CheckCreationTime: w.CheckCreationTime,
		RedeemCount:       w.RedeemCount,
	}
	if err := decodeEmbedded(w.Rewards, &g.Rewards); err != nil {
		return nil, fmt.Errorf("gift code %s rewards: %w", w.ID, common.ErrFormat)
	}
	if err := decodeEmbedded(w.SpecificAccounts, &g.SpecificAccounts); err != nil {
		return nil, fmt.Errorf("gift code %s specific_accounts: %w", w.ID, common.ErrFormat)
	}
	expiry, err := c.parseTime(w.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("gift code %s expiry_date %q: %w", w.ID, w.ExpiryDate, common.ErrFormat)
	}
	g.ExpiryDate = expiry
	if created, err := c.parseTime(w.CreatedAt); err == nil && !created.IsZero() {
		g.CreatedAt = &created
	}
	return g, nil
}

// ListGiftCodes GET /api/gift-codes?page&pageSize
func (c *Client) ListGiftCodes(ctx context.Context, token string, page, pageSize int) ([]*domain.GiftCode, int, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/gift-codes", token, pageQuery(page, pageSize), nil, &raw); err != nil {
		return nil, 0, err
	}
	var wires []*wireGiftCode
	total, err := decodeList(raw, &wires)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: gift code list: %v", common.ErrTransport, err)
	}
	if total < 0 {
		total = len(wires)
	}

	codes := make([]*domain.GiftCode, 0, len(wires))
	for _, w := range wires {
		g, err := c.toDomain(w)
		if err != nil {
			return nil, 0, err
		}
		codes = append(codes, g)
	}
	return codes, total, nil
}

// GetGiftCode GET /api/gift-codes/{id}
func (c *Client) GetGiftCode(ctx context.Context, token, id string) (*domain.GiftCode, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/gift-codes/"+url.PathEscape(id), token, nil, nil, &raw); err != nil {
		return nil, err
	}
	// some deployments wrap single records in {"data": ...}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && env.Data[0] == '{' {
		raw = env.Data
	}
	var w wireGiftCode
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: gift code %s: %v", common.ErrTransport, id, err)
	}
	return c.toDomain(&w)
}

// CreateGiftCode POST /api/gift-codes. specific_accounts is null for normal codes.
func (c *Client) CreateGiftCode(ctx context.Context, token string, g *domain.GiftCode) error {
	rewards, err := encodeEmbedded(g.Rewards)
	if err != nil {
		return err
	}
	in := wireCreateGiftCode{
		Code:              g.Code,
		Type:              string(g.Type),
		Rewards:           rewards,
		ExpiryDate:        c.formatTime(g.ExpiryDate),
		CheckCreationTime: g.CheckCreationTime,
	}
	if g.Type == domain.GiftCodeTypeSpecific {
		accounts, err := encodeEmbedded(g.SpecificAccounts)
		if err != nil {
			return err
		}
		in.SpecificAccounts = &accounts
	}
	return c.do(ctx, http.MethodPost, "/api/gift-codes", token, nil, in, nil)
}

// DeleteGiftCode DELETE /api/gift-codes/{id}
func (c *Client) DeleteGiftCode(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/gift-codes/"+url.PathEscape(id), token, nil, nil, nil)
}

// ExtendGiftCode PATCH /api/gift-codes/{id}/extend
func (c *Client) ExtendGiftCode(ctx context.Context, token, id string, expiry time.Time) error {
	in := map[string]string{"expiryDate": c.formatTime(expiry)}
	return c.do(ctx, http.MethodPatch, "/api/gift-codes/"+url.PathEscape(id)+"/extend", token, nil, in, nil)
}

// UpdateGiftCodeAccounts PATCH /api/gift-codes/{id}/accounts with the full list
func (c *Client) UpdateGiftCodeAccounts(ctx context.Context, token, id string, accounts []string) error {
	if accounts == nil {
		accounts = []string{}
	}
	encoded, err := encodeEmbedded(accounts)
	if err != nil {
		return err
	}
	in := map[string]string{"specific_accounts": encoded}
	return c.do(ctx, http.MethodPatch, "/api/gift-codes/"+url.PathEscape(id)+"/accounts", token, nil, in, nil)
}

// GiftCodeRedemptions GET /api/gift-codes/{id}/redemptions. Rows are passed through as sent.
func (c *Client) GiftCodeRedemptions(ctx context.Context, token, id string, page, pageSize int) ([]json.RawMessage, int, error) {
	return c.rawPage(ctx, token, "/api/gift-codes/"+url.PathEscape(id)+"/redemptions", page, pageSize)
}

// GiftCodeLogs GET /api/gift-codes/{id}/logs. Rows are passed through as sent.
func (c *Client) GiftCodeLogs(ctx context.Context, token, id string, page, pageSize int) ([]json.RawMessage, int, error) {
	return c.rawPage(ctx, token, "/api/gift-codes/"+url.PathEscape(id)+"/logs", page, pageSize)
}

func (c *Client) rawPage(ctx context.Context, token, path string, page, pageSize int) ([]json.RawMessage, int, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, token, pageQuery(page, pageSize), nil, &raw); err != nil {
		return nil, 0, err
	}
	var rows []json.RawMessage
	total, err := decodeList(raw, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", common.ErrTransport, path, err)
	}
	if total < 0 {
		total = len(rows)
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	return rows, total, nil
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return q
}
