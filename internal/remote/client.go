// Package remote is the HTTP client for the upstream console API that owns admin
// accounts, gift codes and eligibility registration.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olagu/console/internal/common"
)

// Config upstream connection settings
type Config struct {
	BaseURL      string
	Timeout      time.Duration // transport timeout for every call
	LoginTimeout time.Duration // bounded wait for login only
	Location     *time.Location
}

// Client talks JSON to the upstream console API. Authenticated calls forward the
// caller's bearer token unchanged.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	loginTimeout time.Duration
	loc          *time.Location
}

// NewClient creates a Client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	loginTimeout := cfg.LoginTimeout
	if loginTimeout <= 0 {
		loginTimeout = 5 * time.Second
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		loginTimeout: loginTimeout,
		loc:          loc,
	}
}

// errorBody is the error shape the upstream API uses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// listBody is the paginated list shape
type listBody struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, in, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", common.ErrTransport, method, path, err)
	}
	return nil
}

// transportError classifies a failure that produced no HTTP response
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &common.RemoteError{Kind: common.ErrTimeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &common.RemoteError{Kind: common.ErrTimeout}
	}
	return fmt.Errorf("%w: %v", common.ErrTransport, err)
}

// statusError maps a non-2xx response to an error kind, keeping the server's message
func statusError(status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}

	var kind error
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = common.ErrValidation
	case http.StatusUnauthorized:
		kind = common.ErrUnauthorized
	case http.StatusForbidden:
		kind = common.ErrForbidden
	case http.StatusNotFound:
		kind = common.ErrNotFound
	case http.StatusConflict:
		kind = common.ErrConflict
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		kind = common.ErrTimeout
	default:
		kind = common.ErrTransport
	}
	return &common.RemoteError{Kind: kind, Status: status, Message: msg}
}

// decodeList accepts either a bare JSON array or {"data": [...], "total": n}
func decodeList(raw json.RawMessage, dest interface{}) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, dest); err != nil {
			return 0, err
		}
		return -1, nil
	}
	var lb listBody
	if err := json.Unmarshal(raw, &lb); err != nil {
		return 0, err
	}
	if len(lb.Data) == 0 || bytes.Equal(lb.Data, []byte("null")) {
		return lb.Total, nil
	}
	if err := json.Unmarshal(lb.Data, dest); err != nil {
		return 0, err
	}
	return lb.Total, nil
}

// TestConnection calls the upstream connectivity probe and returns its payload
func (c *Client) TestConnection(ctx context.Context) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := c.do(ctx, http.MethodGet, "/api/test-connection", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
