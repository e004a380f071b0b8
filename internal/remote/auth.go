package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
)

// Login exchanges credentials for a bearer token. The call is bounded by the
// login timeout; any rejection by the server is an auth failure.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.loginTimeout)
	defer cancel()

	in := map[string]string{"username": username, "password": password}
	var out domain.LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", nil, in, &out)

	var re *common.RemoteError
	switch {
	case err == nil:
	case errors.Is(err, common.ErrTimeout):
		return nil, err
	case errors.As(err, &re) && re.Status >= 400 && re.Status < 500:
		msg := re.Message
		if msg == "" {
			msg = common.ErrAuth.Error()
		}
		return nil, &common.RemoteError{Kind: common.ErrAuth, Status: re.Status, Message: msg}
	default:
		return nil, err
	}

	if out.Token == "" || out.User == nil {
		return nil, &common.RemoteError{Kind: common.ErrAuth, Status: http.StatusOK, Message: "login response missing token or user"}
	}
	return &out, nil
}
