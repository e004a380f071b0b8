package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/olagu/console/internal/common"
)

const defaultEligibilityFailure = "failed to register eligible account"

type eligibilityResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterEligibleAccount POST /api/eligible-accounts. A 2xx reply with
// success=false is a failure too; the server's message is returned verbatim.
func (c *Client) RegisterEligibleAccount(ctx context.Context, token, accountID string) error {
	in := map[string]string{"accountId": accountID}
	var out eligibilityResponse
	if err := c.do(ctx, http.MethodPost, "/api/eligible-accounts", token, nil, in, &out); err != nil {
		var re *common.RemoteError
		if errors.As(err, &re) && re.Message == "" {
			re.Message = defaultEligibilityFailure
		}
		return err
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = defaultEligibilityFailure
		}
		return &common.RemoteError{Kind: common.ErrTransport, Status: http.StatusOK, Message: msg}
	}
	return nil
}
