package client

import (
	"context"
	"fmt"
	"net/http"
)

// GetMyAccount returns the authenticated user's account.
func (c *Client) GetMyAccount(ctx context.Context) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var account Account
	if err := c.doJSON(ctx, "get_my_account", http.MethodGet, "/api/v1/my/account", nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountExternalLinkageInfo returns the external-service linkage info
// for the account identified by user id. A nil result with nil error means
// the account does not exist.
func (c *Client) GetAccountExternalLinkageInfo(ctx context.Context, userID string) (*AccountExternalLinkageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var info AccountExternalLinkageInfo
	path := fmt.Sprintf("/api/v1/accounts/%s/external-linkage-info", userID)
	err := c.doJSON(ctx, "get_account_external_linkage_info", http.MethodGet, path, nil, nil, &info)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// PutAccountExternalLinkageInfo overwrites the linkage info. The request
// must echo the UpdatedDatetime last read, the server rejects stale writes.
func (c *Client) PutAccountExternalLinkageInfo(ctx context.Context, userID string, info AccountExternalLinkageInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/v1/accounts/%s/external-linkage-info", userID)
	return c.doJSON(ctx, "put_account_external_linkage_info", http.MethodPut, path, nil, info, nil)
}
