package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetMembers returns the workspace members. Reports over historical records
// usually want includeInactive=true so that hours logged by members who
// have since left still resolve to a user.
func (c *Client) GetMembers(ctx context.Context, workspaceID string, includeInactive bool) ([]Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := url.Values{}
	if includeInactive {
		query.Set("includes_inactive_members", "true")
	}
	var members []Member
	path := fmt.Sprintf("/api/v1/workspaces/%s/members", workspaceID)
	if err := c.doJSON(ctx, "get_members", http.MethodGet, path, query, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}
