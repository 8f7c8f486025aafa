package client

import (
	"context"
	"fmt"
	"net/http"
)

// GetTags returns every workspace tag.
func (c *Client) GetTags(ctx context.Context, workspaceID string) ([]WorkspaceTag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tags []WorkspaceTag
	path := fmt.Sprintf("/api/v1/workspaces/%s/tags", workspaceID)
	if err := c.doJSON(ctx, "get_tags", http.MethodGet, path, nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTagMembers returns the members carrying the given tag.
func (c *Client) GetTagMembers(ctx context.Context, workspaceID, tagID string) ([]Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var members []Member
	path := fmt.Sprintf("/api/v1/workspaces/%s/tags/%s/members", workspaceID, tagID)
	if err := c.doJSON(ctx, "get_tag_members", http.MethodGet, path, nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}
