package client

import (
	"context"
	"fmt"
	"net/http"
)

// GetJobs returns every job in the workspace.
func (c *Client) GetJobs(ctx context.Context, workspaceID string) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var jobs []Job
	path := fmt.Sprintf("/api/v1/workspaces/%s/jobs", workspaceID)
	if err := c.doJSON(ctx, "get_jobs", http.MethodGet, path, nil, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
