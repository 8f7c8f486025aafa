package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ScheduleQuery narrows GetSchedules. Zero values mean "no bound".
type ScheduleQuery struct {
	TermStart string // inclusive YYYY-MM-DD
	TermEnd   string // inclusive YYYY-MM-DD
	JobIDs    []string
	MemberIDs []string
}

func (q ScheduleQuery) values() url.Values {
	v := url.Values{}
	if q.TermStart != "" {
		v.Set("term_start", q.TermStart)
	}
	if q.TermEnd != "" {
		v.Set("term_end", q.TermEnd)
	}
	for _, id := range q.JobIDs {
		v.Add("job_id", id)
	}
	for _, id := range q.MemberIDs {
		v.Add("workspace_member_id", id)
	}
	return v
}

// GetSchedules returns the schedules matching the query. The server returns
// any schedule whose date range overlaps [TermStart, TermEnd], so callers
// aggregating must re-filter by date after decomposition.
func (c *Client) GetSchedules(ctx context.Context, workspaceID string, q ScheduleQuery) ([]Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var schedules []Schedule
	path := fmt.Sprintf("/api/v1/workspaces/%s/schedules", workspaceID)
	if err := c.doJSON(ctx, "get_schedules", http.MethodGet, path, q.values(), nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}
