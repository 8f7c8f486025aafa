package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// TermQuery is an inclusive date range. Zero values mean "no bound".
type TermQuery struct {
	TermStart string
	TermEnd   string
}

func (q TermQuery) values() url.Values {
	v := url.Values{}
	if q.TermStart != "" {
		v.Set("term_start", q.TermStart)
	}
	if q.TermEnd != "" {
		v.Set("term_end", q.TermEnd)
	}
	return v
}

// GetExpectedWorkingTimes returns per-member per-date expected working
// hours within the term.
func (c *Client) GetExpectedWorkingTimes(ctx context.Context, workspaceID string, q TermQuery) ([]ExpectedWorkingTime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var times []ExpectedWorkingTime
	path := fmt.Sprintf("/api/v1/workspaces/%s/expected-working-times", workspaceID)
	if err := c.doJSON(ctx, "get_expected_working_times", http.MethodGet, path, q.values(), nil, &times); err != nil {
		return nil, err
	}
	return times, nil
}

// GetExpectedWorkingTimesByMember is the single-member variant of
// GetExpectedWorkingTimes.
func (c *Client) GetExpectedWorkingTimesByMember(ctx context.Context, workspaceID, memberID string, q TermQuery) ([]ExpectedWorkingTime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var times []ExpectedWorkingTime
	path := fmt.Sprintf("/api/v1/workspaces/%s/members/%s/expected-working-times", workspaceID, memberID)
	if err := c.doJSON(ctx, "get_expected_working_times_by_member", http.MethodGet, path, q.values(), nil, &times); err != nil {
		return nil, err
	}
	return times, nil
}

// ActualQuery narrows GetActualWorkingTimes. Zero values mean "no bound".
type ActualQuery struct {
	TermStart string
	TermEnd   string
	JobIDs    []string
}

func (q ActualQuery) values() url.Values {
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
	return v
}

// GetActualWorkingTimes returns the logged work sessions matching the query.
func (c *Client) GetActualWorkingTimes(ctx context.Context, workspaceID string, q ActualQuery) ([]ActualWorkingTime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var times []ActualWorkingTime
	path := fmt.Sprintf("/api/v1/workspaces/%s/actual-working-times", workspaceID)
	if err := c.doJSON(ctx, "get_actual_working_times", http.MethodGet, path, q.values(), nil, &times); err != nil {
		return nil, err
	}
	return times, nil
}
