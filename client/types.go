package client

import (
	"strings"
)

// ------------------------------
// Core domain types and payloads
// ------------------------------

// Dates are exchanged as "YYYY-MM-DD" strings and timestamps as RFC 3339
// strings, matching the wire format. Parsing happens where values are
// actually computed on (internal/tally), so that a malformed record can be
// skipped without failing the whole fetch.

// Job is a unit of work members are scheduled on. Jobs form a tree encoded
// in JobTree as a slash-separated id path rooted at the workspace id.
type Job struct {
	JobID               string               `json:"job_id"`
	JobName             string               `json:"job_name"`
	JobTree             string               `json:"job_tree"`
	Status              string               `json:"status,omitempty"`
	Note                string               `json:"note,omitempty"`
	ExternalLinkageInfo *ExternalLinkageInfo `json:"external_linkage_info,omitempty"`
}

// ExternalLinkageInfo links a job to an external annotation project by URL.
type ExternalLinkageInfo struct {
	URL string `json:"url,omitempty"`
}

// ParentJobID derives the direct parent from the job tree path.
// A tree of "workspace/job" has no parent and yields "".
func (j Job) ParentJobID() string {
	parts := strings.Split(j.JobTree, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}

// AnnofabProjectID extracts the Annofab project id from the job's external
// linkage URL (".../projects/{id}"). Returns "" when the job is not linked.
func (j Job) AnnofabProjectID() string {
	if j.ExternalLinkageInfo == nil {
		return ""
	}
	const marker = "/projects/"
	idx := strings.Index(j.ExternalLinkageInfo.URL, marker)
	if idx < 0 {
		return ""
	}
	rest := strings.Trim(j.ExternalLinkageInfo.URL[idx+len(marker):], "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// Member is a workspace member. UserID/Username can be empty on records
// referencing members that were since deleted; consumers must tolerate that.
type Member struct {
	MemberID  string `json:"workspace_member_id"`
	AccountID string `json:"account_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Status    string `json:"status,omitempty"`
}

// WorkspaceTag labels a set of members for grouping in reports.
type WorkspaceTag struct {
	TagID   string `json:"workspace_tag_id"`
	TagName string `json:"workspace_tag_name"`
}

// companyTagPrefix marks tags that represent a company.
const companyTagPrefix = "company:"

// IsCompany reports whether the tag name carries the company prefix.
func (t WorkspaceTag) IsCompany() bool {
	return strings.HasPrefix(t.TagName, companyTagPrefix)
}

// CompanyName returns the company encoded in the tag name, or "" when the
// tag is not a company tag.
func (t WorkspaceTag) CompanyName() string {
	if !t.IsCompany() {
		return ""
	}
	return t.TagName[len(companyTagPrefix):]
}

// ScheduleType selects how a schedule's Value is interpreted.
type ScheduleType string

const (
	// ScheduleTypeHours means Value is a daily rate in hours.
	ScheduleTypeHours ScheduleType = "hours"
	// ScheduleTypePercentage means Value is a percentage of the member's
	// expected working hours on each day.
	ScheduleTypePercentage ScheduleType = "percentage"
)

// Schedule is a planned assignment of a member to a job over an inclusive
// calendar date range.
type Schedule struct {
	ScheduleID string       `json:"schedule_id"`
	JobID      string       `json:"job_id"`
	MemberID   string       `json:"workspace_member_id"`
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	Type       ScheduleType `json:"type"`
	Value      float64      `json:"value"`
}

// ExpectedWorkingTime is one member's planned working hours on one date.
type ExpectedWorkingTime struct {
	Date     string  `json:"date"`
	MemberID string  `json:"workspace_member_id"`
	Hours    float64 `json:"expected_working_hours"`
}

// ActualWorkingTime is one logged work session.
type ActualWorkingTime struct {
	ID            string  `json:"actual_working_time_id"`
	JobID         string  `json:"job_id"`
	MemberID      string  `json:"workspace_member_id"`
	StartDateTime string  `json:"start_datetime"`
	EndDateTime   string  `json:"end_datetime,omitempty"`
	Hours         float64 `json:"actual_working_hours"`
	Note          string  `json:"note,omitempty"`
}

// Account is the authenticated user's account.
type Account struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
}

// AccountExternalLinkageInfo holds per-account linkage to external services
// (e.g. the Annofab account id) plus the concurrency-control timestamp.
type AccountExternalLinkageInfo struct {
	ExternalLinkageInfo map[string]any `json:"external_linkage_info"`
	UpdatedDatetime     string         `json:"updated_datetime,omitempty"`
}

// AnnofabAccountID digs the Annofab account id out of the linkage map.
func (a AccountExternalLinkageInfo) AnnofabAccountID() string {
	af, ok := a.ExternalLinkageInfo["annofab"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := af["account_id"].(string)
	return id
}
