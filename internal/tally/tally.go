// Package tally is the aggregation core: it decomposes scheduled and
// actual work records into per-day contributions, folds them into sums
// keyed by configurable grouping tuples, regroups per-member sums by
// workspace tag, and enriches aggregate rows with job and user names.
//
// The package is pure computation over snapshots fetched by the client
// package; it performs no I/O besides warnings on an injected logger.
package tally

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// DailyContribution is one record's share of one calendar day.
type DailyContribution struct {
	Date     string
	MemberID string
	JobID    string
	Hours    float64
}

// DateMember keys the expected-working-hours table.
type DateMember struct {
	Date     string
	MemberID string
}

// DailyKey groups contributions by (date, member, job).
type DailyKey struct {
	Date     string
	MemberID string
	JobID    string
}

// ParentKey groups contributions by (date, parent job, member).
type ParentKey struct {
	Date        string
	ParentJobID string
	MemberID    string
}

// WeekKey groups contributions by (week start date, member).
type WeekKey struct {
	WeekStart string
	MemberID  string
}

// ParseError reports a malformed date or timestamp in a source record.
// Callers skip the offending record with a warning; the batch continues.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// WeekStart returns the date of the Sunday starting the week containing
// date. Weeks run Sunday through Saturday.
func WeekStart(date string) (string, error) {
	t, err := parseDate("date", date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -int(t.Weekday())).Format(DateLayout), nil
}
