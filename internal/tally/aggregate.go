package tally

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/kurusugawa-computer/annowork-cli/client"
)

// SumDaily folds contributions into (date, member, job) sums. Order of the
// input never affects the result; addition is commutative.
func SumDaily(contribs []DailyContribution) map[DailyKey]float64 {
	sums := make(map[DailyKey]float64)
	for _, c := range contribs {
		sums[DailyKey{Date: c.Date, MemberID: c.MemberID, JobID: c.JobID}] += c.Hours
	}
	return sums
}

// SumWeekly folds contributions into (week start, member) sums, where weeks
// start on Sunday. A contribution with an unparsable date aborts: dates
// reaching this point were produced by the decomposer and are trusted.
func SumWeekly(contribs []DailyContribution) (map[WeekKey]float64, error) {
	sums := make(map[WeekKey]float64)
	for _, c := range contribs {
		week, err := WeekStart(c.Date)
		if err != nil {
			return nil, err
		}
		sums[WeekKey{WeekStart: week, MemberID: c.MemberID}] += c.Hours
	}
	return sums, nil
}

// RowFilter is applied after aggregation, so that sessions crossing a range
// boundary are attributed to their true date before being excluded. Empty
// fields impose no constraint; the id lists are allow-lists.
type RowFilter struct {
	StartDate string
	EndDate   string
	JobIDs    []string
	MemberIDs []string
}

func (f RowFilter) matches(k DailyKey) bool {
	if f.StartDate != "" && k.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && k.Date > f.EndDate {
		return false
	}
	if len(f.JobIDs) > 0 && !contains(f.JobIDs, k.JobID) {
		return false
	}
	if len(f.MemberIDs) > 0 && !contains(f.MemberIDs, k.MemberID) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

// DailyRow is one final per-day aggregate before enrichment.
type DailyRow struct {
	Date     string
	MemberID string
	JobID    string
	Hours    float64
}

// DailyRows materializes aggregated sums as sorted rows, applying the
// filter and dropping rows whose hours summed to exactly zero. Dropping
// zeros keeps reports compact but makes "no activity" indistinguishable
// from "no data"; this matches the established report output.
func DailyRows(sums map[DailyKey]float64, f RowFilter) []DailyRow {
	rows := make([]DailyRow, 0, len(sums))
	for k, hours := range sums {
		if hours == 0 {
			continue
		}
		if !f.matches(k) {
			continue
		}
		rows = append(rows, DailyRow{Date: k.Date, MemberID: k.MemberID, JobID: k.JobID, Hours: hours})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.JobID != b.JobID {
			return a.JobID < b.JobID
		}
		return a.MemberID < b.MemberID
	})
	return rows
}

// WeeklyRow is one final per-week aggregate before enrichment.
type WeeklyRow struct {
	WeekStart string
	MemberID  string
	Hours     float64
}

// WeeklyRows materializes weekly sums as sorted rows, dropping zero sums.
func WeeklyRows(sums map[WeekKey]float64) []WeeklyRow {
	rows := make([]WeeklyRow, 0, len(sums))
	for k, hours := range sums {
		if hours == 0 {
			continue
		}
		rows = append(rows, WeeklyRow{WeekStart: k.WeekStart, MemberID: k.MemberID, Hours: hours})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WeekStart != b.WeekStart {
			return a.WeekStart < b.WeekStart
		}
		return a.MemberID < b.MemberID
	})
	return rows
}

// SumByParentJob rolls per-day rows up to each job's direct parent. Rows
// whose job has no resolvable parent are dropped with a warning rather
// than silently folded into an empty parent id.
func SumByParentJob(rows []DailyRow, jobs []client.Job, log zerolog.Logger) map[ParentKey]float64 {
	parentByJob := make(map[string]string, len(jobs))
	for _, j := range jobs {
		parentByJob[j.JobID] = j.ParentJobID()
	}

	sums := make(map[ParentKey]float64)
	for _, r := range rows {
		parentID, ok := parentByJob[r.JobID]
		if !ok || parentID == "" {
			log.Warn().Str("job_id", r.JobID).Msg("no parent job resolvable; row dropped")
			continue
		}
		sums[ParentKey{Date: r.Date, ParentJobID: parentID, MemberID: r.MemberID}] += r.Hours
	}
	return sums
}

// ParentRow is one per-day per-parent-job aggregate before enrichment.
type ParentRow struct {
	Date        string
	ParentJobID string
	MemberID    string
	Hours       float64
}

// ParentRows materializes parent-job sums as sorted rows, dropping zeros.
func ParentRows(sums map[ParentKey]float64) []ParentRow {
	rows := make([]ParentRow, 0, len(sums))
	for k, hours := range sums {
		if hours == 0 {
			continue
		}
		rows = append(rows, ParentRow{Date: k.Date, ParentJobID: k.ParentJobID, MemberID: k.MemberID, Hours: hours})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.ParentJobID != b.ParentJobID {
			return a.ParentJobID < b.ParentJobID
		}
		return a.MemberID < b.MemberID
	})
	return rows
}
