package tally

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/kurusugawa-computer/annowork-cli/client"
)

// TotalTagName is the synthetic pseudo-tag summing every input row for a
// date regardless of tag membership.
const TotalTagName = "total"

type tagFilterKind int

const (
	tagFilterAll tagFilterKind = iota
	tagFilterByID
	tagFilterByName
)

// TagFilter selects which workspace tags a grouped report covers. It is a
// tagged variant (all | by id | by name) so that the two id/name lists can
// never both be set.
type TagFilter struct {
	kind   tagFilterKind
	values []string
}

// AllTags selects every tag in the workspace.
func AllTags() TagFilter { return TagFilter{kind: tagFilterAll} }

// TagsByID selects tags by workspace tag id.
func TagsByID(ids []string) TagFilter { return TagFilter{kind: tagFilterByID, values: ids} }

// TagsByName selects tags by workspace tag name.
func TagsByName(names []string) TagFilter { return TagFilter{kind: tagFilterByName, values: names} }

// Select applies the filter to the full tag set. Requested ids or names
// that match no tag are reported as a count-mismatch warning; the run
// continues with the tags that do exist.
func (f TagFilter) Select(tags []client.WorkspaceTag, log zerolog.Logger) []client.WorkspaceTag {
	if f.kind == tagFilterAll {
		return tags
	}

	wanted := make(map[string]struct{}, len(f.values))
	for _, v := range f.values {
		wanted[v] = struct{}{}
	}

	var selected []client.WorkspaceTag
	for _, t := range tags {
		key := t.TagID
		if f.kind == tagFilterByName {
			key = t.TagName
		}
		if _, ok := wanted[key]; ok {
			selected = append(selected, t)
		}
	}

	if len(selected) != len(wanted) {
		log.Warn().
			Int("requested", len(wanted)).
			Int("found", len(selected)).
			Msg("some requested workspace tags do not exist")
	}
	return selected
}

// TagMembers maps a workspace tag id to the ids of its members.
type TagMembers map[string][]string

// TagDailyRow is one date's hours broken down by tag name. Tags without a
// contribution on the date are absent from the map (sparse); the emitter
// fills gaps with 0 for tabular output.
type TagDailyRow struct {
	Date  string
	Hours map[string]float64
}

// SumByTag regroups per-member daily rows into per-tag daily sums plus the
// synthetic total. Each tag accumulates independently, so a member carried
// by several tags credits each of them in full while the total counts the
// member exactly once.
func SumByTag(rows []DailyRow, tags []client.WorkspaceTag, members TagMembers) []TagDailyRow {
	sums := make(map[string]map[string]float64) // date -> tag name -> hours

	add := func(date, tag string, hours float64) {
		byTag, ok := sums[date]
		if !ok {
			byTag = make(map[string]float64)
			sums[date] = byTag
		}
		byTag[tag] += hours
	}

	for _, tag := range tags {
		memberSet := make(map[string]struct{}, len(members[tag.TagID]))
		for _, id := range members[tag.TagID] {
			memberSet[id] = struct{}{}
		}
		for _, r := range rows {
			if _, ok := memberSet[r.MemberID]; ok {
				add(r.Date, tag.TagName, r.Hours)
			}
		}
	}
	for _, r := range rows {
		add(r.Date, TotalTagName, r.Hours)
	}

	out := make([]TagDailyRow, 0, len(sums))
	for date, byTag := range sums {
		out = append(out, TagDailyRow{Date: date, Hours: byTag})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TagJobDailyRow is one (date, job) pair's hours broken down by tag name.
type TagJobDailyRow struct {
	Date  string
	JobID string
	Hours map[string]float64
}

// SumByTagAndJob is SumByTag with the job id kept as an extra grouping
// dimension, used by the assigned-hours reports.
func SumByTagAndJob(rows []DailyRow, tags []client.WorkspaceTag, members TagMembers) []TagJobDailyRow {
	type dateJob struct{ date, jobID string }
	sums := make(map[dateJob]map[string]float64)

	add := func(k dateJob, tag string, hours float64) {
		byTag, ok := sums[k]
		if !ok {
			byTag = make(map[string]float64)
			sums[k] = byTag
		}
		byTag[tag] += hours
	}

	for _, tag := range tags {
		memberSet := make(map[string]struct{}, len(members[tag.TagID]))
		for _, id := range members[tag.TagID] {
			memberSet[id] = struct{}{}
		}
		for _, r := range rows {
			if _, ok := memberSet[r.MemberID]; ok {
				add(dateJob{r.Date, r.JobID}, tag.TagName, r.Hours)
			}
		}
	}
	for _, r := range rows {
		add(dateJob{r.Date, r.JobID}, TotalTagName, r.Hours)
	}

	out := make([]TagJobDailyRow, 0, len(sums))
	for k, byTag := range sums {
		out = append(out, TagJobDailyRow{Date: k.date, JobID: k.jobID, Hours: byTag})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.JobID < b.JobID
	})
	return out
}
