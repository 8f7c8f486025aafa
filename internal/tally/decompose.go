package tally

import (
	"fmt"
	"time"

	"github.com/kurusugawa-computer/annowork-cli/client"
)

// ExpectedHoursByDateMember indexes expected working times for schedule
// decomposition.
func ExpectedHoursByDateMember(times []client.ExpectedWorkingTime) map[DateMember]float64 {
	m := make(map[DateMember]float64, len(times))
	for _, e := range times {
		m[DateMember{Date: e.Date, MemberID: e.MemberID}] = e.Hours
	}
	return m
}

// DecomposeSchedule expands a schedule into one contribution per calendar
// day in its inclusive [StartDate, EndDate] range.
//
// The per-day hours depend on the schedule type: "hours" schedules carry a
// daily rate that passes through unchanged; "percentage" schedules take
// that share of the member's expected working hours on each day (a day
// without an expected-hours entry contributes 0, which keeps the date in
// the aggregation history).
func DecomposeSchedule(s client.Schedule, expected map[DateMember]float64) ([]DailyContribution, error) {
	start, err := parseDate("start_date", s.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", s.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &ParseError{
			Field: "end_date",
			Value: s.EndDate,
			Err:   fmt.Errorf("before start_date %s", s.StartDate),
		}
	}

	var contribs []DailyContribution
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)

		var hours float64
		switch s.Type {
		case client.ScheduleTypeHours:
			hours = s.Value
		case client.ScheduleTypePercentage:
			hours = expected[DateMember{Date: date, MemberID: s.MemberID}] * s.Value / 100
		default:
			return nil, fmt.Errorf("schedule %s: unknown schedule type %q", s.ScheduleID, s.Type)
		}

		contribs = append(contribs, DailyContribution{
			Date:     date,
			MemberID: s.MemberID,
			JobID:    s.JobID,
			Hours:    hours,
		})
	}
	return contribs, nil
}

// DecomposeActual converts a logged work session into per-day
// contributions in the calendar of loc (nil means the local zone; the
// Annofab bridge passes a fixed +09:00 zone).
//
// A session crossing midnight is split across the affected dates in
// proportion to the session minutes falling on each date, so the sum over
// all produced contributions equals the record's hours. A zero-duration
// session yields a single zero contribution on its start date rather than
// disappearing.
func DecomposeActual(a client.ActualWorkingTime, loc *time.Location) ([]DailyContribution, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.Parse(time.RFC3339, a.StartDateTime)
	if err != nil {
		return nil, &ParseError{Field: "start_datetime", Value: a.StartDateTime, Err: err}
	}
	start = start.In(loc)

	if a.Hours == 0 {
		return []DailyContribution{{
			Date:     start.Format(DateLayout),
			MemberID: a.MemberID,
			JobID:    a.JobID,
			Hours:    0,
		}}, nil
	}

	end := start.Add(time.Duration(a.Hours * float64(time.Hour)))
	total := end.Sub(start)

	var contribs []DailyContribution
	for cur := start; cur.Before(end); {
		dayEnd := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		segEnd := dayEnd
		if end.Before(dayEnd) {
			segEnd = end
		}
		fraction := float64(segEnd.Sub(cur)) / float64(total)
		contribs = append(contribs, DailyContribution{
			Date:     cur.Format(DateLayout),
			MemberID: a.MemberID,
			JobID:    a.JobID,
			Hours:    a.Hours * fraction,
		})
		cur = segEnd
	}
	return contribs, nil
}
