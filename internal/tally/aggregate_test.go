package tally

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurusugawa-computer/annowork-cli/client"
)

func TestSumDaily_OrderIndependent(t *testing.T) {
	contribs := []DailyContribution{
		{Date: "2022-03-01", MemberID: "m1", JobID: "j1", Hours: 1},
		{Date: "2022-03-01", MemberID: "m1", JobID: "j1", Hours: 2},
		{Date: "2022-03-02", MemberID: "m2", JobID: "j1", Hours: 4},
	}
	reversed := []DailyContribution{contribs[2], contribs[1], contribs[0]}

	assert.Equal(t, SumDaily(contribs), SumDaily(reversed))
	assert.InDelta(t, 3, SumDaily(contribs)[DailyKey{Date: "2022-03-01", MemberID: "m1", JobID: "j1"}], 1e-9)
}

func TestSumWeekly(t *testing.T) {
	contribs := []DailyContribution{
		{Date: "2022-03-05", MemberID: "alice", Hours: 1},
		{Date: "2022-03-06", MemberID: "alice", Hours: 2},
		{Date: "2022-03-12", MemberID: "alice", Hours: 3},
		{Date: "2022-02-06", MemberID: "bob", Hours: 4},
		{Date: "2022-03-13", MemberID: "bob", Hours: 0},
	}

	sums, err := SumWeekly(contribs)
	require.NoError(t, err)

	rows := WeeklyRows(sums)
	require.Len(t, rows, 3)
	assert.Equal(t, WeeklyRow{WeekStart: "2022-02-06", MemberID: "bob", Hours: 4}, rows[0])
	assert.Equal(t, WeeklyRow{WeekStart: "2022-02-27", MemberID: "alice", Hours: 1}, rows[1])
	assert.Equal(t, WeeklyRow{WeekStart: "2022-03-06", MemberID: "alice", Hours: 5}, rows[2])
}

func TestDailyRows_DropsZeroSums(t *testing.T) {
	sums := map[DailyKey]float64{
		{Date: "2022-03-01", MemberID: "m1", JobID: "j1"}: 2,
		{Date: "2022-03-02", MemberID: "m1", JobID: "j1"}: 0,
	}

	rows := DailyRows(sums, RowFilter{})
	require.Len(t, rows, 1)
	assert.Equal(t, "2022-03-01", rows[0].Date)
}

func TestDailyRows_FilterAppliesAfterAggregation(t *testing.T) {
	// A session split across the range boundary keeps only its in-range part.
	sums := SumDaily([]DailyContribution{
		{Date: "2022-02-28", MemberID: "m1", JobID: "j1", Hours: 1},
		{Date: "2022-03-01", MemberID: "m1", JobID: "j1", Hours: 1},
		{Date: "2022-03-01", MemberID: "m2", JobID: "j2", Hours: 5},
	})

	rows := DailyRows(sums, RowFilter{
		StartDate: "2022-03-01",
		MemberIDs: []string{"m1"},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, DailyRow{Date: "2022-03-01", MemberID: "m1", JobID: "j1", Hours: 1}, rows[0])
}

func TestDailyRows_Sorted(t *testing.T) {
	sums := map[DailyKey]float64{
		{Date: "2022-03-02", MemberID: "m1", JobID: "j1"}: 1,
		{Date: "2022-03-01", MemberID: "m2", JobID: "j1"}: 1,
		{Date: "2022-03-01", MemberID: "m1", JobID: "j2"}: 1,
		{Date: "2022-03-01", MemberID: "m1", JobID: "j1"}: 1,
	}

	rows := DailyRows(sums, RowFilter{})
	require.Len(t, rows, 4)
	assert.Equal(t, DailyKey{"2022-03-01", "m1", "j1"}, DailyKey{rows[0].Date, rows[0].MemberID, rows[0].JobID})
	assert.Equal(t, DailyKey{"2022-03-01", "m2", "j1"}, DailyKey{rows[1].Date, rows[1].MemberID, rows[1].JobID})
	assert.Equal(t, DailyKey{"2022-03-01", "m1", "j2"}, DailyKey{rows[2].Date, rows[2].MemberID, rows[2].JobID})
	assert.Equal(t, "2022-03-02", rows[3].Date)
}

func TestSumByParentJob(t *testing.T) {
	jobs := []client.Job{
		{JobID: "parent", JobTree: "ws/parent"},
		{JobID: "child1", JobTree: "ws/parent/child1"},
		{JobID: "child2", JobTree: "ws/parent/child2"},
	}
	rows := []DailyRow{
		{Date: "2022-03-01", MemberID: "m1", JobID: "child1", Hours: 1},
		{Date: "2022-03-01", MemberID: "m1", JobID: "child2", Hours: 2},
	}

	var buf bytes.Buffer
	sums := SumByParentJob(rows, jobs, zerolog.New(&buf))
	assert.Empty(t, buf.String())
	require.Len(t, sums, 1)
	assert.InDelta(t, 3, sums[ParentKey{Date: "2022-03-01", ParentJobID: "parent", MemberID: "m1"}], 1e-9)
}

func TestSumByParentJob_UnresolvableParentWarnsAndDrops(t *testing.T) {
	jobs := []client.Job{
		{JobID: "root", JobTree: "ws/root"}, // top-level: no parent
	}
	rows := []DailyRow{
		{Date: "2022-03-01", MemberID: "m1", JobID: "root", Hours: 1},
		{Date: "2022-03-01", MemberID: "m1", JobID: "ghost", Hours: 2},
	}

	var buf bytes.Buffer
	sums := SumByParentJob(rows, jobs, zerolog.New(&buf))
	assert.Empty(t, sums)
	assert.Contains(t, buf.String(), "no parent job resolvable")
}
