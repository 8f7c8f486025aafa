package annofab

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLocation(t *testing.T) {
	// 22:00 UTC on March 1 is 07:00 on March 2 in Annofab's calendar.
	utc := time.Date(2022, 3, 1, 22, 0, 0, 0, time.UTC)
	got := utc.In(Location()).Format("2006-01-02")
	if got != "2022-03-02" {
		t.Fatalf("date in JST = %s, want 2022-03-02", got)
	}
}

func TestWriteLaborCSV(t *testing.T) {
	labors := []Labor{
		{Date: "2022-03-01", AccountID: "af-1", ProjectID: "prj1", ActualWorktimeHour: 2.5},
	}

	var buf bytes.Buffer
	if err := WriteLaborCSV(&buf, labors); err != nil {
		t.Fatalf("WriteLaborCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0] != "date,account_id,project_id,actual_worktime_hour" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2022-03-01,af-1,prj1,2.5" {
		t.Errorf("row = %q", lines[1])
	}
}
