package annofab

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kurusugawa-computer/annowork-cli/internal/reportio"
)

// laborColumns is the header annofabcli expects.
var laborColumns = []string{"date", "account_id", "project_id", "actual_worktime_hour"}

// WriteLaborCSV renders labor rows in the annofabcli interchange format.
func WriteLaborCSV(w io.Writer, labors []Labor) error {
	rows := make([]reportio.Row, 0, len(labors))
	for _, l := range labors {
		rows = append(rows, reportio.Row{
			"date":                 l.Date,
			"account_id":           l.AccountID,
			"project_id":           l.ProjectID,
			"actual_worktime_hour": l.ActualWorktimeHour,
		})
	}
	return reportio.WriteCSV(w, laborColumns, rows)
}

// VisualizeParams are the options forwarded to `annofabcli statistics
// visualize` alongside the generated labor CSV.
type VisualizeParams struct {
	OutputDir   string
	ProjectIDs  []string
	UserIDs     []string
	StartDate   string
	EndDate     string
	Minimal     bool
	Latest      bool
	Parallelism int
}

// RunVisualize writes the labor CSV into tempDir and shells out to
// annofabcli. The subprocess inherits stdout/stderr so its progress is
// visible to the operator.
func RunVisualize(ctx context.Context, tempDir string, labors []Labor, p VisualizeParams, log zerolog.Logger) error {
	laborCSV := filepath.Join(tempDir, "annofab_labor.csv")
	f, err := os.Create(laborCSV)
	if err != nil {
		return err
	}
	if err := WriteLaborCSV(f, labors); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	args := []string{
		"statistics", "visualize",
		"--output_dir", p.OutputDir,
		"--labor_csv", laborCSV,
	}
	if len(p.ProjectIDs) > 0 {
		args = append(args, "--project_id")
		args = append(args, p.ProjectIDs...)
	}
	if len(p.UserIDs) > 0 {
		args = append(args, "--user_id")
		args = append(args, p.UserIDs...)
	}
	if p.StartDate != "" {
		args = append(args, "--start_date", p.StartDate)
	}
	if p.EndDate != "" {
		args = append(args, "--end_date", p.EndDate)
	}
	if p.Minimal {
		args = append(args, "--minimal")
	}
	if p.Latest {
		args = append(args, "--latest")
	}
	if p.Parallelism > 0 {
		args = append(args, "--parallelism", strconv.Itoa(p.Parallelism))
	}

	cmd := exec.CommandContext(ctx, "annofabcli", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Debug().Str("command", "annofabcli "+strings.Join(args, " ")).Msg("running annofabcli")
	return cmd.Run()
}
