package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kurusugawa-computer/annowork-cli/client"
	"github.com/kurusugawa-computer/annowork-cli/internal/reportio"
	"github.com/kurusugawa-computer/annowork-cli/internal/tally"
)

func newActualWorkingTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actual_working_time",
		Short: "Subcommands for logged actual working times",
	}
	cmd.AddCommand(newActualListDailyCmd())
	cmd.AddCommand(newActualListWeeklyCmd())
	return cmd
}

// actualDailyContribs fetches actual working times and decomposes them
// into per-day contributions in the calendar of loc. Sessions with a
// malformed start timestamp are skipped with a warning.
func actualDailyContribs(ctx context.Context, cl *client.Client, workspaceID string, q client.ActualQuery, loc *time.Location, log zerolog.Logger) ([]tally.DailyContribution, error) {
	times, err := cl.GetActualWorkingTimes(ctx, workspaceID, q)
	if err != nil {
		return nil, err
	}
	var contribs []tally.DailyContribution
	for _, a := range times {
		cs, err := tally.DecomposeActual(a, loc)
		if err != nil {
			log.Warn().Err(err).Str("actual_working_time_id", a.ID).Msg("skipping actual working time")
			continue
		}
		contribs = append(contribs, cs...)
	}
	return contribs, nil
}

// tzLocation interprets the --timezone_offset flag; unset means local time.
func tzLocation(offsetHours int, set bool) *time.Location {
	if !set {
		return time.Local
	}
	return time.FixedZone("", offsetHours*60*60)
}

func newActualListDailyCmd() *cobra.Command {
	var filter scheduleFilterFlags
	var out outputFlags
	var tzOffset int

	cmd := &cobra.Command{
		Use:   "list_daily",
		Short: "Output actual working hours per day, member and job",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := out.parse()
			if err != nil {
				return err
			}
			jobIDs, err := resolveList(filter.jobIDs)
			if err != nil {
				return err
			}
			userIDs, err := resolveList(filter.userIDs)
			if err != nil {
				return err
			}
			if filter.empty(jobIDs, userIDs) {
				log.Warn().Msg("no narrowing filter given; the query may fetch more data than the API can return")
			}

			cl, err := buildClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			snap, err := fetchSnapshot(ctx, cl, filter.workspaceID, log.Logger)
			if err != nil {
				return err
			}
			memberIDs := resolveMemberIDs(userIDs, snap, log.Logger)
			if len(userIDs) > 0 && len(memberIDs) == 0 {
				log.Warn().Msg("none of the given user ids matched a workspace member")
				return nil
			}

			loc := tzLocation(tzOffset, cmd.Flags().Changed("timezone_offset"))
			contribs, err := actualDailyContribs(ctx, cl, filter.workspaceID, client.ActualQuery{
				TermStart: filter.startDate,
				TermEnd:   filter.endDate,
				JobIDs:    jobIDs,
			}, loc, log.Logger)
			if err != nil {
				return err
			}

			dailyRows := tally.DailyRows(tally.SumDaily(contribs), tally.RowFilter{
				StartDate: filter.startDate,
				EndDate:   filter.endDate,
				JobIDs:    jobIDs,
				MemberIDs: memberIDs,
			})
			if len(dailyRows) == 0 {
				log.Warn().Msg("no actual working hours; nothing to output")
				return nil
			}

			rows := make([]reportio.Row, 0, len(dailyRows))
			for _, r := range dailyRows {
				userID, username := snap.MemberNames(r.MemberID)
				rows = append(rows, reportio.Row{
					"date":                 r.Date,
					"job_id":               r.JobID,
					"job_name":             snap.JobName(r.JobID),
					"workspace_member_id":  r.MemberID,
					"user_id":              userID,
					"username":             username,
					"actual_working_hours": r.Hours,
				})
			}

			log.Info().Int("count", len(rows)).Msg("writing actual working hours")
			columns := []string{"date", "job_id", "job_name", "workspace_member_id", "user_id", "username", "actual_working_hours"}
			return emit(out.output, format, columns, rows)
		},
	}

	filter.register(cmd)
	cmd.Flags().IntVar(&tzOffset, "timezone_offset", 0, "Fixed UTC offset in hours used to assign sessions to calendar dates (default: local time)")
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "Output path (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "csv", "Output format (csv|json)")
	return cmd
}

func newActualListWeeklyCmd() *cobra.Command {
	var filter scheduleFilterFlags
	var out outputFlags
	var tzOffset int

	cmd := &cobra.Command{
		Use:   "list_weekly",
		Short: "Output actual working hours per week (Sunday through Saturday) and member",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := out.parse()
			if err != nil {
				return err
			}
			jobIDs, err := resolveList(filter.jobIDs)
			if err != nil {
				return err
			}
			userIDs, err := resolveList(filter.userIDs)
			if err != nil {
				return err
			}

			cl, err := buildClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			snap, err := fetchSnapshot(ctx, cl, filter.workspaceID, log.Logger)
			if err != nil {
				return err
			}
			memberIDs := resolveMemberIDs(userIDs, snap, log.Logger)
			if len(userIDs) > 0 && len(memberIDs) == 0 {
				log.Warn().Msg("none of the given user ids matched a workspace member")
				return nil
			}

			loc := tzLocation(tzOffset, cmd.Flags().Changed("timezone_offset"))
			contribs, err := actualDailyContribs(ctx, cl, filter.workspaceID, client.ActualQuery{
				TermStart: filter.startDate,
				TermEnd:   filter.endDate,
				JobIDs:    jobIDs,
			}, loc, log.Logger)
			if err != nil {
				return err
			}

			if len(memberIDs) > 0 {
				contribs = filterContribsByMember(contribs, memberIDs)
			}
			weeklySums, err := tally.SumWeekly(contribs)
			if err != nil {
				return err
			}
			weeklyRows := tally.WeeklyRows(weeklySums)
			if len(weeklyRows) == 0 {
				log.Warn().Msg("no actual working hours; nothing to output")
				return nil
			}

			rows := make([]reportio.Row, 0, len(weeklyRows))
			for _, r := range weeklyRows {
				userID, username := snap.MemberNames(r.MemberID)
				rows = append(rows, reportio.Row{
					"start_date":           r.WeekStart,
					"workspace_member_id":  r.MemberID,
					"user_id":              userID,
					"username":             username,
					"actual_working_hours": r.Hours,
				})
			}

			log.Info().Int("count", len(rows)).Msg("writing weekly actual working hours")
			columns := []string{"start_date", "workspace_member_id", "user_id", "username", "actual_working_hours"}
			return emit(out.output, format, columns, rows)
		},
	}

	filter.register(cmd)
	cmd.Flags().IntVar(&tzOffset, "timezone_offset", 0, "Fixed UTC offset in hours used to assign sessions to calendar dates (default: local time)")
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "Output path (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "csv", "Output format (csv|json)")
	return cmd
}

func filterContribsByMember(contribs []tally.DailyContribution, memberIDs []string) []tally.DailyContribution {
	allowed := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		allowed[id] = struct{}{}
	}
	var out []tally.DailyContribution
	for _, c := range contribs {
		if _, ok := allowed[c.MemberID]; ok {
			out = append(out, c)
		}
	}
	return out
}
