package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kurusugawa-computer/annowork-cli/client"
	"github.com/kurusugawa-computer/annowork-cli/internal/reportio"
	"github.com/kurusugawa-computer/annowork-cli/internal/tally"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Subcommands for work schedules",
	}
	cmd.AddCommand(newScheduleListCmd())
	cmd.AddCommand(newScheduleListDailyCmd())
	cmd.AddCommand(newScheduleListDailyGroupbyTagCmd())
	return cmd
}

// assignedHours computes assigned working hours from schedules, the way
// every schedule-based report starts.
type assignedHours struct {
	cl          *client.Client
	workspaceID string
	log         zerolog.Logger
}

// resolveMemberIDs maps user ids to workspace member ids, warning for user
// ids no member carries.
func resolveMemberIDs(userIDs []string, snap *tally.Snapshot, log zerolog.Logger) []string {
	var memberIDs []string
	for _, userID := range userIDs {
		memberID, ok := snap.MemberIDByUserID(userID)
		if !ok {
			log.Warn().Str("user_id", userID).Msg("no workspace member for user id")
			continue
		}
		memberIDs = append(memberIDs, memberID)
	}
	return memberIDs
}

// fetchSchedules returns the schedules matching the query bounds.
func (a *assignedHours) fetchSchedules(ctx context.Context, startDate, endDate string, jobIDs, memberIDs []string) ([]client.Schedule, error) {
	return a.cl.GetSchedules(ctx, a.workspaceID, client.ScheduleQuery{
		TermStart: startDate,
		TermEnd:   endDate,
		JobIDs:    jobIDs,
		MemberIDs: memberIDs,
	})
}

// dailyRows fetches schedules plus the expected-working-hours table they
// reference, decomposes each schedule into per-day assigned hours and
// aggregates per (date, member, job). Records with malformed dates are
// skipped with a warning; the date/job/member filters are applied after
// aggregation.
func (a *assignedHours) dailyRows(ctx context.Context, filter tally.RowFilter) ([]tally.DailyRow, error) {
	schedules, err := a.fetchSchedules(ctx, filter.StartDate, filter.EndDate, filter.JobIDs, filter.MemberIDs)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, nil
	}

	minDate, maxDate := scheduleDateSpan(schedules)
	a.log.Debug().Str("term_start", minDate).Str("term_end", maxDate).Msg("fetching expected working times")
	expectedTimes, err := a.cl.GetExpectedWorkingTimes(ctx, a.workspaceID, client.TermQuery{TermStart: minDate, TermEnd: maxDate})
	if err != nil {
		return nil, err
	}
	expected := tally.ExpectedHoursByDateMember(expectedTimes)

	var contribs []tally.DailyContribution
	for _, s := range schedules {
		cs, err := tally.DecomposeSchedule(s, expected)
		if err != nil {
			a.log.Warn().Err(err).Str("schedule_id", s.ScheduleID).Msg("skipping schedule")
			continue
		}
		contribs = append(contribs, cs...)
	}

	return tally.DailyRows(tally.SumDaily(contribs), filter), nil
}

func scheduleDateSpan(schedules []client.Schedule) (minDate, maxDate string) {
	for i, s := range schedules {
		if i == 0 || s.StartDate < minDate {
			minDate = s.StartDate
		}
		if i == 0 || s.EndDate > maxDate {
			maxDate = s.EndDate
		}
	}
	return minDate, maxDate
}

// snapshot fetches the job and member reference lists once per run.
func fetchSnapshot(ctx context.Context, cl *client.Client, workspaceID string, log zerolog.Logger) (*tally.Snapshot, error) {
	jobs, err := cl.GetJobs(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	members, err := cl.GetMembers(ctx, workspaceID, true)
	if err != nil {
		return nil, err
	}
	return tally.NewSnapshot(jobs, members, log), nil
}

// fetchTagMembers resolves each tag's member id set.
func fetchTagMembers(ctx context.Context, cl *client.Client, workspaceID string, tags []client.WorkspaceTag) (tally.TagMembers, error) {
	members := make(tally.TagMembers, len(tags))
	for _, tag := range tags {
		tagMembers, err := cl.GetTagMembers(ctx, workspaceID, tag.TagID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(tagMembers))
		for _, m := range tagMembers {
			ids = append(ids, m.MemberID)
		}
		members[tag.TagID] = ids
	}
	return members, nil
}

// scheduleFilterFlags is the shared narrowing flag set.
type scheduleFilterFlags struct {
	workspaceID string
	startDate   string
	endDate     string
	jobIDs      []string
	userIDs     []string
}

func (f *scheduleFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.workspaceID, "workspace_id", "w", "", "Target workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace_id")
	cmd.Flags().StringVar(&f.startDate, "start_date", "", "Inclusive start of the aggregation range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end_date", "", "Inclusive end of the aggregation range (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&f.jobIDs, "job_id", "j", nil, "Job ids to narrow by, or a single file://path with one id per line")
	cmd.Flags().StringSliceVarP(&f.userIDs, "user_id", "u", nil, "User ids to narrow by, or a single file://path with one id per line")
}

func (f *scheduleFilterFlags) empty(jobIDs, userIDs []string) bool {
	return f.startDate == "" && f.endDate == "" && len(jobIDs) == 0 && len(userIDs) == 0
}

func newScheduleListCmd() *cobra.Command {
	var filter scheduleFilterFlags
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
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

			lister := &assignedHours{cl: cl, workspaceID: filter.workspaceID, log: log.Logger}
			schedules, err := lister.fetchSchedules(ctx, filter.startDate, filter.endDate, jobIDs, memberIDs)
			if err != nil {
				return err
			}
			if len(schedules) == 0 {
				log.Warn().Msg("no schedules found; nothing to output")
				return nil
			}

			rows := make([]reportio.Row, 0, len(schedules))
			for _, s := range schedules {
				userID, username := snap.MemberNames(s.MemberID)
				rows = append(rows, reportio.Row{
					"schedule_id":         s.ScheduleID,
					"start_date":          s.StartDate,
					"end_date":            s.EndDate,
					"job_id":              s.JobID,
					"job_name":            snap.JobName(s.JobID),
					"workspace_member_id": s.MemberID,
					"user_id":             userID,
					"username":            username,
					"type":                string(s.Type),
					"value":               s.Value,
				})
			}

			log.Info().Int("count", len(rows)).Msg("writing schedules")
			columns := []string{"schedule_id", "start_date", "end_date", "job_id", "job_name", "workspace_member_id", "user_id", "username", "type", "value"}
			return emit(out.output, format, columns, rows)
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "Output path (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "csv", "Output format (csv|json)")
	return cmd
}

func newScheduleListDailyCmd() *cobra.Command {
	var filter scheduleFilterFlags
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "list_daily",
		Short: "Output assigned working hours per day, member and job",
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

			lister := &assignedHours{cl: cl, workspaceID: filter.workspaceID, log: log.Logger}
			dailyRows, err := lister.dailyRows(ctx, tally.RowFilter{
				StartDate: filter.startDate,
				EndDate:   filter.endDate,
				JobIDs:    jobIDs,
				MemberIDs: memberIDs,
			})
			if err != nil {
				return err
			}
			if len(dailyRows) == 0 {
				log.Warn().Msg("no assigned working hours; nothing to output")
				return nil
			}

			rows := make([]reportio.Row, 0, len(dailyRows))
			for _, r := range dailyRows {
				userID, username := snap.MemberNames(r.MemberID)
				rows = append(rows, reportio.Row{
					"date":                   r.Date,
					"job_id":                 r.JobID,
					"job_name":               snap.JobName(r.JobID),
					"workspace_member_id":    r.MemberID,
					"user_id":                userID,
					"username":               username,
					"assigned_working_hours": r.Hours,
				})
			}

			log.Info().Int("count", len(rows)).Msg("writing assigned working hours")
			columns := []string{"date", "job_id", "job_name", "workspace_member_id", "user_id", "username", "assigned_working_hours"}
			return emit(out.output, format, columns, rows)
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "Output path (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "csv", "Output format (csv|json)")
	return cmd
}

func newScheduleListDailyGroupbyTagCmd() *cobra.Command {
	var filter scheduleFilterFlags
	var out outputFlags
	var tagIDs, tagNames []string

	cmd := &cobra.Command{
		Use:   "list_daily_groupby_tag",
		Short: "Output daily assigned working hours aggregated by workspace tag",
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
				return usageErrorf("specify at least one of --start_date, --end_date, --job_id or --user_id")
			}
			tagFilter, err := parseTagFilter(tagIDs, tagNames)
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

			lister := &assignedHours{cl: cl, workspaceID: filter.workspaceID, log: log.Logger}
			dailyRows, err := lister.dailyRows(ctx, tally.RowFilter{
				StartDate: filter.startDate,
				EndDate:   filter.endDate,
				JobIDs:    jobIDs,
				MemberIDs: memberIDs,
			})
			if err != nil {
				return err
			}
			if len(dailyRows) == 0 {
				log.Warn().Msg("no assigned working hours; nothing to output")
				return nil
			}

			allTags, err := cl.GetTags(ctx, filter.workspaceID)
			if err != nil {
				return err
			}
			tags := tagFilter.Select(allTags, log.Logger)
			tagMembers, err := fetchTagMembers(ctx, cl, filter.workspaceID, tags)
			if err != nil {
				return err
			}

			grouped := tally.SumByTagAndJob(dailyRows, tags, tagMembers)
			rows := make([]reportio.Row, 0, len(grouped))
			for _, g := range grouped {
				row := reportio.Row{
					"date":     g.Date,
					"job_id":   g.JobID,
					"job_name": snap.JobName(g.JobID),
				}
				for tag, hours := range g.Hours {
					row[fmt.Sprintf("assigned_working_hours.%s", tag)] = hours
				}
				rows = append(rows, row)
			}

			log.Info().Int("count", len(rows)).Msg("writing assigned working hours grouped by tag")
			leading := []string{"date", "job_id", "job_name", "assigned_working_hours.total"}
			return emit(out.output, format, reportio.Columns(rows, leading), rows)
		},
	}

	filter.register(cmd)
	registerTagFlags(cmd, &tagIDs, &tagNames)
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "Output path (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "csv", "Output format (csv|json)")
	return cmd
}

// registerTagFlags adds the mutually exclusive tag selection flags.
func registerTagFlags(cmd *cobra.Command, tagIDs, tagNames *[]string) {
	cmd.Flags().StringSliceVar(tagIDs, "tag_id", nil, "Workspace tag ids to report on (default: all tags)")
	cmd.Flags().StringSliceVar(tagNames, "tag_name", nil, "Workspace tag names to report on (default: all tags)")
}

// parseTagFilter enforces that the id and name selections are mutually
// exclusive.
func parseTagFilter(tagIDs, tagNames []string) (tally.TagFilter, error) {
	ids, err := resolveList(tagIDs)
	if err != nil {
		return tally.TagFilter{}, err
	}
	names, err := resolveList(tagNames)
	if err != nil {
		return tally.TagFilter{}, err
	}
	switch {
	case len(ids) > 0 && len(names) > 0:
		return tally.TagFilter{}, usageErrorf("--tag_id and --tag_name are mutually exclusive")
	case len(ids) > 0:
		return tally.TagsByID(ids), nil
	case len(names) > 0:
		return tally.TagsByName(names), nil
	default:
		return tally.AllTags(), nil
	}
}
