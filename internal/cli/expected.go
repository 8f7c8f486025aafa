package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kurusugawa-computer/annowork-cli/client"
	"github.com/kurusugawa-computer/annowork-cli/internal/reportio"
	"github.com/kurusugawa-computer/annowork-cli/internal/tally"
)

func newExpectedWorkingTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expected_working_time",
		Short: "Subcommands for expected working times",
	}
	cmd.AddCommand(newExpectedListGroupbyTagCmd())
	return cmd
}

func newExpectedListGroupbyTagCmd() *cobra.Command {
	var workspaceID, startDate, endDate string
	var userIDFlags, tagIDs, tagNames []string
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "list_groupby_tag",
		Short: "Output daily expected working hours aggregated by workspace tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := out.parse()
			if err != nil {
				return err
			}
			userIDs, err := resolveList(userIDFlags)
			if err != nil {
				return err
			}
			if startDate == "" && endDate == "" && len(userIDs) == 0 {
				return usageErrorf("specify at least one of --start_date, --end_date or --user_id")
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

			term := client.TermQuery{TermStart: startDate, TermEnd: endDate}
			var expectedTimes []client.ExpectedWorkingTime
			if len(userIDs) > 0 {
				snap, err := fetchSnapshot(ctx, cl, workspaceID, log.Logger)
				if err != nil {
					return err
				}
				for _, userID := range userIDs {
					memberID, ok := snap.MemberIDByUserID(userID)
					if !ok {
						log.Warn().Str("user_id", userID).Msg("no workspace member for user id")
						continue
					}
					times, err := cl.GetExpectedWorkingTimesByMember(ctx, workspaceID, memberID, term)
					if err != nil {
						return err
					}
					expectedTimes = append(expectedTimes, times...)
				}
			} else {
				expectedTimes, err = cl.GetExpectedWorkingTimes(ctx, workspaceID, term)
				if err != nil {
					return err
				}
			}
			if len(expectedTimes) == 0 {
				log.Warn().Msg("no expected working times; nothing to output")
				return nil
			}

			dailyRows := make([]tally.DailyRow, 0, len(expectedTimes))
			for _, e := range expectedTimes {
				dailyRows = append(dailyRows, tally.DailyRow{Date: e.Date, MemberID: e.MemberID, Hours: e.Hours})
			}

			allTags, err := cl.GetTags(ctx, workspaceID)
			if err != nil {
				return err
			}
			tags := tagFilter.Select(allTags, log.Logger)
			tagMembers, err := fetchTagMembers(ctx, cl, workspaceID, tags)
			if err != nil {
				return err
			}

			grouped := tally.SumByTag(dailyRows, tags, tagMembers)
			rows := make([]reportio.Row, 0, len(grouped))
			for _, g := range grouped {
				row := reportio.Row{"date": g.Date}
				for tag, hours := range g.Hours {
					row[fmt.Sprintf("expected_working_hours.%s", tag)] = hours
				}
				rows = append(rows, row)
			}

			log.Info().Int("count", len(rows)).Msg("writing expected working hours grouped by tag")
			leading := []string{"date", "expected_working_hours.total"}
			return emit(out.output, format, reportio.Columns(rows, leading), rows)
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace_id", "w", "", "Target workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace_id")
	cmd.Flags().StringVar(&startDate, "start_date", "", "Inclusive start of the aggregation range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end_date", "", "Inclusive end of the aggregation range (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&userIDFlags, "user_id", "u", nil, "User ids to aggregate, or a single file://path with one id per line")
	registerTagFlags(cmd, &tagIDs, &tagNames)
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "Output path (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "csv", "Output format (csv|json)")
	return cmd
}
