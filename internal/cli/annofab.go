package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kurusugawa-computer/annowork-cli/client"
	"github.com/kurusugawa-computer/annowork-cli/internal/annofab"
	"github.com/kurusugawa-computer/annowork-cli/internal/reportio"
	"github.com/kurusugawa-computer/annowork-cli/internal/tally"
)

func newAnnofabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annofab",
		Short: "Subcommands bridging Annowork data to Annofab",
	}
	cmd.AddCommand(newAnnofabListAssignedHoursCmd())
	cmd.AddCommand(newAnnofabVisualizeStatisticsCmd())
	cmd.AddCommand(newAnnofabPutAccountExternalLinkageInfoCmd())
	return cmd
}

// parentJobIDsForProjects returns the parent job ids of jobs linked to the
// given Annofab projects.
func parentJobIDsForProjects(jobs []client.Job, projectIDs []string) []string {
	wanted := make(map[string]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = struct{}{}
	}
	seen := make(map[string]struct{})
	var parents []string
	for _, j := range jobs {
		if _, ok := wanted[j.AnnofabProjectID()]; !ok {
			continue
		}
		parentID := j.ParentJobID()
		if parentID == "" {
			continue
		}
		if _, dup := seen[parentID]; !dup {
			seen[parentID] = struct{}{}
			parents = append(parents, parentID)
		}
	}
	return parents
}

// childJobIDs returns the ids of jobs whose direct parent is in parentIDs.
func childJobIDs(jobs []client.Job, parentIDs []string) []string {
	wanted := make(map[string]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = struct{}{}
	}
	var children []string
	for _, j := range jobs {
		if _, ok := wanted[j.ParentJobID()]; ok {
			children = append(children, j.JobID)
		}
	}
	return children
}

// annofabAccountResolver maps Annowork user ids to Annofab account ids via
// the account external-linkage records, caching per run.
type annofabAccountResolver struct {
	cl    *client.Client
	cache map[string]string
	log   zerolog.Logger
}

func newAnnofabAccountResolver(cl *client.Client, log zerolog.Logger) *annofabAccountResolver {
	return &annofabAccountResolver{cl: cl, cache: make(map[string]string), log: log}
}

func (r *annofabAccountResolver) resolve(ctx context.Context, userID string) (string, error) {
	if id, ok := r.cache[userID]; ok {
		return id, nil
	}
	info, err := r.cl.GetAccountExternalLinkageInfo(ctx, userID)
	if err != nil {
		return "", err
	}
	accountID := ""
	if info != nil {
		accountID = info.AnnofabAccountID()
	}
	if accountID == "" {
		r.log.Warn().Str("user_id", userID).Msg("no Annofab account id in the account external linkage info")
	}
	r.cache[userID] = accountID
	return accountID, nil
}

func newAnnofabListAssignedHoursCmd() *cobra.Command {
	var workspaceID, startDate, endDate string
	var projectIDFlags, userIDFlags []string
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "list_assigned_hours",
		Short: "Output daily assigned hours of jobs linked to Annofab projects, rolled up to parent jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := out.parse()
			if err != nil {
				return err
			}
			projectIDs, err := resolveList(projectIDFlags)
			if err != nil {
				return err
			}
			userIDs, err := resolveList(userIDFlags)
			if err != nil {
				return err
			}

			cl, err := buildClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			jobs, err := cl.GetJobs(ctx, workspaceID)
			if err != nil {
				return err
			}
			members, err := cl.GetMembers(ctx, workspaceID, true)
			if err != nil {
				return err
			}
			snap := tally.NewSnapshot(jobs, members, log.Logger)

			parentIDs := parentJobIDsForProjects(jobs, projectIDs)
			if len(parentIDs) == 0 {
				log.Warn().Strs("annofab_project_id", projectIDs).Msg("no jobs linked to the given Annofab projects")
				return nil
			}
			jobIDs := childJobIDs(jobs, parentIDs)

			memberIDs := resolveMemberIDs(userIDs, snap, log.Logger)
			if len(userIDs) > 0 && len(memberIDs) == 0 {
				log.Warn().Msg("none of the given user ids matched a workspace member")
				return nil
			}

			lister := &assignedHours{cl: cl, workspaceID: workspaceID, log: log.Logger}
			dailyRows, err := lister.dailyRows(ctx, tally.RowFilter{
				StartDate: startDate,
				EndDate:   endDate,
				JobIDs:    jobIDs,
				MemberIDs: memberIDs,
			})
			if err != nil {
				return err
			}

			parentRows := tally.ParentRows(tally.SumByParentJob(dailyRows, jobs, log.Logger))
			if len(parentRows) == 0 {
				log.Warn().Msg("no assigned working hours; nothing to output")
				return nil
			}

			resolver := newAnnofabAccountResolver(cl, log.Logger)
			rows := make([]reportio.Row, 0, len(parentRows))
			for _, r := range parentRows {
				userID, username := snap.MemberNames(r.MemberID)
				var annofabAccountID *string
				if userID != nil {
					id, err := resolver.resolve(ctx, *userID)
					if err != nil {
						return err
					}
					if id != "" {
						annofabAccountID = &id
					}
				}
				rows = append(rows, reportio.Row{
					"date":                   r.Date,
					"parent_job_id":          r.ParentJobID,
					"parent_job_name":        snap.JobName(r.ParentJobID),
					"workspace_member_id":    r.MemberID,
					"user_id":                userID,
					"username":               username,
					"assigned_working_hours": r.Hours,
					"annofab_account_id":     annofabAccountID,
				})
			}

			log.Info().Int("count", len(rows)).Msg("writing assigned working hours for Annofab projects")
			columns := []string{"date", "parent_job_id", "parent_job_name", "workspace_member_id", "user_id", "username", "assigned_working_hours", "annofab_account_id"}
			return emit(out.output, format, columns, rows)
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace_id", "w", "", "Target workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace_id")
	cmd.Flags().StringSliceVar(&projectIDFlags, "annofab_project_id", nil, "Annofab project ids to report on (required)")
	_ = cmd.MarkFlagRequired("annofab_project_id")
	cmd.Flags().StringVar(&startDate, "start_date", "", "Inclusive start of the aggregation range (YYYY-MM-DD) (required)")
	_ = cmd.MarkFlagRequired("start_date")
	cmd.Flags().StringVar(&endDate, "end_date", "", "Inclusive end of the aggregation range (YYYY-MM-DD) (required)")
	_ = cmd.MarkFlagRequired("end_date")
	cmd.Flags().StringSliceVarP(&userIDFlags, "user_id", "u", nil, "User ids to narrow by, or a single file://path with one id per line")
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "Output path (default: stdout)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "csv", "Output format (csv|json)")
	return cmd
}

func newAnnofabVisualizeStatisticsCmd() *cobra.Command {
	var workspaceID, startDate, endDate, outputDir, tempDir string
	var jobIDFlags, projectIDFlags, userIDFlags []string
	var minimal, latest bool
	var parallelism int

	cmd := &cobra.Command{
		Use:   "visualize_statistics",
		Short: "Build the Annofab labor CSV and run `annofabcli statistics visualize`",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobIDs, err := resolveList(jobIDFlags)
			if err != nil {
				return err
			}
			projectIDs, err := resolveList(projectIDFlags)
			if err != nil {
				return err
			}
			userIDs, err := resolveList(userIDFlags)
			if err != nil {
				return err
			}
			if len(jobIDs) == 0 && len(projectIDs) == 0 {
				return usageErrorf("specify --job_id or --annofab_project_id")
			}
			if len(jobIDs) > 0 && len(projectIDs) > 0 {
				return usageErrorf("--job_id and --annofab_project_id are mutually exclusive")
			}

			cl, err := buildClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			jobs, err := cl.GetJobs(ctx, workspaceID)
			if err != nil {
				return err
			}
			members, err := cl.GetMembers(ctx, workspaceID, true)
			if err != nil {
				return err
			}
			snap := tally.NewSnapshot(jobs, members, log.Logger)

			// Resolve the job <-> Annofab project mapping in whichever
			// direction the caller specified.
			projectByJob := make(map[string]string)
			for _, j := range jobs {
				if id := j.AnnofabProjectID(); id != "" {
					projectByJob[j.JobID] = id
				}
			}
			if len(projectIDs) > 0 {
				wanted := make(map[string]struct{}, len(projectIDs))
				for _, id := range projectIDs {
					wanted[id] = struct{}{}
				}
				for jobID, projectID := range projectByJob {
					if _, ok := wanted[projectID]; ok {
						jobIDs = append(jobIDs, jobID)
					}
				}
				if len(jobIDs) == 0 {
					log.Warn().Strs("annofab_project_id", projectIDs).Msg("no jobs linked to the given Annofab projects")
					return nil
				}
			} else {
				for _, jobID := range jobIDs {
					if _, ok := projectByJob[jobID]; !ok {
						log.Warn().Str("job_id", jobID).Msg("job has no Annofab project in its external linkage info")
					}
				}
			}

			// Annofab dates are fixed to JST.
			contribs, err := actualDailyContribs(ctx, cl, workspaceID, client.ActualQuery{
				TermStart: startDate,
				TermEnd:   endDate,
				JobIDs:    jobIDs,
			}, annofab.Location(), log.Logger)
			if err != nil {
				return err
			}
			dailyRows := tally.DailyRows(tally.SumDaily(contribs), tally.RowFilter{
				StartDate: startDate,
				EndDate:   endDate,
			})

			resolver := newAnnofabAccountResolver(cl, log.Logger)
			var labors []annofab.Labor
			for _, r := range dailyRows {
				projectID, ok := projectByJob[r.JobID]
				if !ok {
					continue
				}
				userID, _ := snap.MemberNames(r.MemberID)
				if userID == nil {
					continue
				}
				accountID, err := resolver.resolve(ctx, *userID)
				if err != nil {
					return err
				}
				if accountID == "" {
					return fmt.Errorf("user %s has no Annofab account id in the account external linkage info", *userID)
				}
				labors = append(labors, annofab.Labor{
					Date:               r.Date,
					AccountID:          accountID,
					ProjectID:          projectID,
					ActualWorktimeHour: r.Hours,
				})
			}

			visualizeProjectIDs := projectIDs
			if len(visualizeProjectIDs) == 0 {
				seen := make(map[string]struct{})
				for _, jobID := range jobIDs {
					if projectID, ok := projectByJob[jobID]; ok {
						if _, dup := seen[projectID]; !dup {
							seen[projectID] = struct{}{}
							visualizeProjectIDs = append(visualizeProjectIDs, projectID)
						}
					}
				}
			}

			dir := tempDir
			if dir == "" {
				dir, err = os.MkdirTemp("", "annoworkcli")
				if err != nil {
					return err
				}
				defer func() { _ = os.RemoveAll(dir) }()
			}

			return annofab.RunVisualize(ctx, dir, labors, annofab.VisualizeParams{
				OutputDir:   outputDir,
				ProjectIDs:  visualizeProjectIDs,
				UserIDs:     userIDs,
				StartDate:   startDate,
				EndDate:     endDate,
				Minimal:     minimal,
				Latest:      latest,
				Parallelism: parallelism,
			}, log.Logger)
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace_id", "w", "", "Target workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace_id")
	cmd.Flags().StringSliceVarP(&jobIDFlags, "job_id", "j", nil, "Job ids to visualize")
	cmd.Flags().StringSliceVar(&projectIDFlags, "annofab_project_id", nil, "Annofab project ids to visualize")
	cmd.Flags().StringSliceVarP(&userIDFlags, "user_id", "u", nil, "User ids forwarded to annofabcli")
	cmd.Flags().StringVar(&startDate, "start_date", "", "Inclusive start of the aggregation range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end_date", "", "Inclusive end of the aggregation range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&outputDir, "output_dir", "", "Directory annofabcli writes the visualization into (required)")
	_ = cmd.MarkFlagRequired("output_dir")
	cmd.Flags().StringVar(&tempDir, "temp_dir", "", "Directory for the intermediate labor CSV (default: a fresh temp dir, removed afterwards)")
	cmd.Flags().BoolVar(&minimal, "minimal", false, "Forwarded to annofabcli: produce the minimal output set")
	cmd.Flags().BoolVar(&latest, "latest", false, "Forwarded to annofabcli: use the latest task data")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "Forwarded to annofabcli: degree of parallelism")
	return cmd
}

func newAnnofabPutAccountExternalLinkageInfoCmd() *cobra.Command {
	var userID, linkageArg string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "put_account_external_linkage_info",
		Short: "Set the account external linkage info (e.g. the Annofab account id) for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readJSONArg(linkageArg)
			if err != nil {
				return err
			}
			var linkage map[string]any
			if err := json.Unmarshal(data, &linkage); err != nil {
				return usageErrorf("--external_linkage_info is not a JSON object: %v", err)
			}

			cl, err := buildClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			current, err := cl.GetAccountExternalLinkageInfo(ctx, userID)
			if err != nil {
				return err
			}
			if current == nil {
				log.Warn().Str("user_id", userID).Msg("account does not exist")
				return nil
			}
			if current.AnnofabAccountID() != "" && !overwrite {
				log.Info().Str("user_id", userID).Msg("Annofab account id already set; use --overwrite to replace it")
				return nil
			}

			info := client.AccountExternalLinkageInfo{
				ExternalLinkageInfo: linkage,
				UpdatedDatetime:     current.UpdatedDatetime,
			}
			if err := cl.PutAccountExternalLinkageInfo(ctx, userID, info); err != nil {
				return err
			}
			log.Info().Str("user_id", userID).Msg("account external linkage info updated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user_id", "u", "", "User whose linkage info to set (required)")
	_ = cmd.MarkFlagRequired("user_id")
	cmd.Flags().StringVar(&linkageArg, "external_linkage_info", "", "Linkage info as a JSON object, or file://path to one (required)")
	_ = cmd.MarkFlagRequired("external_linkage_info")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an already-set Annofab account id")
	return cmd
}
