// AngelaMos | 2026
// sweep_command.go

package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/reconcile"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var (
		olderThan time.Duration
		limit     int
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Reconcile video uploads stuck in a non-terminal phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("older-than") {
				olderThan = cfg.Reconcile.StaleAfter
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Reconcile.BatchSize
			}

			svcs, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}

			items, err := svcs.Reconcile.Sweep(cmd.Context(), olderThan, limit, dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No uploads older than %s awaiting reconciliation\n", olderThan)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Upload", "Owner", "Stored", "Phase", "Persisted", "Error"},
				sweepRows(items),
			))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", time.Hour, "Minimum age of the job's last update")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum jobs to reconcile")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List stale jobs without contacting the provider")
	return cmd
}

func sweepRows(items []reconcile.SweepItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		phase, persisted, errText := "-", "-", ""
		if item.Result != nil {
			phase = string(item.Result.Phase)
			persisted = strconv.FormatBool(item.Result.Persisted)
		}
		if item.Err != nil {
			errText = item.Err.Error()
		}
		rows = append(rows, []string{
			item.Job.UploadID,
			item.Job.OwnerType + ":" + item.Job.OwnerID,
			string(item.Job.Status),
			phase,
			persisted,
			errText,
		})
	}
	return rows
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var accountID, postID, jobID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile one record's video with the provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := reconcileTarget(accountID, postID, jobID)
			if err != nil {
				return err
			}

			svcs, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}

			res, err := svcs.Reconcile.Reconcile(cmd.Context(), reconcile.System, target)
			if err != nil {
				return err
			}

			playback := res.PlaybackID
			if playback == "" {
				playback = "-"
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Owner", "Upload", "Phase", "Playback", "Persisted"},
				[][]string{{
					res.OwnerType + ":" + res.OwnerID,
					res.JobID,
					string(res.Phase),
					playback,
					strconv.FormatBool(res.Persisted),
				}},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account id")
	cmd.Flags().StringVar(&postID, "post", "", "Post id")
	cmd.Flags().StringVar(&jobID, "job", "", "Upload id (defaults to the record's current upload)")
	return cmd
}

func reconcileTarget(accountID, postID, jobID string) (reconcile.Target, error) {
	switch {
	case accountID != "" && postID != "":
		return reconcile.Target{}, errors.New("use either --account or --post, not both")
	case accountID != "":
		return reconcile.Target{OwnerType: media.OwnerAccount, OwnerID: accountID, JobID: jobID}, nil
	case postID != "":
		return reconcile.Target{OwnerType: media.OwnerPost, OwnerID: postID, JobID: jobID}, nil
	default:
		return reconcile.Target{}, errors.New("one of --account or --post is required")
	}
}
