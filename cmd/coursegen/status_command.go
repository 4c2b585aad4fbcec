package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"coursegen/internal/jobs"
)

type daemonStatusResponse struct {
	Running     bool                `json:"running"`
	Workers     int                 `json:"workers"`
	StateDBPath string              `json:"state_db_path"`
	LockPath    string              `json:"lock_path"`
	JobCounts   map[jobs.Status]int `json:"job_counts"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and job queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status daemonStatusResponse
			if err := ctx.getJSON(cmd.Context(), "/api/status", &status); err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			fmt.Fprintln(stdout, renderSectionHeader("Daemon", colorize))
			runningKind := statusError
			runningText := "stopped"
			if status.Running {
				runningKind = statusOK
				runningText = fmt.Sprintf("running with %d worker(s)", status.Workers)
			}
			fmt.Fprintln(stdout, renderStatusLine("Pipeline", runningKind, runningText, colorize))
			fmt.Fprintln(stdout, renderStatusLine("State DB", statusInfo, status.StateDBPath, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Lock", statusInfo, status.LockPath, colorize))

			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, renderSectionHeader("Jobs", colorize))
			total := 0
			for _, s := range jobs.AllStatuses() {
				count := status.JobCounts[s]
				total += count
				if count == 0 {
					continue
				}
				kind := statusInfo
				switch s {
				case jobs.StatusCompleted:
					kind = statusOK
				case jobs.StatusError:
					kind = statusError
				}
				fmt.Fprintln(stdout, renderStatusLine(string(s), kind, strconv.Itoa(count), colorize))
			}
			if total == 0 {
				fmt.Fprintln(stdout, renderStatusLine("queue", statusInfo, "empty", colorize))
			}
			return nil
		},
	}
}
