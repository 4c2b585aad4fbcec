package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursegen/internal/jobs"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show the status of a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var job jobView
			if err := ctx.getJSON(cmd.Context(), "/video/"+args[0], &job); err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			kind := statusInfo
			switch jobs.Status(job.Status) {
			case jobs.StatusCompleted:
				kind = statusOK
			case jobs.StatusError:
				kind = statusError
			}

			fmt.Fprintln(stdout, renderSectionHeader(job.Title, colorize))
			fmt.Fprintln(stdout, renderStatusLine("ID", statusInfo, job.VideoID, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Status", kind, job.Status, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Mode", statusInfo, job.Mode, colorize))
			if job.CourseID != "" {
				fmt.Fprintln(stdout, renderStatusLine("Course", statusOK, job.CourseID, colorize))
			}
			if job.Error != "" {
				fmt.Fprintln(stdout, renderStatusLine("Error", statusError, job.Error, colorize))
			}
			fmt.Fprintln(stdout, renderStatusLine("Updated", statusInfo, job.UpdatedAt, colorize))
			return nil
		},
	}
}
