package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"coursegen/internal/jobs"
	"coursegen/internal/textutil"
)

type jobView struct {
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Mode      string `json:"mode"`
	CourseID  string `json:"course_id"`
	Error     string `json:"error"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type jobListResponse struct {
	Jobs []jobView `json:"jobs"`
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List processing jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/jobs"
			if len(statusFilters) > 0 {
				query := url.Values{}
				for _, filter := range statusFilters {
					status, ok := jobs.ParseStatus(filter)
					if !ok {
						return fmt.Errorf("unknown status %q", filter)
					}
					query.Add("status", string(status))
				}
				path += "?" + query.Encode()
			}

			var list jobListResponse
			if err := ctx.getJSON(cmd.Context(), path, &list); err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			if len(list.Jobs) == 0 {
				fmt.Fprintln(stdout, "No jobs found")
				return nil
			}

			rows := make([][]string, 0, len(list.Jobs))
			for _, job := range list.Jobs {
				detail := job.CourseID
				if job.Error != "" {
					detail = job.Error
				}
				rows = append(rows, []string{
					job.VideoID,
					textutil.Truncate(job.Title, 40),
					job.Status,
					job.Mode,
					textutil.Truncate(detail, 48),
					job.UpdatedAt,
				})
			}
			fmt.Fprintln(stdout, renderTable(
				[]string{"ID", "Title", "Status", "Mode", "Course / Error", "Updated"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by job status (repeatable)")
	return cmd
}

