package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var title string
	var mode string

	cmd := &cobra.Command{
		Use:   "upload <video-file>",
		Short: "Upload a video for course generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open video: %w", err)
			}
			defer file.Close()

			var body bytes.Buffer
			writer := multipart.NewWriter(&body)
			part, err := writer.CreateFormFile("file", filepath.Base(path))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, file); err != nil {
				return fmt.Errorf("read video: %w", err)
			}
			if title != "" {
				if err := writer.WriteField("title", title); err != nil {
					return err
				}
			}
			if mode != "" {
				if err := writer.WriteField("mode", mode); err != nil {
					return err
				}
			}
			if err := writer.Close(); err != nil {
				return err
			}

			req, err := ctx.newRequest(cmd.Context(), http.MethodPost, "/upload-video/", &body)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", writer.FormDataContentType())

			resp, err := ctx.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("contact daemon: %w (is `coursegen serve` running?)", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return decodeAPIError(resp)
			}

			var payload struct {
				VideoID string `json:"video_id"`
				Title   string `json:"title"`
				Status  string `json:"status"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %q as %s\n", payload.Title, payload.VideoID)
			fmt.Fprintf(out, "Track progress with `coursegen show %s`\n", payload.VideoID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Course title (defaults to the filename)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Generation mode: concise or full")
	return cmd
}
