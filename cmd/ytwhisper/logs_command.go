package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ytwhisper/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var runID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log file written when logging.file is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := strings.TrimSpace(cfg.Logging.File)
			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintln(out, "No log file configured; set [logging] file to keep logs")
				return nil
			}

			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				printLogLine(out, line, runID)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 250*time.Millisecond, func(line string) {
				printLogLine(out, line, runID)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&runID, "run", "", "Only show lines from this run ID")
	return cmd
}

func printLogLine(w io.Writer, line, runID string) {
	rec, ok := logs.ParseRecord(line)
	if !ok {
		if runID == "" {
			fmt.Fprintln(w, line)
		}
		return
	}
	if runID != "" && rec.RunID != runID {
		return
	}
	fmt.Fprintln(w, rec.String())
}
