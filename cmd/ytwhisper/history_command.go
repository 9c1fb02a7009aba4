package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ytwhisper/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.History.Path); errors.Is(err, os.ErrNotExist) {
				if !cfg.History.Enabled {
					fmt.Fprintln(out, "History is disabled; set [history] enabled = true to record runs")
				} else {
					fmt.Fprintln(out, "No runs recorded yet")
				}
				return nil
			}

			store, err := history.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			items, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				detail := item.OutputPath
				if item.Error != "" {
					detail = item.Error
				}
				rows = append(rows, []string{
					humanize.Time(item.RecordedAt),
					string(item.Status),
					firstNonEmpty(item.VideoID, "-"),
					firstNonEmpty(item.Title, item.URL),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"When", "Status", "Video", "Title", "Output / Error"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of items to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
