package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytwhisper/internal/language"
	"ytwhisper/internal/services/whisper"
)

func newModelsCommand() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:         "models",
		Short:       "List the Whisper models accepted by --model",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			models := whisper.Models()
			if jsonOutput {
				return writeJSON(cmd, models)
			}
			rows := make([][]string, 0, len(models))
			for _, m := range models {
				rows = append(rows, []string{m.Name, m.Parameters, m.VRAM, m.Speed, yesNo(m.EnglishOnly)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Model", "Parameters", "VRAM", "Speed", "English only"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newLanguagesCommand() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:         "languages",
		Short:       "List the language codes and names accepted by --language",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := language.All()
			if jsonOutput {
				return writeJSON(cmd, langs)
			}
			rows := make([][]string, 0, len(langs))
			for _, l := range langs {
				rows = append(rows, []string{l.Code, l.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Name"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
