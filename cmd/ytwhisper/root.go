package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "ytwhisper [flags] URL...",
		Short: "Generate subtitles for YouTube videos with Whisper",
		Long: "ytwhisper downloads the audio of YouTube videos or a playlist with yt-dlp,\n" +
			"transcribes it with OpenAI Whisper and writes VTT or SRT subtitles.\n" +
			"Existing subtitle files are never overwritten.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTranscribe(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	flags.register(rootCmd.Flags())

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newModelsCommand())
	rootCmd.AddCommand(newLanguagesCommand())
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
