package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/apodview/internal/app"
)

// runners are swapped out in tests.
var (
	runTUI  = app.Run
	runList = app.List
)

func newRootCmd(version string) *cobra.Command {
	opts := app.Options{Version: version}

	cmd := &cobra.Command{
		Use:   "apodview",
		Short: "Browse the Astronomy Picture of the Day archive in your terminal",
		Long: `apodview shows a random space fact, fetches the APOD archive feed for a
date range and lays the matches out as cards. Select a card to read the
explanation, open the image, or watch the video in your browser.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/apodview/config.toml)")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/apodview/prefs.toml)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.End, "end", "", "end date, YYYY-MM-DD; with --start the search runs at launch")

	cmd.AddCommand(newListCmd(version))
	return cmd
}

func newListCmd(version string) *cobra.Command {
	opts := app.ListOptions{Version: version}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the archive entries in a date range",
		Example: `  apodview list --start 2024-01-01 --end 2024-01-07
  apodview list --start 2024-01-01 --end 2024-01-31 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			opts.ConfigPath = path
			return runList(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.End, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
