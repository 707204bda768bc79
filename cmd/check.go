// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// CheckCommand returns the "check" command.
func CheckCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)
	var (
		jobs     int
		excludes []string
	)
	cmd := &cobra.Command{
		Use:   "check [flags] [files...]",
		Short: "Report files that are not formatted",
		Long: `Check that PHP source files are formatted.

Lists every file whose formatting differs from prettyphp's, and reports
problems found while formatting, such as assignments that could not be
aligned.  Files are not changed.

Exit status is 0 if every file is formatted and has no problems, 1 if not
and 2 if a file could not be formatted.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				c.renderError(err, nil)
				os.Exit(ExitError)
			}
			code := c.run(cmd.Context(), &Options{
				Files:    args,
				Excludes: excludes,
				Mode:     ModeCheck,
				Jobs:     jobs,
				Config:   cfg,
			})
			if code != ExitOK {
				os.Exit(code)
			}
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0,
		"Number of files to check at once (default: number of CPUs).")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	addFormatFlags(cmd.Flags())
	return cmd
}
