// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// FmtCommand returns the "fmt" command.
func FmtCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)
	var (
		write    bool
		diff     bool
		list     bool
		jobs     int
		excludes []string
	)
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format PHP source files",
		Long: `Format PHP source files, similar to gofmt for Go.

Normalizes spacing, line breaks and indentation, and sorts imports.  The
formatter is idempotent: formatting its own output changes nothing.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.
An argument ending in "/..." selects every .php file under a directory.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Exit status is 0 on success, 1 if -d or -l found files that would change
and 2 if a file could not be formatted.

Examples:
  prettyphp fmt file.php                 Print formatted output
  prettyphp fmt -w src/...               Format all PHP files in place
  prettyphp fmt -d file.php              Show what would change
  prettyphp fmt -l src/... --exclude vendor
  cat file.php | prettyphp fmt           Format from stdin
  prettyphp fmt --tab-size 2 file.php    Use 2-space indentation
  prettyphp fmt -e align-assignments f.php`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				c.renderError(err, nil)
				os.Exit(ExitError)
			}
			mode := ModePrint
			switch {
			case list:
				mode = ModeList
			case diff:
				mode = ModeDiff
			case write:
				mode = ModeWrite
			}
			code := c.run(cmd.Context(), &Options{
				Files:    args,
				Excludes: excludes,
				Mode:     mode,
				Jobs:     jobs,
				Config:   cfg,
			})
			if code != ExitOK {
				os.Exit(code)
			}
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	cmd.Flags().BoolVarP(&diff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	cmd.Flags().BoolVarP(&list, "list", "l", false,
		"List files whose formatting differs from prettyphp's.")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0,
		"Number of files to format at once (default: number of CPUs).")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	addFormatFlags(cmd.Flags())
	return cmd
}
