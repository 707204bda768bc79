// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prettyphp",
	Short: "prettyphp is an opinionated PHP code formatter",
	Long: `prettyphp formats PHP source code.

It rewrites the whitespace between tokens: spaces, line breaks, blank
lines and indentation.  Code is never added, removed or reordered, except
that import statements are sorted and some comments are moved past the
delimiters that follow them.  Formatting is checked by comparing the code
in the output with the code in the input.

Getting started:
  prettyphp fmt file.php          Print formatted output
  prettyphp fmt -w src/...        Format every PHP file under src in place
  prettyphp check src/...         List files that need formatting
  prettyphp rules                 Describe the formatting rules

Configuration is read from --config, or from .prettyphp.yaml (or .toml,
.json) in the working directory or the home directory.  Every setting can
also be given as an environment variable, e.g. PRETTYPHP_TAB_SIZE=2.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .prettyphp.yaml in the working or home directory)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug information for every file and rule.")

	rootCmd.AddCommand(FmtCommand(), CheckCommand(), RulesCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".prettyphp")
	}

	viper.SetEnvPrefix("PRETTYPHP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitError)
		}
	}
	if !verbose {
		verbose = viper.GetBool("verbose")
	}
}
