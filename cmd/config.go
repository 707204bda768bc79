// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/luthersystems/prettyphp/formatter"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// formatKeys are the configuration keys that have a flag of the same name.
var formatKeys = []string{
	"tab",
	"tab-size",
	"enable",
	"disable",
	"sort-imports-by",
	"heredoc-indent",
	"operators-first",
	"operators-last",
	"match-braces-structural",
	"legacy-names",
	"verify",
}

// addFormatFlags defines a flag for every formatter setting.  Defaults come
// from formatter.DefaultConfig.
func addFormatFlags(fs *pflag.FlagSet) {
	def := formatter.DefaultConfig()
	fs.Bool("tab", def.Tab, "Indent with tabs.")
	fs.IntP("tab-size", "s", def.TabSize, "Columns per indentation level (2, 4 or 8).")
	fs.StringSliceP("enable", "e", nil, "Optional rules to enable (see prettyphp rules).")
	fs.StringSliceP("disable", "i", nil, "Default rules to disable (see prettyphp rules).")
	fs.String("sort-imports-by", def.ImportSortOrder, `Sort imports by "name" or "depth", or "none" to keep their order.`)
	fs.String("heredoc-indent", def.HeredocIndent, `Heredoc body indentation: "none", "line", "mixed" or "hanging".`)
	fs.BoolP("operators-first", "O", def.OperatorsFirst, "Only keep line breaks before binary operators.")
	fs.BoolP("operators-last", "L", def.OperatorsLast, "Only keep line breaks after binary operators.")
	fs.Bool("match-braces-structural", def.MatchBracesStructural, "Treat match braces that hold statements as structural.")
	fs.Bool("legacy-names", def.LegacyNames, "Tokenize names and attributes the way PHP 7 does.")
	fs.Bool("verify", def.Verify, "Check that the output has the same code as the input.")
}

// loadConfig returns the formatter configuration from, in order of
// precedence, flags given on the command line, PRETTYPHP_* environment
// variables, the config file and the defaults.
func loadConfig(fs *pflag.FlagSet) (*formatter.Config, error) {
	v := viper.GetViper()
	def := formatter.DefaultConfig()
	v.SetDefault("tab", def.Tab)
	v.SetDefault("tab-size", def.TabSize)
	v.SetDefault("sort-imports-by", def.ImportSortOrder)
	v.SetDefault("heredoc-indent", def.HeredocIndent)
	v.SetDefault("verify", def.Verify)
	for _, key := range formatKeys {
		if f := fs.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "binding flag %s", key)
			}
		}
	}
	cfg := formatter.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
