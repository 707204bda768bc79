// Copyright © 2024 The ELPS authors

package formatter

import (
	"github.com/go-playground/validator/v10"
	"github.com/luthersystems/prettyphp/filter"
	"github.com/luthersystems/prettyphp/rule"
	"github.com/luthersystems/prettyphp/typeindex"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Config holds formatting configuration.  The mapstructure tags are the
// keys used in configuration files and environment variables.
type Config struct {
	// Tab indents with tabs instead of spaces.
	Tab bool `mapstructure:"tab"`
	// TabSize is the number of columns per indentation level.
	TabSize int `mapstructure:"tab-size" validate:"oneof=2 4 8"`

	// Enable lists optional rules to run and Disable default rules to
	// skip.
	Enable  []string `mapstructure:"enable"`
	Disable []string `mapstructure:"disable"`

	ImportSortOrder string `mapstructure:"sort-imports-by" validate:"oneof=none name depth"`
	HeredocIndent   string `mapstructure:"heredoc-indent" validate:"oneof=none line mixed hanging"`

	// OperatorsFirst keeps line breaks before binary operators only, and
	// OperatorsLast after them only.  By default both are kept.
	OperatorsFirst bool `mapstructure:"operators-first"`
	OperatorsLast  bool `mapstructure:"operators-last" validate:"excluded_with=OperatorsFirst"`

	MatchBracesStructural bool `mapstructure:"match-braces-structural"`
	// LegacyNames tokenizes names and attributes the way PHP 7 does.
	LegacyNames bool `mapstructure:"legacy-names"`
	// Verify checks that the output has the same code as the input.
	Verify bool `mapstructure:"verify"`
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		TabSize:         4,
		ImportSortOrder: "depth",
		HeredocIndent:   "mixed",
		Verify:          true,
	}
}

// Validate returns an error if cfg holds a value the formatter does not
// support.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// NewlinePolicy returns the newline policy selected by the operator
// placement flags.
func (cfg *Config) NewlinePolicy() typeindex.NewlinePolicy {
	switch {
	case cfg.OperatorsFirst:
		return typeindex.Leading
	case cfg.OperatorsLast:
		return typeindex.Trailing
	}
	return typeindex.Mixed
}

func (cfg *Config) sortOrder() (filter.ImportSortOrder, error) {
	return filter.ParseImportSortOrder(cfg.ImportSortOrder)
}

func (cfg *Config) heredocIndent() (rule.HeredocIndent, error) {
	return rule.ParseHeredocIndent(cfg.HeredocIndent)
}
