// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/prettyphp/rule"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RulesCommand returns the "rules" command.
func RulesCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)
	var kind string
	cmd := &cobra.Command{
		Use:   "rules [flags] [rule...]",
		Short: "Describe the formatting rules",
		Long: `Describe the formatting rules.

Mandatory rules always run.  Default rules run unless disabled with
--disable, and optional rules only when enabled with --enable.  With
arguments, only the named rules are described.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := selectRules(args, kind)
			if err != nil {
				return err
			}
			return writeRules(c.stdout, specs)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "",
		`Only describe rules of this kind: "mandatory", "default" or "optional".`)
	return cmd
}

func selectRules(names []string, kind string) ([]*rule.Spec, error) {
	var specs []*rule.Spec
	if len(names) == 0 {
		specs = rule.Specs()
	}
	for _, name := range names {
		s := rule.Lookup(name)
		if s == nil {
			return nil, errors.Errorf("unknown rule: %q", name)
		}
		specs = append(specs, s)
	}
	if kind == "" {
		return specs, nil
	}
	var out []*rule.Spec
	for _, s := range specs {
		if s.Kind.String() == kind {
			out = append(out, s)
		}
	}
	if out == nil {
		return nil, errors.Errorf("no %s rules", kind)
	}
	return out, nil
}

func writeRules(w io.Writer, specs []*rule.Spec) error {
	for i, s := range specs {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		methods := make([]string, 0, 2)
		for _, m := range s.Methods() {
			methods = append(methods, m.String())
		}
		header := fmt.Sprintf("%s (%s; %s)", s.Name, s.Kind, strings.Join(methods, ", "))
		if len(s.Incompatible) > 0 {
			header += "\n  incompatible with: " + strings.Join(s.Incompatible, ", ")
		}
		doc := indent.String(wordwrap.String(s.Doc, 72), 2)
		if _, err := fmt.Fprintf(w, "%s\n%s\n", header, strings.TrimSuffix(doc, "\n")); err != nil {
			return err
		}
	}
	return nil
}
