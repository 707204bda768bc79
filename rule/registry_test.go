// Copyright © 2024 The ELPS authors

package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecNames(t *testing.T) {
	cfg := DefaultConfig()
	seen := make(map[string]bool)
	for _, s := range Specs() {
		assert.False(t, seen[s.Name], "duplicate rule %q", s.Name)
		seen[s.Name] = true
		assert.NotEmpty(t, s.Name)
		assert.Equal(t, s.Name, NameOf(s.New(cfg)))
		assert.NotEmpty(t, s.Doc, s.Name)
		assert.Same(t, s, Lookup(s.Name))
		for _, other := range s.Incompatible {
			assert.NotNil(t, Lookup(other), "%s: unknown incompatible rule %q", s.Name, other)
		}
	}
	assert.Nil(t, Lookup("no-such-rule"))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"align-assignments",
		"align-comments",
		"align-lists",
		"blank-line-before-return",
		"preserve-one-line-statements",
		"strict-lists",
	}, Names(Optional))
	assert.Len(t, Names(), len(Specs()))
	assert.Equal(t, len(Names()), len(Names(Mandatory))+len(Names(Default))+len(Names(Optional)))
}

func specNames(specs []*Spec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

func TestSpecMethods(t *testing.T) {
	assert.Equal(t, []Method{MethodList, MethodCallback}, SpecAlignLists.Methods())
	assert.Equal(t, []Method{MethodToken, MethodList}, SpecSymmetricalBrackets.Methods())
	assert.Equal(t, []Method{MethodBeforeRender}, SpecEssentialWhitespace.Methods())
	assert.Equal(t, []Method{MethodToken, MethodBeforeRender}, SpecPlaceComments.Methods())
	for _, s := range Specs() {
		assert.NotEmpty(t, s.Methods(), s.Name)
	}
}

func TestResolve(t *testing.T) {
	specs, err := Resolve(nil, nil)
	require.NoError(t, err)
	names := specNames(specs)
	assert.Contains(t, names, "protect-strings")
	assert.Contains(t, names, "preserve-newlines")
	assert.NotContains(t, names, "align-lists")

	specs, err = Resolve([]string{"align-lists"}, []string{"preserve-newlines", "switch-indentation"})
	require.NoError(t, err)
	names = specNames(specs)
	assert.Contains(t, names, "align-lists")
	assert.NotContains(t, names, "preserve-newlines")
	assert.NotContains(t, names, "switch-indentation")

	// Enabling every optional rule selects an incompatible pair.
	all, err := Resolve(Names(Optional), nil)
	if assert.Error(t, err) {
		var incompatible *IncompatibleRulesError
		assert.ErrorAs(t, err, &incompatible)
	}
	assert.Nil(t, all)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		enable  []string
		disable []string
		msg     string
	}{
		{"unknown enabled", []string{"nope"}, nil, `unknown rule: "nope"`},
		{"unknown disabled", nil, []string{"nope"}, `unknown rule: "nope"`},
		{"mandatory", nil, []string{"protect-strings"}, `rule cannot be disabled: "protect-strings"`},
		{"both", []string{"align-lists"}, []string{"align-lists"}, `rule both enabled and disabled: "align-lists"`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Resolve(test.enable, test.disable)
			assert.EqualError(t, err, test.msg)
		})
	}
}

func TestResolveIncompatible(t *testing.T) {
	_, err := Resolve([]string{"strict-lists", "align-lists", "align-comments"}, nil)
	require.Error(t, err)
	incompatible, ok := err.(*IncompatibleRulesError)
	require.True(t, ok, "%T", err)
	assert.Equal(t, []string{"align-lists", "strict-lists"}, incompatible.Rules)
	assert.Equal(t, "rules cannot be enabled together: align-lists, strict-lists", err.Error())
}

func TestParseHeredocIndent(t *testing.T) {
	for _, h := range []HeredocIndent{HeredocNone, HeredocLine, HeredocMixed, HeredocHanging} {
		got, err := ParseHeredocIndent(h.String())
		assert.NoError(t, err)
		assert.Equal(t, h, got)
	}
	_, err := ParseHeredocIndent("sideways")
	assert.EqualError(t, err, `unknown heredoc indent: "sideways"`)
}
