// Copyright © 2024 The ELPS authors

package rule

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
)

// Kind determines when a rule runs.
type Kind int

const (
	// Mandatory rules always run.
	Mandatory Kind = iota
	// Default rules run unless disabled.
	Default
	// Optional rules run only when enabled.
	Optional
)

func (k Kind) String() string {
	switch k {
	case Mandatory:
		return "mandatory"
	case Default:
		return "default"
	case Optional:
		return "optional"
	default:
		return "unknown"
	}
}

// Spec describes a rule that can be enabled by name.
type Spec struct {
	// Name is the rule's identifier, e.g. "align-lists".  Built-in rules
	// leave it empty and are named by NameOf.
	Name string

	// Doc is a human-readable description.  The first line is a short
	// summary.
	Doc string

	Kind Kind

	// Incompatible names rules that cannot be enabled together with this
	// one.
	Incompatible []string

	// New returns an instance of the rule.  Every formatter gets its own
	// instances.
	New func(cfg *Config) Rule
}

var specs = []*Spec{
	SpecProtectStrings,
	SpecIndexSpacing,
	SpecOperatorSpacing,
	SpecStandardSpacing,
	SpecControlStructureSpacing,
	SpecPlaceComments,
	SpecPreserveNewlines,
	SpecPreserveOneLineStatements,
	SpecBlankLineBeforeReturn,
	SpecDeclarationSpacing,
	SpecStrictLists,
	SpecAlignLists,
	SpecSymmetricalBrackets,
	SpecStandardIndentation,
	SpecSwitchIndentation,
	SpecHangingIndentation,
	SpecHeredocIndentation,
	SpecAlignAssignments,
	SpecAlignComments,
	SpecEssentialWhitespace,
}

// Built-in rules are named after their types.
func init() {
	cfg := DefaultConfig()
	for _, s := range specs {
		if s.Name == "" {
			s.Name = NameOf(s.New(cfg))
		}
	}
}

// Specs returns every rule in registration order.  Registration order breaks
// ties between rules with the same priority.
func Specs() []*Spec {
	return append([]*Spec(nil), specs...)
}

// Methods returns the methods an instance of s runs for, in pass order.
func (s *Spec) Methods() []Method {
	r := s.New(DefaultConfig())
	var methods []Method
	for m := Method(0); m < numMethods; m++ {
		if !implements(r, m) {
			continue
		}
		if _, ok := r.Priority(m); ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// Lookup returns the rule named name, or nil.
func Lookup(name string) *Spec {
	for _, s := range Specs() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Names returns the names of every rule of the given kinds, sorted.  With no
// kinds every rule is returned.
func Names(kinds ...Kind) []string {
	var names []string
	for _, s := range Specs() {
		if len(kinds) == 0 || hasKind(kinds, s.Kind) {
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// NameOf returns the identifier of r derived from its type name, e.g.
// "align-lists" for *AlignLists.
func NameOf(r Rule) string {
	t := reflect.TypeOf(r)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strcase.ToKebab(t.Name())
}

// IncompatibleRulesError is returned when rules that cannot run together
// are enabled.
type IncompatibleRulesError struct {
	Rules []string
}

func (err *IncompatibleRulesError) Error() string {
	return fmt.Sprintf("rules cannot be enabled together: %s", strings.Join(err.Rules, ", "))
}

// Resolve returns the rules selected by enable and disable in registration
// order.  Mandatory and default rules are selected unless disabled; optional
// rules only when enabled.  Mandatory rules cannot be disabled.
func Resolve(enable, disable []string) ([]*Spec, error) {
	enabled := make(map[string]bool)
	for _, name := range enable {
		s := Lookup(name)
		if s == nil {
			return nil, errors.Errorf("unknown rule: %q", name)
		}
		enabled[name] = true
	}
	disabled := make(map[string]bool)
	for _, name := range disable {
		s := Lookup(name)
		if s == nil {
			return nil, errors.Errorf("unknown rule: %q", name)
		}
		if s.Kind == Mandatory {
			return nil, errors.Errorf("rule cannot be disabled: %q", name)
		}
		if enabled[name] {
			return nil, errors.Errorf("rule both enabled and disabled: %q", name)
		}
		disabled[name] = true
	}

	var specs []*Spec
	for _, s := range Specs() {
		switch {
		case s.Kind == Mandatory,
			s.Kind == Default && !disabled[s.Name],
			s.Kind == Optional && enabled[s.Name]:
			specs = append(specs, s)
		}
	}
	if err := checkCompatible(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func checkCompatible(specs []*Spec) error {
	selected := make(map[string]bool, len(specs))
	for _, s := range specs {
		selected[s.Name] = true
	}
	var names []string
	seen := make(map[string]bool)
	for _, s := range specs {
		for _, other := range s.Incompatible {
			if !selected[other] {
				continue
			}
			for _, name := range []string{s.Name, other} {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	if len(names) > 0 {
		sort.Strings(names)
		return &IncompatibleRulesError{Rules: names}
	}
	return nil
}
