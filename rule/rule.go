// Copyright © 2024 The ELPS authors

// Package rule defines formatting rules and the pipeline that runs them.
//
// A rule only adjusts the whitespace and indentation state of the tokens in
// a document.  It never adds or removes tokens.  Each rule implements one or
// more capability interfaces (TokenRule, ListRule, ...) and declares a
// priority for each of them.  The pipeline runs rules in four passes:
//
//  1. token, list, statement and declaration rules
//  2. block rules
//  3. callback rules
//  4. before-render rules
//
// Within a pass rules run in ascending priority, ties broken by the order
// in which the rules were registered.
package rule

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/render"
	"github.com/luthersystems/prettyphp/typeindex"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Method identifies a capability a rule may implement.
type Method int

const (
	MethodToken Method = iota
	MethodList
	MethodStatement
	MethodDeclaration
	MethodBlock
	MethodCallback
	MethodBeforeRender
	numMethods
)

var methodStrings = [numMethods]string{
	"token", "list", "statement", "declaration", "block", "callback", "before-render",
}

func (m Method) String() string {
	if m < 0 || m >= numMethods {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodStrings[m]
}

// Rule is implemented by every formatting rule.
type Rule interface {
	// Priority returns the priority of the rule for method m.  The rule is
	// not called for m if ok is false.
	Priority(m Method) (priority int, ok bool)

	// Reset clears state kept from a previous document.
	Reset()
}

// TokenRule is called once for every token whose type is in its table.
type TokenRule interface {
	Rule
	TokenTypes(idx *typeindex.Index) *typeindex.Table
	ProcessToken(t *document.Token)
}

// ListRule is called once for every bracketed, comma-delimited list.  items
// holds the first code token of every item.
type ListRule interface {
	Rule
	ProcessList(parent *document.Token, items *document.Collection)
}

// StatementRule is called once for every statement.
type StatementRule interface {
	Rule
	ProcessStatement(start, end *document.Token)
}

// DeclarationRule is called once for every declaration of a kind it
// returns.  A nil slice selects every kind.
type DeclarationRule interface {
	Rule
	DeclarationKinds() []document.DeclarationKind
	ProcessDeclaration(d *document.Declaration)
}

// BlockRule is called once for every block: a run of lines at the same
// depth with no blank line between them.  Each line holds the tokens that
// will be rendered on it.
type BlockRule interface {
	Rule
	ProcessBlock(lines []*document.Collection)
}

// CallbackRule is called once per document after every block rule.
type CallbackRule interface {
	Rule
	Callback(doc *document.Document)
}

// BeforeRenderRule is called once per document after every other rule.
type BeforeRenderRule interface {
	Rule
	BeforeRender(doc *document.Document)
}

// HeredocIndent determines how far heredoc bodies are indented.
type HeredocIndent int

const (
	// HeredocNone leaves heredoc bodies at column zero.
	HeredocNone HeredocIndent = iota
	// HeredocLine indents heredoc bodies to the level of the line they
	// start on.
	HeredocLine
	// HeredocMixed applies HeredocLine to heredocs that start on their own
	// line, and HeredocHanging to others.
	HeredocMixed
	// HeredocHanging indents heredoc bodies one level past the line they
	// start on.
	HeredocHanging
)

var heredocStrings = []string{"none", "line", "mixed", "hanging"}

func (h HeredocIndent) String() string {
	if h < 0 || int(h) >= len(heredocStrings) {
		return fmt.Sprintf("HeredocIndent(%d)", int(h))
	}
	return heredocStrings[h]
}

// ParseHeredocIndent returns the mode named s.
func ParseHeredocIndent(s string) (HeredocIndent, error) {
	for i, name := range heredocStrings {
		if strings.EqualFold(s, name) {
			return HeredocIndent(i), nil
		}
	}
	return HeredocMixed, errors.Errorf("unknown heredoc indent: %q", s)
}

// Config is shared by every rule created for one formatter.
type Config struct {
	Index         *typeindex.Index
	Renderer      *render.Renderer
	HeredocIndent HeredocIndent
	Logger        logrus.FieldLogger
}

// DefaultConfig returns a configuration with a mixed newline policy, four
// space indentation and logging discarded.
func DefaultConfig() *Config {
	log := logrus.New()
	log.Out = io.Discard
	return &Config{
		Index:         typeindex.New(typeindex.Mixed),
		Renderer:      render.New(false, render.DefaultTabSize),
		HeredocIndent: HeredocMixed,
		Logger:        log,
	}
}
