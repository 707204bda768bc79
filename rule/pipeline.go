// Copyright © 2024 The ELPS authors

package rule

import (
	"context"
	"sort"
	"time"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/luthersystems/prettyphp/rule"

// Pipeline runs a fixed set of rules over documents.  A pipeline may be
// reused for any number of documents but not concurrently.
type Pipeline struct {
	cfg   *Config
	rules []Rule
	names []string
	jobs  [numMethods][]job
}

type job struct {
	rule     Rule
	name     string
	method   Method
	priority int
	order    int
	types    *typeindex.Table
	kinds    map[document.DeclarationKind]bool
}

// NewPipeline creates one instance of every rule in specs.
func NewPipeline(cfg *Config, specs []*Spec) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, s := range specs {
		p.rules = append(p.rules, s.New(cfg))
		p.names = append(p.names, s.Name)
	}
	p.schedule()
	return p
}

// Clone returns a pipeline with fresh instances of the same rules.  Clones
// share the configuration and type index but no per-document state.
func (p *Pipeline) Clone() *Pipeline {
	specs := make([]*Spec, 0, len(p.names))
	for _, name := range p.names {
		specs = append(specs, Lookup(name))
	}
	return NewPipeline(p.cfg, specs)
}

// Names returns the names of the pipeline's rules in registration order.
func (p *Pipeline) Names() []string {
	return p.names
}

// Rules returns the pipeline's rule instances in registration order.
func (p *Pipeline) Rules() []Rule {
	return p.rules
}

func (p *Pipeline) schedule() {
	for order, r := range p.rules {
		for m := Method(0); m < numMethods; m++ {
			if !implements(r, m) {
				continue
			}
			priority, ok := r.Priority(m)
			if !ok {
				continue
			}
			j := job{rule: r, name: p.names[order], method: m, priority: priority, order: order}
			switch m {
			case MethodToken:
				if j.types = r.(TokenRule).TokenTypes(p.cfg.Index); j.types == nil {
					j.types = &p.cfg.Index.All
				}
			case MethodDeclaration:
				if kinds := r.(DeclarationRule).DeclarationKinds(); kinds != nil {
					j.kinds = make(map[document.DeclarationKind]bool, len(kinds))
					for _, k := range kinds {
						j.kinds[k] = true
					}
				}
			}
			pass := passOf(m)
			p.jobs[pass] = append(p.jobs[pass], j)
		}
	}
	for i := range p.jobs {
		jobs := p.jobs[i]
		sort.SliceStable(jobs, func(a, b int) bool {
			if jobs[a].priority != jobs[b].priority {
				return jobs[a].priority < jobs[b].priority
			}
			return jobs[a].order < jobs[b].order
		})
	}
}

// passOf returns the index of the pass that runs m.  Token, list,
// statement and declaration rules share the first pass.
func passOf(m Method) Method {
	switch m {
	case MethodToken, MethodList, MethodStatement, MethodDeclaration:
		return MethodToken
	}
	return m
}

func implements(r Rule, m Method) bool {
	var ok bool
	switch m {
	case MethodToken:
		_, ok = r.(TokenRule)
	case MethodList:
		_, ok = r.(ListRule)
	case MethodStatement:
		_, ok = r.(StatementRule)
	case MethodDeclaration:
		_, ok = r.(DeclarationRule)
	case MethodBlock:
		_, ok = r.(BlockRule)
	case MethodCallback:
		_, ok = r.(CallbackRule)
	case MethodBeforeRender:
		_, ok = r.(BeforeRenderRule)
	}
	return ok
}

// Run applies every rule to doc.  A rule that breaks a document contract
// causes Run to fail with a *document.ContractError.
func (p *Pipeline) Run(ctx context.Context, doc *document.Document) (err error) {
	defer document.Recover(&err)
	for _, r := range p.rules {
		r.Reset()
	}
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	passes := []struct {
		name string
		run  func(*document.Document)
	}{
		{"tokens", p.runFirstPass},
		{"blocks", p.runBlocks},
		{"callbacks", p.runCallbacks},
		{"before-render", p.runBeforeRender},
	}
	for i, pass := range passes {
		_, span := tracer.Start(ctx, "rule.pass."+pass.name, trace.WithAttributes(
			attribute.Int("pass", i+1),
			attribute.Int("tokens", len(doc.Tokens)),
		))
		pass.run(doc)
		span.End()
	}
	return nil
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.cfg.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.cfg.Logger
}

func (p *Pipeline) trace(j *job, start time.Time, units int) {
	p.logger().WithFields(logrus.Fields{
		"pass":    int(passOf(j.method)) + 1,
		"rule":    j.name,
		"method":  j.method.String(),
		"units":   units,
		"elapsed": time.Since(start),
	}).Debug("rule applied")
}

func (p *Pipeline) runFirstPass(doc *document.Document) {
	var lists []list
	listsDone := false
	for i := range p.jobs[MethodToken] {
		j := &p.jobs[MethodToken][i]
		start := time.Now()
		units := 0
		switch j.method {
		case MethodToken:
			r := j.rule.(TokenRule)
			for _, t := range doc.Tokens {
				if j.types.Has(t.Type) {
					r.ProcessToken(t)
					units++
				}
			}
		case MethodList:
			if !listsDone {
				lists, listsDone = findLists(doc), true
			}
			r := j.rule.(ListRule)
			for _, l := range lists {
				r.ProcessList(l.parent, document.NewCollection(l.items...))
				units++
			}
		case MethodStatement:
			r := j.rule.(StatementRule)
			for _, t := range doc.Tokens {
				if t.IsCode && t.IsStatementStart() {
					r.ProcessStatement(t, t.EndStatement())
					units++
				}
			}
		case MethodDeclaration:
			r := j.rule.(DeclarationRule)
			for _, d := range doc.Declarations {
				if j.kinds == nil || j.kinds[d.Kind] {
					r.ProcessDeclaration(d)
					units++
				}
			}
		}
		p.trace(j, start, units)
	}
}

func (p *Pipeline) runBlocks(doc *document.Document) {
	if len(p.jobs[MethodBlock]) == 0 {
		return
	}
	blocks := findBlocks(doc)
	for i := range p.jobs[MethodBlock] {
		j := &p.jobs[MethodBlock][i]
		start := time.Now()
		r := j.rule.(BlockRule)
		for _, b := range blocks {
			r.ProcessBlock(b)
		}
		p.trace(j, start, len(blocks))
	}
}

func (p *Pipeline) runCallbacks(doc *document.Document) {
	for i := range p.jobs[MethodCallback] {
		j := &p.jobs[MethodCallback][i]
		start := time.Now()
		j.rule.(CallbackRule).Callback(doc)
		p.trace(j, start, 1)
	}
}

func (p *Pipeline) runBeforeRender(doc *document.Document) {
	for i := range p.jobs[MethodBeforeRender] {
		j := &p.jobs[MethodBeforeRender][i]
		start := time.Now()
		j.rule.(BeforeRenderRule).BeforeRender(doc)
		p.trace(j, start, 1)
	}
}

type list struct {
	parent *document.Token
	items  []*document.Token
}

// findLists returns every parenthesised or bracketed list with at least one
// item.  The parentheses of a "for" loop hold expressions separated by
// semicolons and are not a list.
func findLists(doc *document.Document) []list {
	var lists []list
	for _, t := range doc.Tokens {
		if !t.Is(token.OPEN_PAREN, token.OPEN_BRACKET, token.ATTRIBUTE) || !t.IsOpenBracket() || t.InString() {
			continue
		}
		if prev := t.PrevCode(); prev != nil && prev.Type == token.FOR {
			continue
		}
		closer := t.ClosedBy()
		first := t.NextCode()
		if first == nil || first == closer {
			continue
		}
		items := []*document.Token{first}
		for s := first; s != nil; s = s.NextSibling() {
			if s.Type != token.COMMA {
				continue
			}
			if n := s.NextCode(); n != nil && n != closer {
				items = append(items, n)
			}
		}
		lists = append(lists, list{parent: t, items: items})
	}
	return lists
}

// findBlocks splits doc into lines and groups consecutive lines into
// blocks.  A block ends at a blank line and wherever the depth of the first
// token of a line changes.
func findBlocks(doc *document.Document) [][]*document.Collection {
	var blocks [][]*document.Collection
	var block []*document.Collection
	var line []*document.Token
	depth := -1
	flushLine := func() {
		if len(line) > 0 {
			block = append(block, document.NewCollection(line...))
			line = nil
		}
	}
	flushBlock := func() {
		flushLine()
		if len(block) > 0 {
			blocks = append(blocks, block)
			block = nil
		}
	}
	for _, t := range doc.Tokens {
		if t.IsVirtual {
			continue
		}
		if t.Prev() == nil || t.HasNewlineBefore() {
			ws := t.WhitespaceBefore()
			if ws == document.Blank || t.Depth() != depth || t.InString() {
				flushBlock()
			} else {
				flushLine()
			}
			depth = t.Depth()
		}
		line = append(line, t)
	}
	flushBlock()
	return blocks
}
