// Copyright © 2024 The ELPS authors

// Package formatter formats PHP source code.  Source is tokenized, passed
// through a chain of token filters, linked into a document and formatted by
// a pipeline of rules before it is rendered.  By default the output is
// tokenized again and compared with the input to make sure no code changed.
package formatter

import (
	"context"
	"io"
	"time"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/filter"
	"github.com/luthersystems/prettyphp/parser"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/render"
	"github.com/luthersystems/prettyphp/rule"
	"github.com/luthersystems/prettyphp/typeindex"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/luthersystems/prettyphp/formatter"

// Option configures a Formatter.
type Option func(*Formatter)

// WithLogger sets the logger that receives debug entries for each filter
// and rule.  By default nothing is logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(f *Formatter) { f.log = log }
}

// Formatter formats PHP source code.  A Formatter may be reused for any
// number of files but must not be used concurrently.  Use Clone to get a
// Formatter for another goroutine.
type Formatter struct {
	cfg      Config
	idx      *typeindex.Index
	reader   *parser.Reader
	pipeline *rule.Pipeline
	renderer *render.Renderer
	filters  []filter.Filter
	compare  []filter.Filter
	log      logrus.FieldLogger
	problems []*document.Problem
}

// New returns a Formatter for cfg.  If cfg is nil, DefaultConfig() is used.
// An *IncompatibleRulesError is returned if cfg enables rules that cannot
// run together.
func New(cfg *Config, opts ...Option) (*Formatter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	order, err := cfg.sortOrder()
	if err != nil {
		return nil, err
	}
	heredoc, err := cfg.heredocIndent()
	if err != nil {
		return nil, err
	}
	specs, err := rule.Resolve(cfg.Enable, cfg.Disable)
	if err != nil {
		if _, ok := err.(*IncompatibleRulesError); ok {
			return nil, err
		}
		return nil, errors.Wrap(err, "invalid configuration")
	}

	f := &Formatter{
		cfg:      *cfg,
		idx:      typeindex.New(cfg.NewlinePolicy()),
		reader:   parser.NewReader(parser.WithLegacyNames(cfg.LegacyNames)),
		renderer: render.New(cfg.Tab, cfg.TabSize),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		log := logrus.New()
		log.Out = io.Discard
		f.log = log
	}

	f.filters = []filter.Filter{
		filter.CollectColumn{TabSize: cfg.TabSize},
		filter.RemoveWhitespace{},
	}
	if cfg.LegacyNames {
		f.filters = append(f.filters, filter.NormaliseNames{})
	}
	f.filters = append(f.filters,
		filter.NormaliseCasts{},
		filter.RemoveHeredocIndentation{},
	)
	if order != filter.SortNone {
		f.filters = append(f.filters, filter.SortImports{Order: order})
	}
	f.filters = append(f.filters, filter.MoveComments{Index: f.idx})

	f.compare = []filter.Filter{
		filter.RemoveWhitespace{},
		filter.RemoveComments{},
		filter.RemoveHeredocIndentation{},
		filter.NormaliseNames{},
		filter.NormaliseCasts{},
		filter.TrimCasts{},
		filter.EvaluateStrings{},
		filter.EvaluateNumbers{},
		filter.SortImports{Order: order},
	}

	f.pipeline = rule.NewPipeline(&rule.Config{
		Index:         f.idx,
		Renderer:      f.renderer,
		HeredocIndent: heredoc,
		Logger:        f.log,
	}, specs)
	return f, nil
}

// Config returns a copy of the configuration f was created with.
func (f *Formatter) Config() Config {
	return f.cfg
}

// Rules returns the names of the rules f runs, in registration order.
func (f *Formatter) Rules() []string {
	return f.pipeline.Names()
}

// Clone returns a Formatter with the same configuration that shares no
// per-document state with f.
func (f *Formatter) Clone() *Formatter {
	c := *f
	c.pipeline = f.pipeline.Clone()
	c.problems = nil
	return &c
}

// Problems returns the problems reported by the most recent successful
// call to Format or FormatContext.
func (f *Formatter) Problems() []*document.Problem {
	return f.problems
}

// Format formats src, using "<stdin>" as the file name in errors.
func (f *Formatter) Format(src []byte) ([]byte, error) {
	return f.FormatContext(context.Background(), "<stdin>", src)
}

// FormatContext formats src, the content of the named file.  The context
// only carries tracing information; formatting cannot be cancelled.
func (f *Formatter) FormatContext(ctx context.Context, name string, src []byte) (_ []byte, err error) {
	f.problems = nil
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "formatter.Format", trace.WithAttributes(
		attribute.String("file", name),
		attribute.Int("bytes", len(src)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	start := time.Now()

	tokens, err := f.reader.ReadBytes(name, src)
	if err != nil {
		return nil, err
	}
	tokens, err = f.filter(ctx, "format", tokens, f.filters)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	for _, t := range tokens {
		if !f.idx.All.Has(t.Type) {
			return nil, &InvalidTypeError{File: name, Token: t}
		}
	}
	span.SetAttributes(attribute.Int("tokens", len(tokens)))

	doc, err := document.New(name, tokens, f.idx,
		document.WithAttributeComments(f.cfg.LegacyNames),
		document.WithStructuralMatchBraces(f.cfg.MatchBracesStructural))
	if err != nil {
		return nil, err
	}
	if err := f.pipeline.Run(ctx, doc); err != nil {
		return nil, err
	}
	out := f.renderer.Render(doc)

	if f.cfg.Verify {
		if err := f.verify(ctx, name, src, []byte(out)); err != nil {
			return nil, err
		}
	}
	f.problems = doc.Problems()
	f.log.WithFields(logrus.Fields{
		"file":     name,
		"tokens":   len(doc.Tokens),
		"problems": len(f.problems),
		"elapsed":  time.Since(start),
	}).Debug("formatted")
	return []byte(out), nil
}

func (f *Formatter) filter(ctx context.Context, chain string, tokens []*token.Token, filters []filter.Filter) ([]*token.Token, error) {
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	for _, fl := range filters {
		name := filter.Name(fl)
		_, span := tracer.Start(ctx, "filter."+name, trace.WithAttributes(
			attribute.String("chain", chain),
			attribute.Int("tokens", len(tokens)),
		))
		start := time.Now()
		out, err := filter.Apply(tokens, fl)
		span.End()
		if err != nil {
			return nil, err
		}
		f.log.WithFields(logrus.Fields{
			"chain":   chain,
			"filter":  name,
			"tokens":  len(out),
			"elapsed": time.Since(start),
		}).Debug("filter applied")
		tokens = out
	}
	return tokens, nil
}

// verify returns a *VerificationError if out does not reduce to the same
// comparison stream as src.
func (f *Formatter) verify(ctx context.Context, name string, src, out []byte) error {
	ctx, span := otel.GetTracerProvider().Tracer(tracerName).Start(ctx, "formatter.verify")
	defer span.End()

	want, err := f.comparable(ctx, name, src)
	if err != nil {
		return err
	}
	got, err := f.comparable(ctx, name, out)
	if err != nil {
		return errors.Wrap(err, "formatted output")
	}
	for i := 0; i < len(want) || i < len(got); i++ {
		var w, g *token.Token
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			g = got[i]
		}
		if w == nil || g == nil || w.Type != g.Type || w.Text != g.Text {
			return &VerificationError{File: name, Want: w, Got: g}
		}
	}
	return nil
}

func (f *Formatter) comparable(ctx context.Context, name string, src []byte) ([]*token.Token, error) {
	tokens, err := f.reader.ReadBytes(name, src)
	if err != nil {
		return nil, err
	}
	return f.filter(ctx, "compare", tokens, f.compare)
}

// Format formats PHP source code.  If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats PHP source code, using filename for error messages.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	f, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return f.FormatContext(context.Background(), filename, source)
}
