// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/formatter"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitFormatDiff = 1
	ExitError      = 2
)

// Mode selects what is done with formatted output.
type Mode int

const (
	// ModePrint writes formatted output to stdout.
	ModePrint Mode = iota
	// ModeWrite writes formatted output back to the source file.
	ModeWrite
	// ModeDiff writes a unified diff of every change to stdout.
	ModeDiff
	// ModeList writes the name of every file that would change to stdout.
	ModeList
	// ModeCheck is like ModeList but also reports problems.
	ModeCheck
)

// Options configures a formatting run.
type Options struct {
	Files    []string
	Excludes []string
	Mode     Mode
	Jobs     int
	Config   *formatter.Config
}

type result struct {
	path     string
	src      []byte
	out      []byte
	problems []*document.Problem
	err      error
}

func (r *result) changed() bool {
	return r.err == nil && !bytes.Equal(r.src, r.out)
}

// run formats the files in opts, or stdin if there are none, and returns
// an exit code.
func (c *cmdConfig) run(ctx context.Context, opts *Options) int {
	log := c.logger()
	f, err := formatter.New(opts.Config, formatter.WithLogger(log))
	if err != nil {
		c.renderError(err, nil)
		return ExitError
	}

	var results []*result
	if len(opts.Files) == 0 {
		r := &result{path: "<stdin>"}
		r.src, r.err = io.ReadAll(c.stdin)
		if r.err == nil {
			r.out, r.err = f.FormatContext(ctx, r.path, r.src)
			r.problems = f.Problems()
		}
		results = append(results, r)
	} else {
		paths, err := expandArgs(opts.Files, opts.Excludes)
		if err != nil {
			c.renderError(err, nil)
			return ExitError
		}
		results = formatFiles(ctx, f, paths, opts.Jobs)
	}

	code := ExitOK
	for _, r := range results {
		if r.err != nil {
			c.renderError(r.err, r.src)
			code = ExitError
			continue
		}
		log.WithFields(logrus.Fields{
			"file":     r.path,
			"changed":  r.changed(),
			"problems": len(r.problems),
		}).Debug("file processed")
		if rc := c.output(opts.Mode, r); rc > code {
			code = rc
		}
	}
	return code
}

// formatFiles formats paths concurrently, at most jobs at a time, and
// returns their results in the order of paths.  Every file is formatted by
// its own clone of f.
func formatFiles(ctx context.Context, f *formatter.Formatter, paths []string, jobs int) []*result {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	results := make([]*result, len(paths))
	var eg errgroup.Group
	eg.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		r := &result{path: path}
		results[i] = r
		eg.Go(func() error {
			src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				r.err = err
				return nil
			}
			r.src = src
			clone := f.Clone()
			r.out, r.err = clone.FormatContext(ctx, path, src)
			r.problems = clone.Problems()
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func (c *cmdConfig) output(mode Mode, r *result) int {
	switch mode {
	case ModePrint:
		if _, err := c.stdout.Write(r.out); err != nil {
			c.renderError(err, nil)
			return ExitError
		}
		return ExitOK
	case ModeWrite:
		if r.path == "<stdin>" {
			return c.output(ModePrint, r)
		}
		if !r.changed() {
			return ExitOK
		}
		info, err := os.Stat(r.path)
		if err == nil {
			err = os.WriteFile(r.path, r.out, info.Mode().Perm())
		}
		if err != nil {
			c.renderError(errors.Wrapf(err, "writing %s", r.path), nil)
			return ExitError
		}
		return ExitOK
	case ModeDiff:
		if !r.changed() {
			return ExitOK
		}
		d, err := unifiedDiff(r.path, r.src, r.out)
		if err != nil {
			c.renderError(err, nil)
			return ExitError
		}
		fmt.Fprint(c.stdout, d)
		return ExitFormatDiff
	case ModeList, ModeCheck:
		code := ExitOK
		if r.changed() {
			fmt.Fprintln(c.stdout, r.path)
			code = ExitFormatDiff
		}
		if mode == ModeCheck && len(r.problems) > 0 {
			c.renderProblems(r.problems, r.src, r.out)
			code = ExitFormatDiff
		}
		return code
	}
	return ExitOK
}

func unifiedDiff(path string, src, out []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(src)),
		B:        difflib.SplitLines(string(out)),
		FromFile: path + ".orig",
		ToFile:   path,
		Context:  3,
	})
}
