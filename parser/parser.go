// Copyright © 2018 The ELPS authors

// Package parser reads PHP source into token streams.
package parser

import (
	"io"

	"github.com/luthersystems/prettyphp/parser/lexer"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/pkg/errors"
)

// Option configures a Reader.
type Option func(*Reader)

// WithLegacyNames makes the reader tokenize namespaced names and attributes
// the way PHP 7 does.
func WithLegacyNames(legacy bool) Option {
	return func(r *Reader) { r.legacy = legacy }
}

// Reader tokenizes complete PHP source files.
type Reader struct {
	legacy bool
}

// NewReader returns a new Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read returns every token in the source read from src.  The name is used
// in error locations.
func (r *Reader) Read(name string, src io.Reader) ([]*token.Token, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return r.ReadBytes(name, b)
}

// ReadBytes is like Read but takes the source as a byte slice.
func (r *Reader) ReadBytes(name string, src []byte) ([]*token.Token, error) {
	return lexer.Tokenize(name, src, lexer.WithLegacyNames(r.legacy))
}
