// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Option configures an exported command factory (FmtCommand, CheckCommand,
// RulesCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	log    logrus.FieldLogger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// WithLogger sets the logger that receives per-file and per-rule debug
// entries.  By default a logger writing to stderr is used, at debug level
// when --verbose is given.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *cmdConfig) { c.log = log }
}

// WithIO replaces the standard input and output streams of a command.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(c *cmdConfig) {
		c.stdin = stdin
		c.stdout = stdout
		c.stderr = stderr
	}
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{}
	for _, opt := range opts {
		opt(c)
	}
	if c.stdin == nil {
		c.stdin = os.Stdin
	}
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	return c
}

// logger returns the configured logger, or a new one writing to the
// command's stderr.
func (c *cmdConfig) logger() logrus.FieldLogger {
	if c.log != nil {
		return c.log
	}
	log := logrus.New()
	log.Out = c.stderr
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
