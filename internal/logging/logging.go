// Package logging builds the leveled console logger used across duelist.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every log line.
const Prefix = "duelist"

// Options controls logger construction.
type Options struct {
	// Debug enables debug output.
	Debug bool
	// Quiet limits output to errors.
	Quiet bool
	// ReportTimestamp adds a timestamp to each line.
	ReportTimestamp bool
}

// Level returns the level implied by the options. Debug wins over Quiet.
func (o Options) Level() log.Level {
	switch {
	case o.Debug:
		return log.DebugLevel
	case o.Quiet:
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// New returns a text logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level(),
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
