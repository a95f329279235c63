// Package logging centralizes the daemon's logrus setup, following the
// convention cmd/sample-gitops and cmd/common used: a package-level
// logrus.Logger configured once at startup, passed down by reference rather
// than through a global logrus.StandardLogger() call everywhere.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/sirupsen/logrus"
)

// Options configures the daemon-wide logger.
type Options struct {
	Level  string // trace, debug, info, warn, error
	Format string // text, json
	Output io.Writer
}

// New builds a *logrus.Logger per Options, defaulting to info/text/stderr.
func New(opts Options) *logrus.Logger {
	l := logrus.New()

	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	l.SetOutput(opts.Output)

	switch opts.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}

// Sink is what pkg/gitcli and pkg/longtail forward streamed child-process
// output lines to. A *logrus.Entry satisfies it (Debugf/Warnf), and so does
// a *LineRecorder used by tests that want to assert on captured lines.
type Sink interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// LineRecorder is a Sink that captures lines instead of emitting them,
// used by tests that assert on git driver / longtail runner log output.
type LineRecorder struct {
	Debug []string
	Warn  []string
}

func (r *LineRecorder) Debugf(format string, args ...interface{}) {
	r.Debug = append(r.Debug, sprintf(format, args...))
}

func (r *LineRecorder) Warnf(format string, args ...interface{}) {
	r.Warn = append(r.Warn, sprintf(format, args...))
}

// GitSink adapts a Sink to gitcli.Sink (and the identically-shaped sink
// parameter longtail.Runner.Fetch takes), routing stderr lines to Warnf and
// everything else to Debugf.
type GitSink struct {
	Sink Sink
}

func (s GitSink) Send(l gitcli.LogLine) {
	if l.Stream == gitcli.StreamStderr {
		s.Sink.Warnf("%s", l.Text)
		return
	}
	s.Sink.Debugf("%s", l.Text)
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
