// Package diagnostics builds the application logger and the sink the
// container reports failed resolutions to.
package diagnostics

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/laravel-di/framework/config"
	"github.com/km-arc/laravel-di/framework/container"
)

// New creates a logrus logger configured from cfg. Unknown levels fall back
// to info.
func New(cfg config.LogConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New writing to out.
func NewWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return logger
}

// Sink records container diagnostics as logrus warnings.
type Sink struct {
	entry *logrus.Entry
}

var _ container.DiagnosticSink = (*Sink)(nil)

// NewSink creates a Sink tagged with component=container.
func NewSink(logger logrus.FieldLogger) *Sink {
	return &Sink{entry: logger.WithField("component", "container")}
}

func (s *Sink) Record(message string) {
	s.entry.Warn(message)
}
