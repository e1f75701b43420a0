package logger

import (
	"io"
	"os"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Config struct {
	Service string
	Version string
	Level   string
}

// New creates a new structured logger using go-kit/log
func New(config Config) kitlog.Logger {
	return NewWithWriter(os.Stderr, config)
}

// NewWithWriter is New writing to w instead of stderr
func NewWithWriter(w io.Writer, config Config) kitlog.Logger {
	// logfmt is readable locally and parsed as-is by log aggregators
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	logger = kitlog.With(logger, "caller", kitlog.DefaultCaller)
	logger = kitlog.With(logger, "service", config.Service, "version", config.Version)
	return level.NewFilter(logger, levelOption(config.Level))
}

// levelOption maps LOG_LEVEL to a filter, defaulting to info
func levelOption(name string) level.Option {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "none", "off":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}
