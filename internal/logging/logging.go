// Package logging builds the application slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-cz/devslog"
	"github.com/natefinch/lumberjack"
)

type Options struct {
	Level  string
	Format string
	// File enables a size rotated log file in addition to stdout.
	File string
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns the logger and a closer for the rotated file, if any.
func New(opts Options) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotated)
		closer = rotated
	}
	return slog.New(newHandler(out, opts)), closer
}

func newHandler(out io.Writer, opts Options) slog.Handler {
	handlerOptions := &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(opts.Level),
	}

	switch opts.Format {
	case "json":
		return slog.NewJSONHandler(out, handlerOptions)
	case "text":
		return slog.NewTextHandler(out, handlerOptions)
	default:
		return devslog.NewHandler(out, &devslog.Options{
			HandlerOptions:  handlerOptions,
			NewLineAfterLog: false,
		})
	}
}
