// Package log builds hidra's two log outputs: a leveled slog.Logger for
// diagnostics and a RawLogger for the report traffic itself.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace sits below Debug. At this level the raw report stream is also
// dumped to stdout when no dedicated raw log file is configured.
const LevelTrace slog.Level = -8

// Options selects where hidra logs and how much.
type Options struct {
	// Level is one of trace, debug, info, warn, error.
	Level string
	// File, when set, receives all diagnostics instead of stdout/stderr.
	File string
	// RawFile, when set, receives the hex dumps of raw report traffic.
	RawFile string
}

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitHandler routes error-and-above records to one handler and everything
// below to another, so report noise at trace level stays on stdout while
// failures remain visible on stderr.
type splitHandler struct {
	out  slog.Handler
	errs slog.Handler
}

func (h splitHandler) pick(level slog.Level) slog.Handler {
	if level >= slog.LevelError {
		return h.errs
	}
	return h.out
}

func (h splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.pick(level).Enabled(ctx, level)
}

func (h splitHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.pick(r.Level).Handle(ctx, r)
}

func (h splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return splitHandler{out: h.out.WithAttrs(attrs), errs: h.errs.WithAttrs(attrs)}
}

func (h splitHandler) WithGroup(name string) slog.Handler {
	return splitHandler{out: h.out.WithGroup(name), errs: h.errs.WithGroup(name)}
}

// Setup builds the diagnostic logger and the raw report logger from the
// CLI's logging options. The returned closers release any opened log files
// once the process is done logging.
func Setup(opts Options) (*slog.Logger, RawLogger, []io.Closer, error) {
	level := ParseLevel(opts.Level)
	var closers []io.Closer

	var handler slog.Handler
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, f)
		handler = slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	} else {
		handler = splitHandler{
			out:  slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
			errs: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
		}
	}

	var raw RawLogger
	switch {
	case opts.RawFile != "":
		f, err := os.OpenFile(opts.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			CloseAll(closers)
			return nil, nil, nil, err
		}
		closers = append(closers, f)
		raw = NewRaw(f)
	case level <= LevelTrace:
		raw = NewRaw(os.Stdout)
	default:
		raw = NewRaw(nil)
	}

	return slog.New(handler), raw, closers, nil
}

// CloseAll closes every log file Setup opened.
func CloseAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
