package observability

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with timestamp formatting. Verbose selects
// debug level; otherwise info.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ParseLevel maps a config level name to a log level, defaulting to info.
func ParseLevel(name string) log.Level {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Logger retrieves the logger from ctx, or log.Default() if none is attached.
func Logger(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// Progress logs completion of an operation with its elapsed time.
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress starts timing an operation.
func NewProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Done logs msg with the elapsed time, e.g. "Rendered 3 pages (1.234s)".
func (p *Progress) Done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
