package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a logger that always adds the given key/value pairs.
	With(args ...any) Logger
	// WithComponent tags every record with the component name.
	WithComponent(component string) Logger
}

type Opts struct {
	Env       string
	SentryDSN string
	// Writer overrides the default stderr output.
	Writer io.Writer
}

type Impl struct {
	log *slog.Logger
}

var _ Logger = (*Impl)(nil)

func New(opts Opts) *Impl {
	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}

	level := slog.LevelDebug
	var zl zerolog.Logger
	if opts.Env == "production" {
		level = slog.LevelInfo
		zl = zerolog.New(out).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	handlers := []slog.Handler{
		slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler(),
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Env,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		} else {
			zl.Error().Err(err).Msg("Failed to init sentry, error reporting disabled")
		}
	}

	return &Impl{log: slog.New(slogmulti.Fanout(handlers...))}
}

// NewNop returns a logger that drops everything. Useful in tests.
func NewNop() *Impl {
	return &Impl{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Impl) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l *Impl) Info(msg string, args ...any)  { l.log.Info(msg, args...) }
func (l *Impl) Warn(msg string, args ...any)  { l.log.Warn(msg, args...) }
func (l *Impl) Error(msg string, args ...any) { l.log.Error(msg, args...) }

func (l *Impl) With(args ...any) Logger {
	return &Impl{log: l.log.With(args...)}
}

func (l *Impl) WithComponent(component string) Logger {
	return l.With("component", component)
}

// Slog exposes the underlying slog logger, e.g. for fxevent.SlogLogger.
func (l *Impl) Slog() *slog.Logger {
	return l.log
}

// Flush waits for buffered sentry events to be delivered.
func (l *Impl) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
