package logger

import (
	"fmt"
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

// Logger is the logging interface used across the application.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// WithComponent returns a child logger tagged with a component name.
	WithComponent(name string) Logger
}

type Opts struct {
	Env       string
	SentryUrl string
}

type Impl struct {
	sl *slog.Logger
}

var _ Logger = (*Impl)(nil)

// New builds a Logger backed by zerolog, with console output in development
// and JSON in production. When a Sentry DSN is provided, Error-level records
// are additionally forwarded to Sentry.
func New(opts Opts) *Impl {
	var zl zerolog.Logger
	if opts.Env == "production" {
		zl = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}

	level := slog.LevelDebug
	if opts.Env == "production" {
		level = slog.LevelInfo
	}

	handlers := []slog.Handler{
		slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler(),
	}

	if opts.SentryUrl != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryUrl,
			Environment: opts.Env,
		}); err != nil {
			zl.Warn().Err(err).Msg("sentry init failed, continuing without it")
		} else {
			handlers = append(handlers,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)
		}
	}

	return &Impl{sl: slog.New(slogmulti.Fanout(handlers...))}
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Impl {
	return &Impl{sl: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Impl) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l *Impl) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *Impl) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *Impl) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func (l *Impl) WithComponent(name string) Logger {
	return &Impl{sl: l.sl.With("component", name)}
}

// Printf satisfies fx.Printer so the Impl can be passed to fx.Logger.
func (l *Impl) Printf(format string, args ...any) {
	l.sl.Debug(fmt.Sprintf(format, args...))
}
