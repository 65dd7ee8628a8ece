// Package logger wraps zerolog with the constructors and Echo glue sage uses.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// New returns a JSON logger writing to stdout, tagged with role.
func New(role, level string) *Logger {
	return NewWithWriter(os.Stdout, role, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, role, level string) *Logger {
	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Logger().
		Level(ParseLevel(level))
	return &Logger{l}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// FromContext returns the logger attached to ctx. When ctx carries none, or
// only a disabled one, it returns zerolog's global logger so errors are not
// dropped.
func FromContext(ctx context.Context) *Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return &Logger{*l}
	}
	return &Logger{log.Logger}
}

// RequestLogger logs one line per request and attaches a request-scoped
// logger to the request context.
func (l *Logger) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		BeforeNextFunc: func(c echo.Context) {
			req := c.Request()
			ctx := l.With().Str("uri", req.RequestURI).Logger().WithContext(req.Context())
			c.SetRequest(req.WithContext(ctx))
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := l.Info()
			if v.Status >= 500 {
				ev = l.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Str("ua", v.UserAgent).
				Send()
			return nil
		},
	})
}
