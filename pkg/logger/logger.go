package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const BritishTimeFormat = "02.01.2006 15:04:05"

// Redacted replaces secrets in log output
const Redacted = "***"

// Config represents logger configuration from environment/config.
// LogHumanFriendly toggles between text (true) and JSON (false).
// Secrets are masked wherever they appear in a string or error attribute.
type Config struct {
	LogLevel         string
	LogHumanFriendly bool
	Secrets          []string
	Output           io.Writer // stdout when nil
}

// ParseLevel converts a string to slog.Level, defaulting to Info on error.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewFromConfig creates a slog.Logger based on Config.
func NewFromConfig(cfg Config) *slog.Logger {
	redact := newRedactor(cfg.Secrets)
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.LogLevel),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch {
			case a.Key == slog.TimeKey:
				return slog.String(slog.TimeKey, a.Value.Time().Format(BritishTimeFormat))
			case a.Value.Kind() == slog.KindString:
				return slog.String(a.Key, redact.apply(a.Value.String()))
			}
			if err, ok := a.Value.Any().(error); ok {
				return slog.String(a.Key, redact.apply(err.Error()))
			}
			return a
		},
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	if cfg.LogHumanFriendly {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// redactor masks every non-empty secret
type redactor []string

func newRedactor(secrets []string) redactor {
	r := make(redactor, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			r = append(r, s)
		}
	}
	return r
}

func (r redactor) apply(s string) string {
	for _, secret := range r {
		s = strings.ReplaceAll(s, secret, Redacted)
	}
	return s
}
