package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// transport wraps an http.RoundTripper to log outbound requests
type transport struct {
	next    http.RoundTripper
	logger  *slog.Logger
	secrets redactor
}

// NewTransport creates an outbound request logging RoundTripper.
// Every occurrence of a non-empty secret in the logged path is replaced with Redacted.
func NewTransport(logger *slog.Logger, next http.RoundTripper, secrets ...string) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &transport{next: next, logger: logger, secrets: newRedactor(secrets)}
}

// RoundTrip implements http.RoundTripper
func (t *transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	// Get request size - use max() to handle -1 case (unknown length)
	bytesIn := max(0, int(r.ContentLength))

	resp, err := t.next.RoundTrip(r)

	duration := time.Since(start)

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("host", r.URL.Host),
		slog.String("path", t.secrets.apply(r.URL.Path)),
		slog.Duration("duration", duration),
		slog.Int("bytes_out", bytesIn),
	}

	level := slog.LevelDebug
	switch {
	case err != nil:
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", t.secrets.apply(err.Error())))
	case resp.StatusCode >= http.StatusInternalServerError:
		level = slog.LevelError
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		level = slog.LevelWarn
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	default:
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	}

	if resp != nil {
		attrs = append(attrs, slog.Int64("bytes_in", max(0, resp.ContentLength)))
	}

	// Log with constant message - let structured fields tell the story
	t.logger.LogAttrs(r.Context(), level, "HTTP", attrs...)

	return resp, err
}
