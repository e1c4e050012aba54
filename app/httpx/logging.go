package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/samber/lo"
)

// RoundTripperOpts contains options for the client logger.
type RoundTripperOpts struct {
	Level         slog.Level
	SecretHeaders []string
}

// LoggingRoundTripper logs every client request.
func LoggingRoundTripper(lg *slog.Logger, opts RoundTripperOpts) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if !lg.Enabled(req.Context(), opts.Level) {
				return next.RoundTrip(req)
			}

			lg.LogAttrs(req.Context(), opts.Level, "Request sent",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Any("headers", maskHeaders(req.Header, opts.SecretHeaders)))

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				lg.LogAttrs(req.Context(), opts.Level, "Request failed",
					slog.String("url", req.URL.String()),
					slog.Duration("elapsed", elapsed),
					slog.Any("error", err))
				return resp, err
			}

			lg.LogAttrs(req.Context(), opts.Level, "Response received",
				slog.String("url", req.URL.String()),
				slog.Int("status", resp.StatusCode),
				slog.String("content_type", resp.Header.Get("Content-Type")),
				slog.Duration("elapsed", elapsed))

			return resp, nil
		})
	}
}

func maskHeaders(h http.Header, secret []string) map[string]string {
	headers := make(map[string]string, len(h))
	for k, vals := range h {
		if lo.Contains(secret, k) {
			headers[k] = "***"
			continue
		}
		headers[k] = strings.Join(vals, ",")
	}
	return headers
}
