// Package httpx builds the HTTP client shared by every outbound call of a run.
package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
)

// NewClient returns a client that sets the User-Agent on every request and
// logs request/response pairs at debug level.
func NewClient(lg *slog.Logger, userAgent string, timeout time.Duration) *http.Client {
	rq := requester.New(
		http.Client{Timeout: timeout},
		middleware.Header("User-Agent", userAgent),
		LoggingRoundTripper(lg, RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Authorization", "X-Tc-Authorization"},
		}),
	)
	return rq.Client()
}
