package feed

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v2"
)

const DefaultImageType = "image/jpeg"

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".avif": "image/avif",
}

// Prober answers whether a URL points to an image, using the path extension
// first and a HEAD request otherwise. Probe results are memoized.
type Prober struct {
	httpClient *http.Client
	timeout    time.Duration
	cache      cache.Cache[string, string]
	logger     *slog.Logger
}

func NewProber(httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *Prober {
	return &Prober{
		httpClient: httpClient,
		timeout:    timeout,
		cache:      cache.NewCache[string, string]().WithTTL(15 * time.Minute).WithMaxKeys(1000),
		logger:     logger,
	}
}

// IsImage reports whether rawURL can be used as an item image.
// Network errors make the candidate invalid.
func (p *Prober) IsImage(ctx context.Context, rawURL string) bool {
	if _, ok := extensionType(rawURL); ok {
		return true
	}
	return strings.HasPrefix(p.probe(ctx, rawURL), "image/")
}

// ContentType returns a best-effort MIME type for an image URL.
func (p *Prober) ContentType(ctx context.Context, rawURL string) string {
	if ct := p.probe(ctx, rawURL); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct, ok := extensionType(rawURL); ok {
		return ct
	}
	return DefaultImageType
}

// probe issues a HEAD request and returns the media type, or "" on any failure.
// Failures are not memoized.
func (p *Prober) probe(ctx context.Context, rawURL string) string {
	if ct, ok := p.cache.Get(rawURL); ok {
		return ct
	}

	ct := p.head(ctx, rawURL)
	if ct != "" {
		p.cache.Set(rawURL, ct, 0)
	}
	return ct
}

func (p *Prober) head(ctx context.Context, rawURL string) string {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodHead, rawURL, nil)
	if err != nil {
		p.logger.Debug("Image probe failed", "url", rawURL, "error", err)
		return ""
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug("Image probe failed", "url", rawURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Debug("Image probe failed", "url", rawURL, "status", resp.StatusCode)
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

func extensionType(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	ct, ok := imageExtensions[strings.ToLower(path.Ext(u.Path))]
	return ct, ok
}
