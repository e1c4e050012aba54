package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

// PageImageExtractor finds the lead image of the article an entry links to.
type PageImageExtractor struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

func NewPageImageExtractor(httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *PageImageExtractor {
	return &PageImageExtractor{
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}
}

// Strategy adapts the extractor to the image search order.
func (e *PageImageExtractor) Strategy() ImageStrategy {
	return func(ctx context.Context, entry *gofeed.Item) string {
		image, err := e.Run(ctx, strings.TrimSpace(entry.Link))
		if err != nil {
			e.logger.Debug("Page image lookup failed", "url", entry.Link, "error", err)
			return ""
		}
		return image
	}
}

func (e *PageImageExtractor) Run(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", fmt.Errorf("content type is not HTML: %s", contentType)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}

	if article.Image == "" {
		return "", fmt.Errorf("no lead image in article")
	}

	return article.Image, nil
}
