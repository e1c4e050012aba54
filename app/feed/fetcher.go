package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedEntries holds the leading entries of one successfully fetched feed.
type FeedEntries struct {
	URL      string
	Metadata *Metadata
	Entries  []*gofeed.Item
}

type Fetcher struct {
	httpClient     *http.Client
	parser         *Parser
	timeout        time.Duration
	entriesPerFeed int
	logger         *slog.Logger
}

func NewFetcher(httpClient *http.Client, parser *Parser, timeout time.Duration, entriesPerFeed int, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient:     httpClient,
		parser:         parser,
		timeout:        timeout,
		entriesPerFeed: entriesPerFeed,
		logger:         logger,
	}
}

// Run fetches every feed in order. A feed that cannot be fetched or parsed
// is logged and skipped; the remaining feeds are still processed.
func (f *Fetcher) Run(ctx context.Context, urls []string) ([]FeedEntries, FetchStats) {
	var stats FetchStats
	results := make([]FeedEntries, 0, len(urls))

	for _, url := range urls {
		if ctx.Err() != nil {
			f.logger.Warn("Fetching interrupted", "error", ctx.Err())
			break
		}

		metadata, entries, err := f.fetchOne(ctx, url)
		if err != nil {
			f.logger.Error("Feed skipped", "url", url, "error", err)
			stats.FeedsFailed++
			continue
		}

		f.logger.Debug("Feed fetched", "url", url, "title", metadata.Title, "entries", len(entries))
		stats.FeedsOK++
		stats.Entries += len(entries)
		results = append(results, FeedEntries{URL: url, Metadata: metadata, Entries: entries})
	}

	return results, stats
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (*Metadata, []*gofeed.Item, error) {
	data, err := f.fetchFeed(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return f.parser.Run(data, f.entriesPerFeed)
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
