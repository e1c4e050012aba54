// Package pipeline wires the feed stages into a single sequential run:
// fetch, normalize, dedupe, translate, attach images and serialize.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lysyi3m/rss-relay/app/cfg"
	"github.com/lysyi3m/rss-relay/app/feed"
	"github.com/lysyi3m/rss-relay/app/translate"
)

// TextTranslator translates a piece of text and never fails.
type TextTranslator interface {
	Translate(ctx context.Context, text, target string) string
}

var _ TextTranslator = (*translate.Chain)(nil)

type Pipeline struct {
	cfg        *cfg.Cfg
	httpClient *http.Client
	fetcher    *feed.Fetcher
	normalizer *feed.Normalizer
	providers  []translate.Translator
	logger     *slog.Logger
}

// stages holds the parts of a run that keep memo caches. They are built
// per run so nothing learned in one run leaks into the next.
type stages struct {
	translator TextTranslator
	images     *feed.ImageExtractor
	generator  *feed.Generator
}

// New builds the stateless stages from the configuration. Translation
// providers are only set up when a target language is configured.
func New(c *cfg.Cfg, httpClient *http.Client, logger *slog.Logger) (*Pipeline, error) {
	p := &Pipeline{
		cfg:        c,
		httpClient: httpClient,
		fetcher:    feed.NewFetcher(httpClient, feed.NewParser(), c.FetchTimeout, c.EntriesPerFeed, logger),
		normalizer: feed.NewNormalizer(c.SummaryLimit),
		logger:     logger,
	}

	if c.TranslateTo != "" {
		providers, err := NewProviders(c, httpClient)
		if err != nil {
			return nil, err
		}
		p.providers = providers
		logger.Debug("Translator configured", "target", c.TranslateTo, "providers", len(providers))
	}

	return p, nil
}

// NewProviders lists the translation services in the order they are tried:
// keyed services first, then the free endpoint, then the identity fallback.
func NewProviders(c *cfg.Cfg, httpClient *http.Client) ([]translate.Translator, error) {
	var providers []translate.Translator

	if c.HasTencent() {
		tencent, err := translate.NewTencent(c.TencentSecretID, c.TencentSecretKey, c.TencentRegion, c.TranslateTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tencent translator: %w", err)
		}
		providers = append(providers, tencent)
	}

	if c.OpenAIToken != "" {
		providers = append(providers, translate.NewOpenAI(httpClient, c.OpenAIToken, c.OpenAIModel))
	}

	if c.GoogleURL != "" {
		providers = append(providers, translate.NewGoogle(httpClient, c.GoogleURL))
	}

	return append(providers, translate.Identity{}), nil
}

// NewTranslator assembles a provider chain with a fresh memo.
func NewTranslator(c *cfg.Cfg, httpClient *http.Client, logger *slog.Logger) (*translate.Chain, error) {
	providers, err := NewProviders(c, httpClient)
	if err != nil {
		return nil, err
	}
	return translate.NewChain(logger, c.TranslateTimeout, providers...), nil
}

func (p *Pipeline) newStages(logger *slog.Logger) stages {
	prober := feed.NewProber(p.httpClient, p.cfg.ProbeTimeout, logger)

	st := stages{generator: feed.NewGenerator(prober, p.cfg.Version)}

	if len(p.providers) > 0 {
		st.translator = translate.NewChain(logger, p.cfg.TranslateTimeout, p.providers...)
	}

	if p.cfg.WithImages {
		strategies := feed.DefaultImageStrategies()
		if p.cfg.PageImage {
			pages := feed.NewPageImageExtractor(p.httpClient, p.cfg.FetchTimeout, logger)
			strategies = append(strategies, pages.Strategy())
		}
		st.images = feed.NewImageExtractor(prober, logger, strategies...)
	}

	return st
}

// Channel returns the output channel description.
func (p *Pipeline) Channel() feed.Channel {
	return feed.Channel{
		Title:       p.cfg.ChannelTitle,
		Link:        p.cfg.PageLink,
		Description: p.cfg.ChannelDescription,
		Language:    p.cfg.ChannelLanguage,
	}
}

// Run executes one pass over the configured feeds. Per-feed, per-entry and
// per-service failures are logged and skipped; only a cancelled context or a
// serialization failure is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	run := NewRun()
	run.Start()
	logger := p.logger.With("run_id", run.ID)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result := &Result{RunID: run.ID, Channel: p.Channel()}
	st := p.newStages(logger)

	fetched, stats := p.fetcher.Run(ctx, p.cfg.SourceFeeds)
	result.Feeds = stats

	var items []feed.Item
	for _, f := range fetched {
		for _, entry := range f.Entries {
			item, ok := p.normalizer.Run(entry, f.URL)
			if !ok {
				logger.Debug("Entry skipped", "feed", f.URL, "title", entry.Title, "link", entry.Link)
				result.Skipped++
				continue
			}
			items = append(items, item)
		}
	}

	unique := feed.Dedupe(items, -1)
	result.Duplicates = len(items) - len(unique)
	items = feed.Dedupe(unique, p.cfg.MaxItems)

	if st.translator != nil {
		translateItems(ctx, st.translator, items, p.cfg.TranslateTo, p.cfg.SummaryLimit)
	}

	if st.images != nil {
		for i := range items {
			items[i].Image = st.images.Run(ctx, items[i])
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	xml, err := st.generator.Run(ctx, result.Channel, items)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rss: %w", err)
	}

	result.Items = items
	result.XML = xml
	result.Duration = run.GetDuration()

	logger.Info("Run completed",
		"duration", result.Duration,
		"feeds_ok", stats.FeedsOK,
		"feeds_failed", stats.FeedsFailed,
		"entries", stats.Entries,
		"skipped", result.Skipped,
		"duplicates", result.Duplicates,
		"items", len(items))

	return result, nil
}

// translateItems rewrites title and summary in place. The GUID is derived
// from link and date only, so it is unaffected.
func translateItems(ctx context.Context, tr TextTranslator, items []feed.Item, target string, summaryLimit int) {
	for i := range items {
		items[i].Title = tr.Translate(ctx, items[i].Title, target)
		if items[i].Summary != "" {
			summary := tr.Translate(ctx, items[i].Summary, target)
			items[i].Summary = feed.Truncate(summary, summaryLimit)
		}
	}
}
