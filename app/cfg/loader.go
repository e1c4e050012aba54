package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"
	"golang.org/x/text/language"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const (
	DefaultPageLink       = "https://www.facebook.com"
	DefaultMaxItems       = 5
	DefaultEntriesPerFeed = 5
	DefaultSummaryLimit   = 280
	DefaultOutput         = "rss.xml"
)

type rawCfg struct {
	// Channel configuration
	PageLink           string `long:"page-link" env:"PAGE_LINK" default:"https://www.facebook.com" description:"Channel link"`
	ChannelTitle       string `long:"channel-title" env:"CHANNEL_TITLE" default:"ข่าวไว" description:"Channel title"`
	ChannelDescription string `long:"channel-description" env:"CHANNEL_DESCRIPTION" default:"ข่าวอัปเดตเร็ว ทันเหตุการณ์ รายชั่วโมง" description:"Channel description"`
	ChannelLanguage    string `long:"channel-language" env:"CHANNEL_LANGUAGE" default:"th-TH" description:"Channel language tag"`

	// Pipeline configuration
	SourceFeeds    []string `long:"source-feeds" env:"SOURCE_FEEDS" env-delim:"," description:"Source feed URLs (comma separated in env)"`
	FeedsFile      string   `long:"feeds-file" env:"FEEDS_FILE" description:"YAML file with additional source feeds"`
	MaxItems       int      `long:"max-items" env:"MAX_ITEMS" default:"5" description:"Maximum number of items in the output"`
	EntriesPerFeed int      `long:"entries-per-feed" env:"ENTRIES_PER_FEED" default:"5" description:"Leading entries taken from each feed"`
	SummaryLimit   int      `long:"summary-limit" env:"SUMMARY_LIMIT" default:"280" description:"Summary length budget in characters"`
	Output         string   `long:"output" env:"OUTPUT" default:"rss.xml" description:"Output file path"`

	// Translation
	TranslateTo      string `long:"translate-to" env:"TRANSLATE_TO" description:"Target language for translation (disabled when empty)"`
	TencentSecretID  string `long:"tencent-secret-id" env:"TENCENT_SECRET_ID" description:"Tencent Cloud secret ID"`
	TencentSecretKey string `long:"tencent-secret-key" env:"TENCENT_SECRET_KEY" description:"Tencent Cloud secret key"`
	TencentRegion    string `long:"tencent-region" env:"TENCENT_REGION" default:"ap-bangkok" description:"Tencent Cloud region"`
	OpenAIToken      string `long:"openai-token" env:"OPENAI_TOKEN" description:"OpenAI API token"`
	OpenAIModel      string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"OpenAI model used for translation"`
	GoogleURL        string `long:"google-url" env:"GOOGLE_TRANSLATE_URL" default:"https://translate.googleapis.com/translate_a/single" description:"Free Google translate endpoint"`

	// Images
	WithImages bool `long:"with-images" env:"WITH_IMAGES" description:"Extract a representative image per item"`
	PageImage  bool `long:"page-image" env:"PAGE_IMAGE" description:"Fall back to the article page lead image"`

	// Timeouts
	FetchTimeout     time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15s" description:"Feed fetch timeout"`
	TranslateTimeout time.Duration `long:"translate-timeout" env:"TRANSLATE_TIMEOUT" default:"8s" description:"Timeout of a single translation call"`
	ProbeTimeout     time.Duration `long:"probe-timeout" env:"PROBE_TIMEOUT" default:"5s" description:"Image probe timeout"`

	// Serve mode
	Serve bool   `long:"serve" env:"SERVE" description:"Serve the feed over HTTP, one run per request"`
	Port  string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Relay/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	LogFile   string `long:"log-file" env:"LOG_FILE" description:"Also write logs to this file (rotated)"`
}

// Default returns the configuration used when nothing is set.
func Default() *Cfg {
	return &Cfg{
		PageLink:           DefaultPageLink,
		ChannelTitle:       "ข่าวไว",
		ChannelDescription: "ข่าวอัปเดตเร็ว ทันเหตุการณ์ รายชั่วโมง",
		ChannelLanguage:    "th-TH",
		SourceFeeds:        []string{},
		MaxItems:           DefaultMaxItems,
		EntriesPerFeed:     DefaultEntriesPerFeed,
		SummaryLimit:       DefaultSummaryLimit,
		Output:             DefaultOutput,
		TencentRegion:      "ap-bangkok",
		OpenAIModel:        "gpt-4o-mini",
		GoogleURL:          "https://translate.googleapis.com/translate_a/single",
		FetchTimeout:       15 * time.Second,
		TranslateTimeout:   8 * time.Second,
		ProbeTimeout:       5 * time.Second,
		Port:               "8080",
		UserAgent:          "RSS Relay/1.0",
		Version:            GetVersion(),
	}
}

// Load parses command-line arguments and environment variables.
// It returns nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		PageLink:           cmp.Or(strings.TrimSpace(raw.PageLink), DefaultPageLink),
		ChannelTitle:       raw.ChannelTitle,
		ChannelDescription: raw.ChannelDescription,
		ChannelLanguage:    raw.ChannelLanguage,
		SourceFeeds:        splitFeeds(raw.SourceFeeds),
		FeedsFile:          raw.FeedsFile,
		MaxItems:           raw.MaxItems,
		EntriesPerFeed:     raw.EntriesPerFeed,
		SummaryLimit:       raw.SummaryLimit,
		Output:             raw.Output,
		TranslateTo:        strings.TrimSpace(raw.TranslateTo),
		TencentSecretID:    raw.TencentSecretID,
		TencentSecretKey:   raw.TencentSecretKey,
		TencentRegion:      raw.TencentRegion,
		OpenAIToken:        raw.OpenAIToken,
		OpenAIModel:        raw.OpenAIModel,
		GoogleURL:          raw.GoogleURL,
		WithImages:         raw.WithImages,
		PageImage:          raw.PageImage,
		FetchTimeout:       raw.FetchTimeout,
		TranslateTimeout:   raw.TranslateTimeout,
		ProbeTimeout:       raw.ProbeTimeout,
		Serve:              raw.Serve,
		Port:               raw.Port,
		UserAgent:          raw.UserAgent,
		Debug:              raw.Debug,
		LogFile:            raw.LogFile,
		Version:            GetVersion(),
	}

	if cfg.FeedsFile != "" {
		sources, err := LoadFeedsFile(cfg.FeedsFile)
		if err != nil {
			return nil, err
		}
		cfg.SourceFeeds = MergeFeeds(cfg.SourceFeeds, sources)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) Validate() error {
	if c.MaxItems < 1 {
		return fmt.Errorf("max items must be positive, got %d", c.MaxItems)
	}
	if c.EntriesPerFeed < 1 {
		return fmt.Errorf("entries per feed must be positive, got %d", c.EntriesPerFeed)
	}
	if c.SummaryLimit < 1 {
		return fmt.Errorf("summary limit must be positive, got %d", c.SummaryLimit)
	}
	if c.Output == "" && !c.Serve {
		return fmt.Errorf("output path is required")
	}
	if _, err := language.Parse(c.ChannelLanguage); err != nil {
		return fmt.Errorf("invalid channel language %q: %w", c.ChannelLanguage, err)
	}
	if c.TranslateTo != "" {
		if _, err := language.Parse(c.TranslateTo); err != nil {
			return fmt.Errorf("invalid translation target %q: %w", c.TranslateTo, err)
		}
	}
	return nil
}

// HasTencent reports whether both Tencent Cloud credentials are set.
func (c *Cfg) HasTencent() bool {
	return c.TencentSecretID != "" && c.TencentSecretKey != ""
}

// splitFeeds flattens comma separated values, trims them and drops empties.
// go-flags splits env values on the delimiter but a repeated flag may still carry commas.
func splitFeeds(values []string) []string {
	var urls []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				urls = append(urls, part)
			}
		}
	}
	return lo.Uniq(urls)
}
