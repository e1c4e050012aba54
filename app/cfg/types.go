package cfg

import "time"

type Cfg struct {
	// Channel configuration
	PageLink           string
	ChannelTitle       string
	ChannelDescription string
	ChannelLanguage    string

	// Pipeline configuration
	SourceFeeds    []string
	FeedsFile      string
	MaxItems       int
	EntriesPerFeed int
	SummaryLimit   int
	Output         string

	// Translation
	TranslateTo      string
	TencentSecretID  string
	TencentSecretKey string
	TencentRegion    string
	OpenAIToken      string
	OpenAIModel      string
	GoogleURL        string

	// Images
	WithImages bool
	PageImage  bool

	// Timeouts
	FetchTimeout     time.Duration
	TranslateTimeout time.Duration
	ProbeTimeout     time.Duration

	// Serve mode
	Serve bool
	Port  string

	// Application metadata
	UserAgent string
	Debug     bool
	LogFile   string
	Version   string
}

// FeedSource is a single entry of the feeds file.
type FeedSource struct {
	URL     string `yaml:"url"`
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled"`
}

func (s FeedSource) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

type feedsFile struct {
	Feeds []FeedSource `yaml:"feeds"`
}
