package cfg

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// LoadFeedsFile reads the YAML feeds file and returns its enabled sources.
func LoadFeedsFile(path string) ([]FeedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var file feedsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file %s: %w", path, err)
	}

	sources := make([]FeedSource, 0, len(file.Feeds))
	for i, src := range file.Feeds {
		src.URL = strings.TrimSpace(src.URL)
		if src.URL == "" {
			return nil, fmt.Errorf("invalid feeds file %s: feed URL is required at index %d", path, i)
		}
		if !src.IsEnabled() {
			slog.Debug("Feed disabled, skipping", "feed", src.Name, "url", src.URL)
			continue
		}
		sources = append(sources, src)
	}

	return sources, nil
}

// MergeFeeds appends file sources after the explicit URLs, keeping the first position of duplicates.
func MergeFeeds(urls []string, sources []FeedSource) []string {
	merged := append([]string{}, urls...)
	for _, src := range sources {
		merged = append(merged, src.URL)
	}
	return lo.Uniq(merged)
}
