package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS or Atom data and returns the feed metadata with at most
// limit leading entries. A non-positive limit keeps every entry.
func (p *Parser) Run(data []byte, limit int) (*Metadata, []*gofeed.Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	entries := feed.Items
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return metadata, entries, nil
}
