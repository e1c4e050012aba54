package feed

import (
	"github.com/mmcdole/gofeed"
)

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// Item is one normalized output item. It lives for a single run only.
type Item struct {
	Title   string
	Link    string
	Summary string
	PubDate string // original textual date, not reparsed
	GUID    string // sha1(link|pubdate)
	Image   string

	FeedURL string
	entry   *gofeed.Item
}

// Entry returns the source feed entry the item was normalized from.
func (i Item) Entry() *gofeed.Item {
	return i.entry
}

type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type FetchStats struct {
	FeedsOK     int
	FeedsFailed int
	Entries     int
}
