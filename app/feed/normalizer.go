package feed

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

type Normalizer struct {
	summaryLimit int
	now          func() time.Time
}

func NewNormalizer(summaryLimit int) *Normalizer {
	return &Normalizer{
		summaryLimit: summaryLimit,
		now:          time.Now,
	}
}

// Run converts a feed entry into an Item. It reports false when the entry
// has no title or no link.
func (n *Normalizer) Run(entry *gofeed.Item, feedURL string) (Item, bool) {
	if entry == nil {
		return Item{}, false
	}

	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return Item{}, false
	}

	source := entry.Description
	if strings.TrimSpace(source) == "" {
		source = entry.Content
	}

	pubDate := n.pubDate(entry)

	return Item{
		Title:   title,
		Link:    link,
		Summary: Truncate(CleanHTML(source), n.summaryLimit),
		PubDate: pubDate,
		GUID:    MakeGUID(link, pubDate),
		FeedURL: feedURL,
		entry:   entry,
	}, true
}

func (n *Normalizer) pubDate(entry *gofeed.Item) string {
	if published := strings.TrimSpace(entry.Published); published != "" {
		return published
	}
	if updated := strings.TrimSpace(entry.Updated); updated != "" {
		return updated
	}
	return n.now().Format(time.RFC1123Z)
}

// MakeGUID returns the hex SHA-1 of link + "|" + pubDate.
func MakeGUID(link, pubDate string) string {
	sum := sha1.Sum([]byte(link + "|" + pubDate))
	return hex.EncodeToString(sum[:])
}

// CleanHTML drops script and style markup and returns the remaining text
// with whitespace collapsed to single spaces.
func CleanHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style, noscript").Remove()

	var parts []string
	for _, node := range doc.Nodes {
		collectText(node, &parts)
	}

	return norm.NFC.String(strings.Join(strings.Fields(strings.Join(parts, " ")), " "))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
