package feed

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
)

func TestNormalizerRun(t *testing.T) {
	n := NewNormalizer(280)
	entry := &gofeed.Item{
		Title:       "  Hello & World  ",
		Link:        " http://x/1 ",
		Description: "<p>Some <b>bold</b> text</p><script>alert(1)</script><style>p{}</style>",
		Published:   "Mon, 01 Jan 2024 00:00:00 GMT",
	}

	item, ok := n.Run(entry, "http://feed")
	if !ok {
		t.Fatal("Expected entry to be accepted")
	}

	if item.Title != "Hello & World" {
		t.Errorf("Expected trimmed title, got: %q", item.Title)
	}
	if item.Link != "http://x/1" {
		t.Errorf("Expected trimmed link, got: %q", item.Link)
	}
	if item.Summary != "Some bold text" {
		t.Errorf("Expected cleaned summary, got: %q", item.Summary)
	}
	if item.PubDate != "Mon, 01 Jan 2024 00:00:00 GMT" {
		t.Errorf("Expected verbatim pubdate, got: %q", item.PubDate)
	}

	sum := sha1.Sum([]byte("http://x/1|Mon, 01 Jan 2024 00:00:00 GMT"))
	if item.GUID != hex.EncodeToString(sum[:]) {
		t.Errorf("Expected GUID to be sha1 of link|pubdate, got: %s", item.GUID)
	}
	if item.Entry() != entry {
		t.Error("Expected source entry to be kept")
	}
	if item.FeedURL != "http://feed" {
		t.Errorf("Expected feed URL to be kept, got: %s", item.FeedURL)
	}
}

func TestNormalizerRejectsIncompleteEntries(t *testing.T) {
	n := NewNormalizer(280)

	tests := []struct {
		name  string
		entry *gofeed.Item
	}{
		{"nil entry", nil},
		{"missing title", &gofeed.Item{Link: "http://x/1"}},
		{"blank title", &gofeed.Item{Title: "   ", Link: "http://x/1"}},
		{"missing link", &gofeed.Item{Title: "Title"}},
		{"blank link", &gofeed.Item{Title: "Title", Link: "\n\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := n.Run(tt.entry, ""); ok {
				t.Error("Expected entry to be rejected")
			}
		})
	}
}

func TestNormalizerPubDateFallbacks(t *testing.T) {
	fixed := time.Date(2024, 3, 5, 6, 7, 8, 0, time.FixedZone("ICT", 7*3600))
	n := NewNormalizer(280)
	n.now = func() time.Time { return fixed }

	updated, _ := n.Run(&gofeed.Item{Title: "t", Link: "l", Updated: "2024-01-01T00:00:00Z"}, "")
	if updated.PubDate != "2024-01-01T00:00:00Z" {
		t.Errorf("Expected updated date fallback, got: %s", updated.PubDate)
	}

	both, _ := n.Run(&gofeed.Item{Title: "t", Link: "l", Published: "P", Updated: "U"}, "")
	if both.PubDate != "P" {
		t.Errorf("Expected published to win over updated, got: %s", both.PubDate)
	}

	none, _ := n.Run(&gofeed.Item{Title: "t", Link: "l"}, "")
	if none.PubDate != "Tue, 05 Mar 2024 06:07:08 +0700" {
		t.Errorf("Expected fetch time in RFC-2822 form, got: %s", none.PubDate)
	}
}

func TestNormalizerSummaryFallsBackToContent(t *testing.T) {
	n := NewNormalizer(280)
	item, _ := n.Run(&gofeed.Item{Title: "t", Link: "l", Content: "<div>From content</div>"}, "")
	if item.Summary != "From content" {
		t.Errorf("Expected summary from content, got: %q", item.Summary)
	}
}

func TestNormalizerSummaryLimit(t *testing.T) {
	for _, limit := range []int{280, 400, 10} {
		n := NewNormalizer(limit)
		long := strings.Repeat("ข่าว news ", 200)
		item, _ := n.Run(&gofeed.Item{Title: "t", Link: "l", Description: long}, "")
		if utf8.RuneCountInString(item.Summary) > limit {
			t.Errorf("Expected at most %d characters, got %d", limit, utf8.RuneCountInString(item.Summary))
		}
		if utf8.RuneCountInString(item.Summary) != limit {
			t.Errorf("Expected summary to fill the budget of %d, got %d", limit, utf8.RuneCountInString(item.Summary))
		}
		if !utf8.ValidString(item.Summary) {
			t.Error("Expected valid UTF-8 after truncation")
		}
	}
}

func TestMakeGUID(t *testing.T) {
	a := MakeGUID("http://x/1", "Mon, 01 Jan 2024 00:00:00 GMT")
	b := MakeGUID("http://x/1", "Mon, 01 Jan 2024 00:00:00 GMT")
	c := MakeGUID("http://x/2", "Mon, 01 Jan 2024 00:00:00 GMT")
	d := MakeGUID("http://x/1", "Tue, 02 Jan 2024 00:00:00 GMT")

	if a != b {
		t.Error("Expected same GUID for same link and pubdate")
	}
	if a == c || a == d {
		t.Error("Expected different GUIDs for different inputs")
	}
	if len(a) != 40 {
		t.Errorf("Expected 40 hex characters, got %d", len(a))
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain text", "  just   text \n here ", "just text here"},
		{"entities", "Tom &amp; Jerry &lt;3", "Tom & Jerry <3"},
		{"adjacent blocks", "<p>one</p><p>two</p>", "one two"},
		{"script and style", "<style>.a{}</style>keep<script>var x;</script>", "keep"},
		{"noscript", "a<noscript>b</noscript>c", "a c"},
		{"nbsp collapsed", "a&nbsp;&nbsp;b", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	if got := Truncate("สวัสดีครับ", 3); got != "สวั" {
		t.Errorf("Expected rune-based truncation, got %q", got)
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Errorf("Expected no truncation for zero limit, got %q", got)
	}
}
