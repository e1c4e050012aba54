package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lysyi3m/rss-relay/app/feed"
)

type Result struct {
	RunID      string
	Channel    feed.Channel
	Items      []feed.Item
	XML        string
	Feeds      feed.FetchStats
	Skipped    int
	Duplicates int
	Duration   time.Duration
}

// WriteFile stores the generated document at path.
func (r *Result) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(r.XML), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Report prints the summary line followed by one line per item.
func (r *Result) Report(w io.Writer, path string) error {
	if _, err := fmt.Fprintf(w, "Wrote %d items to %s\n", len(r.Items), path); err != nil {
		return err
	}
	for _, item := range r.Items {
		line := fmt.Sprintf("- %s | %s | %s", item.PubDate, item.Title, item.Link)
		if item.Image != "" {
			line += " | " + item.Image
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
