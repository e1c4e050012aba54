package feed

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// ImageStrategy returns a candidate image URL for an entry, or "".
type ImageStrategy func(ctx context.Context, entry *gofeed.Item) string

type ImageExtractor struct {
	strategies []ImageStrategy
	prober     *Prober
	logger     *slog.Logger
}

// DefaultImageStrategies is the search order: media metadata, enclosures, summary <img>.
func DefaultImageStrategies() []ImageStrategy {
	return []ImageStrategy{MediaImage, EnclosureImage, SummaryImage}
}

func NewImageExtractor(prober *Prober, logger *slog.Logger, strategies ...ImageStrategy) *ImageExtractor {
	if len(strategies) == 0 {
		strategies = DefaultImageStrategies()
	}
	return &ImageExtractor{
		strategies: strategies,
		prober:     prober,
		logger:     logger,
	}
}

// Run returns the first candidate accepted by the prober, or "".
func (e *ImageExtractor) Run(ctx context.Context, item Item) string {
	entry := item.Entry()
	if entry == nil {
		return ""
	}

	for i, strategy := range e.strategies {
		candidate := strategy(ctx, entry)
		if candidate == "" {
			continue
		}

		resolved, ok := resolveURL(item.Link, candidate)
		if !ok {
			e.logger.Debug("Image candidate rejected", "link", item.Link, "candidate", candidate, "strategy", i)
			continue
		}

		if e.prober.IsImage(ctx, resolved) {
			return resolved
		}
		e.logger.Debug("Image candidate rejected", "link", item.Link, "candidate", resolved, "strategy", i)
	}

	return ""
}

// MediaImage looks at media:content and media:thumbnail (also inside
// media:group), then at the image gofeed attached to the entry.
func MediaImage(_ context.Context, entry *gofeed.Item) string {
	media := entry.Extensions["media"]
	if u := mediaURL(media); u != "" {
		return u
	}
	for _, group := range media["group"] {
		if u := mediaURL(group.Children); u != "" {
			return u
		}
	}
	if entry.Image != nil {
		return strings.TrimSpace(entry.Image.URL)
	}
	return ""
}

func mediaURL(elems map[string][]ext.Extension) string {
	for _, content := range elems["content"] {
		u := strings.TrimSpace(content.Attrs["url"])
		if u == "" {
			continue
		}
		medium := content.Attrs["medium"]
		typ := content.Attrs["type"]
		if medium == "image" || strings.HasPrefix(typ, "image/") || (medium == "" && typ == "") {
			return u
		}
	}
	for _, thumb := range elems["thumbnail"] {
		if u := strings.TrimSpace(thumb.Attrs["url"]); u != "" {
			return u
		}
	}
	return ""
}

// EnclosureImage returns the first enclosure that is not declared as a non-image type.
func EnclosureImage(_ context.Context, entry *gofeed.Item) string {
	for _, enclosure := range entry.Enclosures {
		if enclosure == nil || strings.TrimSpace(enclosure.URL) == "" {
			continue
		}
		if enclosure.Type == "" || strings.HasPrefix(strings.ToLower(enclosure.Type), "image/") {
			return strings.TrimSpace(enclosure.URL)
		}
	}
	return ""
}

// SummaryImage returns the src of the first <img> in the raw description, then content.
func SummaryImage(_ context.Context, entry *gofeed.Item) string {
	for _, source := range []string{entry.Description, entry.Content} {
		if u := firstImgSrc(source); u != "" {
			return u
		}
	}
	return ""
}

func firstImgSrc(s string) string {
	if !strings.Contains(s, "<img") && !strings.Contains(s, "<IMG") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

func resolveURL(base, candidate string) (string, bool) {
	ref, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", false
		}
		ref = baseURL.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	return ref.String(), true
}
