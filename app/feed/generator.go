package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"time"
)

type Generator struct {
	prober  *Prober
	version string
	now     func() time.Time
}

// NewGenerator creates a generator. prober may be nil, in which case
// enclosure types are guessed from the URL extension only.
func NewGenerator(prober *Prober, version string) *Generator {
	return &Generator{
		prober:  prober,
		version: version,
		now:     time.Now,
	}
}

func (g *Generator) Run(ctx context.Context, channel Channel, items []Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0">`)
	buf.WriteString("\n  <channel>\n")

	g.writeRequired(&buf, "title", channel.Title, 4)
	g.writeRequired(&buf, "link", channel.Link, 4)
	g.writeRequired(&buf, "description", channel.Description, 4)
	g.writeElement(&buf, "language", channel.Language, 4)
	g.writeElement(&buf, "lastBuildDate", g.now().In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("RSS-Relay/%s", g.version), 4)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("generation interrupted: %w", err)
		}
		g.writeItem(ctx, &buf, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String(), nil
}

func (g *Generator) writeItem(ctx context.Context, buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Link, 6)
	g.writeElement(buf, "description", item.Summary, 6)
	g.writeElement(buf, "pubDate", item.PubDate, 6)

	buf.WriteString(`      <guid isPermaLink="false">`)
	xml.EscapeText(buf, []byte(item.GUID))
	buf.WriteString("</guid>\n")

	if item.Image != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
			html.EscapeString(item.Image),
			html.EscapeString(g.enclosureType(ctx, item.Image))))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) enclosureType(ctx context.Context, image string) string {
	if g.prober != nil {
		return g.prober.ContentType(ctx, image)
	}
	if ct, ok := extensionType(image); ok {
		return ct
	}
	return DefaultImageType
}

// writeRequired writes the element even when content is empty.
func (g *Generator) writeRequired(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		for i := 0; i < indent; i++ {
			buf.WriteByte(' ')
		}
		buf.WriteString("<" + tag + "></" + tag + ">\n")
		return
	}
	g.writeElement(buf, tag, content, indent)
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
