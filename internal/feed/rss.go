package feed

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/timezone"
)

// RFC 822 as RSS readers expect it (RFC 1123 with a literal GMT zone).
const rfc822Layout = "Mon, 02 Jan 2006 15:04:05 GMT"

// RSSOptions names the channel the renderer emits.
type RSSOptions struct {
	Title       string
	SiteURL     string
	Description string
	FeedPath    string // self link path, e.g. /api/calendar/rss
}

// RSSRenderer emits RSS 2.0 documents with one item per event.
type RSSRenderer struct {
	conv            *timezone.Converter
	opts            RSSOptions
	defaultDuration time.Duration
	logger          *zap.Logger
}

// NewRSSRenderer constructs the renderer.
func NewRSSRenderer(conv *timezone.Converter, opts RSSOptions, defaultDuration time.Duration, logger *zap.Logger) *RSSRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RSSRenderer{conv: conv, opts: opts, defaultDuration: defaultDuration, logger: logger}
}

// Render emits the channel document. Events with unresolvable dates are
// logged and skipped, never fatal; the second return value counts them.
func (r *RSSRenderer) Render(events []Event, now time.Time) ([]byte, int) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	b.WriteString("    <title>" + EscapeXML(r.opts.Title) + "</title>\n")
	b.WriteString("    <link>" + EscapeXML(r.opts.SiteURL) + "</link>\n")
	b.WriteString("    <description>" + EscapeXML(r.opts.Description) + "</description>\n")
	b.WriteString("    <language>en-US</language>\n")
	b.WriteString("    <lastBuildDate>" + now.UTC().Format(rfc822Layout) + "</lastBuildDate>\n")
	b.WriteString(`    <atom:link href="` + EscapeXML(r.opts.SiteURL+r.opts.FeedPath) + `" rel="self" type="application/rss+xml" />` + "\n")

	skipped := 0
	for _, ev := range events {
		if err := r.writeItem(&b, ev); err != nil {
			skipped++
			r.logger.Warn("skipping event in rss feed",
				zap.String("event_id", ev.ID),
				zap.String("start_date", ev.StartDate),
				zap.Error(err))
		}
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return []byte(b.String()), skipped
}

func (r *RSSRenderer) writeItem(b *strings.Builder, ev Event) error {
	window, err := ResolveWindow(r.conv, ev, r.defaultDuration)
	if err != nil {
		return err
	}

	link := ev.URL
	if link == "" {
		link = r.opts.SiteURL + "/events/" + ev.ID
	}

	b.WriteString("    <item>\n")
	b.WriteString("      <title>" + EscapeXML(ev.Title) + "</title>\n")
	b.WriteString("      <link>" + EscapeXML(link) + "</link>\n")
	b.WriteString("      <guid>" + EscapeXML(ev.ID) + "</guid>\n")
	b.WriteString("      <pubDate>" + window.Start.Time().UTC().Format(rfc822Layout) + "</pubDate>\n")
	b.WriteString("      <description><![CDATA[" + r.itemDescription(ev, window) + "]]></description>\n")
	b.WriteString("    </item>\n")
	return nil
}

// itemDescription builds the human-readable body: the event description,
// the location, and the start rendered as a reference-zone date and time.
func (r *RSSRenderer) itemDescription(ev Event, window Window) string {
	var b strings.Builder
	b.WriteString(EscapeXML(ev.Description))
	if ev.Location != "" {
		b.WriteString("<br/><strong>Location:</strong> " + EscapeXML(ev.Location))
	}
	local := window.Start.Time()
	when := local.Format("Monday, January 2, 2006")
	if window.AllDay {
		when += " (all day)"
	} else {
		when += " at " + local.Format("3:04 PM")
	}
	b.WriteString("<br/><strong>Date:</strong> " + when)
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeXML entity-escapes free text for element content.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
