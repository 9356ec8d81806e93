package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testRSSRenderer(t *testing.T) *RSSRenderer {
	t.Helper()
	return NewRSSRenderer(newConv(t), RSSOptions{
		Title:       "Der Town Community Events",
		SiteURL:     "https://www.dertown.org",
		Description: "Community events and activities in Der Town",
		FeedPath:    "/api/calendar/rss",
	}, time.Hour, nil)
}

func TestRenderRSSDocument(t *testing.T) {
	r := testRSSRenderer(t)
	ev := timedEvent()
	ev.Description = "Fresh produce weekly"
	ev.Location = "Front Street Park"

	body, skipped := r.Render([]Event{ev}, fixedNow)
	out := string(body)

	assert.Zero(t, skipped)
	assert.Contains(t, out, `<rss version="2.0"`)
	assert.Contains(t, out, "<title>Der Town Community Events</title>")
	assert.Contains(t, out, "<lastBuildDate>Mon, 01 Sep 2025 12:00:00 GMT</lastBuildDate>")
	assert.Contains(t, out, "<guid>ev-1</guid>")
	// 7 PM Pacific on Sept 6 is 02:00 GMT Sept 7.
	assert.Contains(t, out, "<pubDate>Sun, 07 Sep 2025 02:00:00 GMT</pubDate>")
	// The description shows the reference-zone wall clock, not UTC.
	assert.Contains(t, out, "Saturday, September 6, 2025 at 7:00 PM")
	assert.Contains(t, out, "<strong>Location:</strong> Front Street Park")
	assert.Contains(t, out, "<![CDATA[")
}

func TestRenderRSSEscapesTitle(t *testing.T) {
	r := testRSSRenderer(t)
	ev := timedEvent()
	ev.Title = `Bits & <Bobs> "fair"`

	body, _ := r.Render([]Event{ev}, fixedNow)
	assert.Contains(t, string(body), "<title>Bits &amp; &lt;Bobs&gt; &quot;fair&quot;</title>")
}

func TestRenderRSSLinkFallsBackToSite(t *testing.T) {
	r := testRSSRenderer(t)

	withURL := timedEvent()
	withURL.URL = "https://market.example.org"
	body, _ := r.Render([]Event{withURL}, fixedNow)
	assert.Contains(t, string(body), "<link>https://market.example.org</link>")

	body, _ = r.Render([]Event{timedEvent()}, fixedNow)
	assert.Contains(t, string(body), "<link>https://www.dertown.org/events/ev-1</link>")
}

func TestRenderRSSAllDayItem(t *testing.T) {
	r := testRSSRenderer(t)
	ev := Event{ID: "ev-2", Title: "Street Fair", StartDate: "2025-09-06"}

	body, skipped := r.Render([]Event{ev}, fixedNow)
	assert.Zero(t, skipped)
	assert.Contains(t, string(body), "Saturday, September 6, 2025 (all day)")
}

func TestRenderRSSSkipsBadEvent(t *testing.T) {
	r := testRSSRenderer(t)
	bad := timedEvent()
	bad.ID = "ev-bad"
	bad.StartDate = "bogus"

	body, skipped := r.Render([]Event{bad, timedEvent()}, fixedNow)
	out := string(body)

	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, strings.Count(out, "<item>"))
	assert.NotContains(t, out, "ev-bad")
}
