package feed

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/timezone"
)

const utcBasicLayout = "20060102T150405Z"

// ICalOptions names the calendar the renderer emits.
type ICalOptions struct {
	CalendarName string
	CalendarDesc string
	ProdID       string
	UIDHost      string // domain suffix for VEVENT UIDs
}

// ICalRenderer emits RFC 5545 VCALENDAR documents for batches of events.
type ICalRenderer struct {
	conv            *timezone.Converter
	opts            ICalOptions
	defaultDuration time.Duration
	logger          *zap.Logger
}

// NewICalRenderer constructs the renderer.
func NewICalRenderer(conv *timezone.Converter, opts ICalOptions, defaultDuration time.Duration, logger *zap.Logger) *ICalRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ICalRenderer{conv: conv, opts: opts, defaultDuration: defaultDuration, logger: logger}
}

// Render emits one VEVENT per event. An event whose dates cannot be resolved
// is logged and skipped; it never aborts the rest of the feed. The second
// return value counts skipped events.
func (r *ICalRenderer) Render(events []Event, now time.Time) ([]byte, int) {
	var b strings.Builder
	r.writeHeader(&b)

	skipped := 0
	stamp := now.UTC().Format(utcBasicLayout)
	for _, ev := range events {
		if err := r.writeEvent(&b, ev, stamp); err != nil {
			skipped++
			r.logger.Warn("skipping event in ical feed",
				zap.String("event_id", ev.ID),
				zap.String("start_date", ev.StartDate),
				zap.Error(err))
		}
	}

	writeLine(&b, "END:VCALENDAR")
	return []byte(b.String()), skipped
}

// RenderEvent emits a single-event VCALENDAR document, used for per-event
// .ics downloads.
func (r *ICalRenderer) RenderEvent(ev Event, now time.Time) ([]byte, error) {
	var b strings.Builder
	r.writeHeader(&b)
	if err := r.writeEvent(&b, ev, now.UTC().Format(utcBasicLayout)); err != nil {
		return nil, err
	}
	writeLine(&b, "END:VCALENDAR")
	return []byte(b.String()), nil
}

func (r *ICalRenderer) writeHeader(b *strings.Builder) {
	writeLine(b, "BEGIN:VCALENDAR")
	writeLine(b, "VERSION:2.0")
	writeLine(b, "PRODID:"+r.opts.ProdID)
	writeLine(b, "CALSCALE:GREGORIAN")
	writeLine(b, "METHOD:PUBLISH")
	if r.opts.CalendarName != "" {
		writeLine(b, "X-WR-CALNAME:"+EscapeICalText(r.opts.CalendarName))
	}
	if r.opts.CalendarDesc != "" {
		writeLine(b, "X-WR-CALDESC:"+EscapeICalText(r.opts.CalendarDesc))
	}
	writeLine(b, "X-WR-TIMEZONE:"+r.conv.Zone())
}

func (r *ICalRenderer) writeEvent(b *strings.Builder, ev Event, stamp string) error {
	window, err := ResolveWindow(r.conv, ev, r.defaultDuration)
	if err != nil {
		return err
	}

	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, "UID:"+ev.ID+"@"+r.opts.UIDHost)
	writeLine(b, "DTSTAMP:"+stamp)
	if window.AllDay {
		// All-day spans stay in the reference zone so clients do not shift
		// the displayed date across the UTC boundary. The end is exclusive.
		writeLine(b, "DTSTART;TZID="+r.conv.Zone()+":"+window.Start.ReferenceBasic())
		writeLine(b, "DTEND;TZID="+r.conv.Zone()+":"+window.End.ReferenceBasic())
	} else {
		writeLine(b, "DTSTART:"+window.Start.UTCBasic())
		writeLine(b, "DTEND:"+window.End.UTCBasic())
	}
	writeLine(b, "SUMMARY:"+EscapeICalText(ev.Title))
	if ev.Description != "" {
		writeLine(b, "DESCRIPTION:"+EscapeICalText(ev.Description))
	}
	if ev.Location != "" {
		writeLine(b, "LOCATION:"+EscapeICalText(ev.Location))
	}
	if ev.URL != "" {
		writeLine(b, "URL:"+ev.URL)
	}
	writeLine(b, "END:VEVENT")
	return nil
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

var icalEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// EscapeICalText escapes free-text per the RFC 5545 TEXT value grammar:
// backslash, semicolon, comma, and literal newlines.
func EscapeICalText(s string) string {
	return icalEscaper.Replace(s)
}

// Filename derives an attachment filename from a feed or activity name,
// replacing every non-alphanumeric rune with an underscore.
func Filename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String() + ".ics"
}
