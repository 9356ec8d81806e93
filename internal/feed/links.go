package feed

import (
	"net/url"
	"time"

	"github.com/dertown/dertown-api/internal/timezone"
)

const (
	googleBaseURL  = "https://calendar.google.com/calendar/render"
	outlookBaseURL = "https://outlook.live.com/calendar/0/deeplink/compose"
)

// GoogleLink builds the event-creation deep link Google Calendar expects:
// UTC basic start/end in the dates parameter plus the reference zone as ctz
// so Google displays the event at the original wall-clock time.
func GoogleLink(conv *timezone.Converter, ev Event, defaultDuration time.Duration) (string, error) {
	window, err := ResolveWindow(conv, ev, defaultDuration)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", ev.Title)
	params.Set("dates", window.Start.UTCBasic()+"/"+window.End.UTCBasic())
	params.Set("ctz", conv.Zone())
	if ev.Description != "" {
		params.Set("details", ev.Description)
	}
	if ev.Location != "" {
		params.Set("location", ev.Location)
	}
	return googleBaseURL + "?" + params.Encode(), nil
}

// OutlookLink builds the compose deep link Outlook expects, with extended
// UTC start/end timestamps.
func OutlookLink(conv *timezone.Converter, ev Event, defaultDuration time.Duration) (string, error) {
	window, err := ResolveWindow(conv, ev, defaultDuration)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("subject", ev.Title)
	params.Set("startdt", window.Start.UTCExtended())
	params.Set("enddt", window.End.UTCExtended())
	if ev.Description != "" {
		params.Set("body", ev.Description)
	}
	if ev.Location != "" {
		params.Set("location", ev.Location)
	}
	return outlookBaseURL + "?" + params.Encode(), nil
}
