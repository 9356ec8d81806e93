package feed

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleLink(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.Description = "Fresh produce weekly"
	ev.Location = "Front Street Park"

	link, err := GoogleLink(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Farmers Market", q.Get("text"))
	assert.Equal(t, "20250907T020000Z/20250907T030000Z", q.Get("dates"))
	assert.Equal(t, "America/Los_Angeles", q.Get("ctz"))
	assert.Equal(t, "Fresh produce weekly", q.Get("details"))
	assert.Equal(t, "Front Street Park", q.Get("location"))
}

func TestGoogleLinkOmitsEmptyParams(t *testing.T) {
	conv := newConv(t)

	link, err := GoogleLink(conv, timedEvent(), time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.False(t, q.Has("details"))
	assert.False(t, q.Has("location"))
}

func TestOutlookLink(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.Location = "Front Street Park"

	link, err := OutlookLink(conv, ev, time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://outlook.live.com/calendar/0/deeplink/compose?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "Farmers Market", q.Get("subject"))
	assert.Equal(t, "2025-09-07T02:00:00Z", q.Get("startdt"))
	assert.Equal(t, "2025-09-07T03:00:00Z", q.Get("enddt"))
	assert.Equal(t, "Front Street Park", q.Get("location"))
	assert.False(t, q.Has("body"))
}

func TestLinksInvalidDate(t *testing.T) {
	conv := newConv(t)
	ev := timedEvent()
	ev.StartDate = "not-a-date"

	_, err := GoogleLink(conv, ev, time.Hour)
	assert.Error(t, err)
	_, err = OutlookLink(conv, ev, time.Hour)
	assert.Error(t, err)
}
