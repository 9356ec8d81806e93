package models

import (
	"time"

	"github.com/lib/pq"
)

// Activity represents a recurring community program (a class, league,
// or drop-in session) whose calendar is generated from its recurrence
// pattern rather than stored as individual events.
type Activity struct {
	ID                  string      `db:"id" json:"id"`
	Name                string      `db:"name" json:"name"`
	Description         *string     `db:"description" json:"description,omitempty"`
	LocationID          *string     `db:"location_id" json:"location_id,omitempty"`
	LocationDetails     *string     `db:"location_details" json:"location_details,omitempty"`
	Website             *string     `db:"website" json:"website,omitempty"`
	RecurrencePatternID *string     `db:"recurrence_pattern_id" json:"recurrence_pattern_id,omitempty"`
	SeasonStart         *string     `db:"season_start" json:"season_start,omitempty"`
	SeasonEnd           *string     `db:"season_end" json:"season_end,omitempty"`
	IgnoreExceptions    bool        `db:"ignore_exceptions" json:"ignore_exceptions"`
	Color               *string     `db:"color" json:"color,omitempty"`
	Status              EventStatus `db:"status" json:"status"`
	CreatedAt           time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at" json:"updated_at"`
}

// ActivityDetail carries an activity with joined display metadata.
type ActivityDetail struct {
	Activity
	LocationName *string `db:"location_name" json:"location_name,omitempty"`
}

// RecurrencePattern represents a weekly recurrence rule row. Weekdays
// hold two-letter codes (SU..SA); times are HH:MM:SS wall clock in the
// reference zone.
type RecurrencePattern struct {
	PatternID string         `db:"pattern_id" json:"pattern_id"`
	Weekdays  pq.StringArray `db:"weekdays" json:"weekdays"`
	StartTime string         `db:"start_time" json:"start_time"`
	EndTime   string         `db:"end_time" json:"end_time"`
	Interval  int            `db:"interval" json:"interval"`
	Until     *string        `db:"until" json:"until,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// CalendarException represents a closure or schedule change. A nil
// ActivityID applies facility-wide; a nil StartTime or EndTime cancels
// the whole day instead of a time window.
type CalendarException struct {
	ExceptionID string    `db:"exception_id" json:"exception_id"`
	ActivityID  *string   `db:"activity_id" json:"activity_id,omitempty"`
	Name        string    `db:"name" json:"name"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	StartDate   string    `db:"start_date" json:"start_date"`
	EndDate     string    `db:"end_date" json:"end_date"`
	StartTime   *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime     *string   `db:"end_time" json:"end_time,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
