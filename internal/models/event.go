package models

import "time"

// EventStatus tracks an event through the review workflow.
type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusArchived EventStatus = "archived"
)

// Event represents a persisted community event row. Calendar dates and
// times are carried as strings (YYYY-MM-DD, HH:MM:SS) so the reference
// timezone is applied exactly once, at export time.
type Event struct {
	ID                  string      `db:"id" json:"id"`
	Title               string      `db:"title" json:"title"`
	Description         *string     `db:"description" json:"description,omitempty"`
	StartDate           string      `db:"start_date" json:"start_date"`
	EndDate             *string     `db:"end_date" json:"end_date,omitempty"`
	StartTime           *string     `db:"start_time" json:"start_time,omitempty"`
	EndTime             *string     `db:"end_time" json:"end_time,omitempty"`
	LocationID          *string     `db:"location_id" json:"location_id,omitempty"`
	OrganizationID      *string     `db:"organization_id" json:"organization_id,omitempty"`
	PrimaryTagID        *string     `db:"primary_tag_id" json:"primary_tag_id,omitempty"`
	SecondaryTagID      *string     `db:"secondary_tag_id" json:"secondary_tag_id,omitempty"`
	Website             *string     `db:"website" json:"website,omitempty"`
	Cost                *string     `db:"cost" json:"cost,omitempty"`
	Email               *string     `db:"email" json:"email,omitempty"`
	Registration        bool        `db:"registration" json:"registration"`
	RegistrationLink    *string     `db:"registration_link" json:"registration_link,omitempty"`
	Featured            bool        `db:"featured" json:"featured"`
	ExcludeFromCalendar bool        `db:"exclude_from_calendar" json:"exclude_from_calendar"`
	Status              EventStatus `db:"status" json:"status"`
	Comments            *string     `db:"comments" json:"comments,omitempty"`
	CreatedAt           time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at" json:"updated_at"`
}

// EventDetail carries an event with its joined display metadata.
type EventDetail struct {
	Event
	LocationName     *string `db:"location_name" json:"location_name,omitempty"`
	OrganizationName *string `db:"organization_name" json:"organization_name,omitempty"`
	PrimaryTagName   *string `db:"primary_tag_name" json:"primary_tag_name,omitempty"`
	SecondaryTagName *string `db:"secondary_tag_name" json:"secondary_tag_name,omitempty"`
}

// EventFilter captures the allowed search parameters for listing events.
type EventFilter struct {
	Status         *EventStatus
	TagID          string
	OrganizationID string
	LocationID     string
	Search         string
	Featured       *bool
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
