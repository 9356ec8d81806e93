package models

import "time"

// Announcement represents a persisted community announcement row.
// Announcements share the event review workflow states.
type Announcement struct {
	ID             string      `db:"id" json:"id"`
	Title          string      `db:"title" json:"title"`
	Message        string      `db:"message" json:"message"`
	Author         *string     `db:"author" json:"author,omitempty"`
	Email          *string     `db:"email" json:"email,omitempty"`
	Link           *string     `db:"link" json:"link,omitempty"`
	OrganizationID *string     `db:"organization_id" json:"organization_id,omitempty"`
	ShowAt         *time.Time  `db:"show_at" json:"show_at,omitempty"`
	ExpiresAt      *time.Time  `db:"expires_at" json:"expires_at,omitempty"`
	Status         EventStatus `db:"status" json:"status"`
	Comments       *string     `db:"comments" json:"comments,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// AnnouncementFilter narrows announcement listings.
type AnnouncementFilter struct {
	Status     *EventStatus
	ActiveOnly bool
	Page       int
	PageSize   int
}
