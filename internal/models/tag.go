package models

import "time"

// Tag categorizes events for filtering and calendar grouping.
type Tag struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	CalendarID *string   `db:"calendar_id" json:"calendar_id,omitempty"`
	ShareID    *string   `db:"share_id" json:"share_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
