package models

import "time"

// Organization represents a group that hosts events or announcements.
type Organization struct {
	ID                   string      `db:"id" json:"id"`
	Name                 string      `db:"name" json:"name"`
	Description          *string     `db:"description" json:"description,omitempty"`
	Website              *string     `db:"website" json:"website,omitempty"`
	Email                *string     `db:"email" json:"email,omitempty"`
	Phone                *string     `db:"phone" json:"phone,omitempty"`
	LocationID           *string     `db:"location_id" json:"location_id,omitempty"`
	ParentOrganizationID *string     `db:"parent_organization_id" json:"parent_organization_id,omitempty"`
	Status               EventStatus `db:"status" json:"status"`
	CreatedAt            time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at" json:"updated_at"`
}
