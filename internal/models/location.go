package models

import "time"

// Location represents a venue where events take place.
type Location struct {
	ID               string      `db:"id" json:"id"`
	Name             string      `db:"name" json:"name"`
	Address          *string     `db:"address" json:"address,omitempty"`
	Latitude         *float64    `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64    `db:"longitude" json:"longitude,omitempty"`
	Phone            *string     `db:"phone" json:"phone,omitempty"`
	Website          *string     `db:"website" json:"website,omitempty"`
	ParentLocationID *string     `db:"parent_location_id" json:"parent_location_id,omitempty"`
	Status           EventStatus `db:"status" json:"status"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}
