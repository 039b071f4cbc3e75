package models

import "time"

// Category is a named grouping referenced by objects. It is managed by a
// separate admin surface; this service only needs lookups and the name join.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
