package models

import (
	"time"

	"gorm.io/datatypes"
)

// Object is a catalogued tourism place: scalar fields, a category reference
// and an ordered list of uploaded image paths.
//
// Images is stored as a JSON column so every create/update is a single-row,
// single-statement write; readers never observe a half-written image list.
type Object struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Location    string                      `gorm:"size:255;not null" json:"location"`
	CategoryID  uint                        `gorm:"not null;index" json:"category_id"`
	Images      datatypes.JSONSlice[string] `json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ObjectView is the read shape: an Object row augmented with the category
// name resolved at read time. CategoryName is nil when the referenced
// category no longer exists (left join semantics).
type ObjectView struct {
	ID           uint                        `json:"id"`
	Name         string                      `json:"name"`
	Description  string                      `json:"description"`
	Location     string                      `json:"location"`
	CategoryID   uint                        `json:"category_id"`
	CategoryName *string                     `json:"category_name"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	ImageURL     string                      `json:"image_url"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
