package models

import "gorm.io/gorm"

// Category is a reference entity used to populate the category filter
// option list. Products reference categories by name, not by ID.
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(255)" validate:"required,max=255"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Location is a reference entity used to populate the location filter
// option list, mirroring Category.
type Location struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(255)" validate:"required,max=255"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
