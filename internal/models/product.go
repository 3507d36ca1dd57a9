package models

import "gorm.io/gorm"

// Product represents a single catalog listing.
// Category and Location hold free-text labels matched by value, not
// foreign keys — the reference tables exist only to feed filter UI
// option lists.
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1,max=2000"`
	Price       float64  `json:"price" validate:"gte=0,lte=1000000"`
	Category    string   `json:"category" validate:"required,min=1,max=100"`
	Location    string   `json:"location" validate:"required,min=1,max=100"`
	Images      []string `json:"images" gorm:"serializer:json" validate:"required,min=1,max=10,dive,url"`
	Slug        string   `json:"slug" gorm:"uniqueIndex;type:varchar(255)" validate:"required,max=255"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
