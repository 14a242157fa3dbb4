package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups elements for one user. Color is an optional #RRGGBB hex string.
type Category struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Name        string  `gorm:"size:100;not null;uniqueIndex:uk_categories_user_name" json:"name"`
	Description *string `gorm:"size:500" json:"description"`
	Color       string  `gorm:"size:7" json:"color"`
	UserID      string  `gorm:"size:36;not null;uniqueIndex:uk_categories_user_name" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ElementCount is computed by a separate count query, not atomic with the fetch.
	ElementCount int64 `gorm:"-" json:"element_count"`
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns a UUID primary key when none was supplied
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
