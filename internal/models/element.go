package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Element represents a construction element (material or component) owned by a user.
// An element may optionally belong to a category and may be linked to any number
// of regulations through ElementRegulation join rows.
type Element struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Name        string  `gorm:"size:255;not null;index:idx_elements_name" json:"name"`
	Type        string  `gorm:"size:255;not null;index:idx_elements_type" json:"type"`
	Description *string `gorm:"size:1000" json:"description"`
	UserID      string  `gorm:"size:36;not null;index:idx_elements_user" json:"user_id"`
	CategoryID  *string `gorm:"size:36;index:idx_elements_category" json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// RegulationCount is computed per response, never persisted.
	RegulationCount int64 `gorm:"-" json:"regulation_count"`
}

// TableName overrides the table name for Element
func (Element) TableName() string {
	return "element_list"
}

// BeforeCreate assigns a UUID primary key when none was supplied
func (e *Element) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
