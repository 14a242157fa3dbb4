package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ElementRegulation is the join row between an element and a regulation.
// Rows are addressable both by their own ID and by the (element, regulation)
// composite key; the composite form is the dominant delete path.
type ElementRegulation struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ElementID    string    `gorm:"size:36;not null;uniqueIndex:uk_element_regulation" json:"element_id"`
	RegulationID int64     `gorm:"not null;uniqueIndex:uk_element_regulation" json:"regulation_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the table name for ElementRegulation
func (ElementRegulation) TableName() string {
	return "element_regulations"
}

// BeforeCreate assigns a UUID primary key when none was supplied
func (l *ElementRegulation) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
