package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Boq is a bill of quantities under a project. LvCode and LvBezeichnung take
// priority over the owning project's values when populating an ONLV template.
type Boq struct {
	ID               string  `gorm:"primaryKey;size:36" json:"id"`
	Name             string  `gorm:"size:255;not null;index:idx_boqs_name" json:"name"`
	Description      *string `gorm:"size:1000" json:"description"`
	LvCode           *string `gorm:"size:64" json:"lv_code"`
	LvBezeichnung    *string `gorm:"size:255" json:"lv_bezeichnung"`
	OriginalFilename *string `gorm:"size:255" json:"original_filename"`
	ProjectID        string  `gorm:"size:36;not null;index:idx_boqs_project" json:"project_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// FileCount is computed per response when requested.
	FileCount int64 `gorm:"-" json:"file_count,omitempty"`
}

// TableName overrides the table name for Boq
func (Boq) TableName() string {
	return "boqs"
}

// BeforeCreate assigns a UUID primary key when none was supplied
func (b *Boq) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
