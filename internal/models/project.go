package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is the external aggregate a BOQ belongs to. The ONLV utilities read
// its Nr, Name, LvBezeichnung, Auftraggeber and Dateiname fields when
// populating the empty template.
type Project struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	Nr            *string `gorm:"size:64" json:"nr"`
	Name          string  `gorm:"size:255;not null" json:"name"`
	Description   *string `gorm:"size:1000" json:"description"`
	LvBezeichnung *string `gorm:"size:255" json:"lv_bezeichnung"`
	Auftraggeber  *string `gorm:"size:255" json:"auftraggeber"`
	Dateiname     *string `gorm:"size:255" json:"dateiname"`
	Status        string  `gorm:"size:32;not null;default:'active';index:idx_projects_status" json:"status"`
	UserID        string  `gorm:"size:36;not null;index:idx_projects_user" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns a UUID primary key when none was supplied
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
