package models

import (
	"time"
)

// Regulation entity types, from coarsest to finest tariff position granularity.
const (
	EntityTypeLG                 = "LG"
	EntityTypeULG                = "ULG"
	EntityTypeGrundtext          = "Grundtext"
	EntityTypeUngeteiltePosition = "UngeteiltePosition"
	EntityTypeFolgeposition      = "Folgeposition"
)

// Regulation is a standardized tariff position. The hierarchical number fields
// compose the display code; FullNr is the concatenated form (e.g. "003901C").
type Regulation struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType     string    `gorm:"size:32;not null;index:idx_regulations_entity_type" json:"entity_type"`
	LgNr           *string   `gorm:"size:8" json:"lg_nr"`
	UlgNr          *string   `gorm:"size:8" json:"ulg_nr"`
	GrundtextNr    *string   `gorm:"size:8" json:"grundtext_nr"`
	PositionNr     *string   `gorm:"size:8" json:"position_nr"`
	FullNr         *string   `gorm:"size:16;index:idx_regulations_full_nr" json:"full_nr"`
	ShortText      *string   `gorm:"size:500" json:"short_text"`
	SearchableText string    `gorm:"type:text;not null" json:"searchable_text"`
	EntityJSON     JSON      `json:"entity_json"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides the table name for Regulation
func (Regulation) TableName() string {
	return "regulations"
}
