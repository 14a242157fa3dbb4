package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supported file kinds. Anything else is rejected at upload time.
const (
	FileTypePDF  = "pdf"
	FileTypeONLV = "onlv"
)

// File holds upload metadata only. The bytes live in external storage; this
// service never interprets them.
type File struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	Filename  string  `gorm:"size:255;not null;index:idx_files_filename" json:"filename"`
	FileType  string  `gorm:"size:16;not null;index:idx_files_type" json:"file_type"`
	MimeType  string  `gorm:"size:128" json:"mime_type"`
	SizeBytes int64   `gorm:"not null;default:0" json:"size_bytes"`
	ProjectID *string `gorm:"size:36;index:idx_files_project" json:"project_id"`
	BoqID     *string `gorm:"size:36;index:idx_files_boq" json:"boq_id"`
	Active    bool    `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for File
func (File) TableName() string {
	return "files"
}

// BeforeCreate assigns a UUID primary key when none was supplied
func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
