package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
)

// unsafeFilenameChars matches everything outside the characters we keep in a
// stored filename.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._\- ]`)

// FileInput carries the writable file metadata fields.
type FileInput struct {
	Filename  *string `json:"filename"`
	FileType  *string `json:"file_type"`
	MimeType  *string `json:"mime_type"`
	SizeBytes *int64  `json:"size_bytes"`
	BoqID     *string `json:"boq_id"`
}

// SanitizeFilename strips path components and unsafe characters from an
// uploaded filename.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.TrimSpace(filename))
	filename = unsafeFilenameChars.ReplaceAllString(filename, "_")
	if filename == "" || filename == "." || filename == ".." {
		return "unnamed"
	}
	return filename
}

// ClassifyFileType maps a filename extension to a supported file type.
func ClassifyFileType(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.FileTypePDF, nil
	case ".onlv":
		return models.FileTypeONLV, nil
	}
	return "", fmt.Errorf("%w: unsupported file extension on %q", ErrInvalidInput, filename)
}

// CreateFile records upload metadata under an existing project. The file type
// is derived from the filename when not supplied.
func CreateFile(db *gorm.DB, projectID, filename string, in FileInput) (*models.File, error) {
	filename = SanitizeFilename(filename)
	if filename == "unnamed" {
		return nil, fmt.Errorf("%w: filename cannot be empty", ErrInvalidInput)
	}

	exists, err := ProjectExists(db, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	fileType := ""
	if in.FileType != nil && *in.FileType != "" {
		fileType = *in.FileType
		if fileType != models.FileTypePDF && fileType != models.FileTypeONLV {
			return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, fileType)
		}
	} else {
		fileType, err = ClassifyFileType(filename)
		if err != nil {
			return nil, err
		}
	}

	if in.BoqID != nil && *in.BoqID != "" {
		ok, err := BoqExists(db, *in.BoqID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: boq %s", ErrNotFound, *in.BoqID)
		}
	}

	file := models.File{
		Filename:  filename,
		FileType:  fileType,
		ProjectID: &projectID,
		BoqID:     trimPtr(in.BoqID),
		Active:    true,
	}
	if in.MimeType != nil {
		file.MimeType = strings.TrimSpace(*in.MimeType)
	}
	if in.SizeBytes != nil {
		if *in.SizeBytes < 0 {
			return nil, fmt.Errorf("%w: size cannot be negative", ErrInvalidInput)
		}
		file.SizeBytes = *in.SizeBytes
	}

	if err := db.Create(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// GetFileByID retrieves one file record.
func GetFileByID(db *gorm.DB, id string) (*models.File, error) {
	var file models.File
	if err := db.Where("id = ?", id).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func activeScope(db *gorm.DB, includeInactive bool) *gorm.DB {
	if includeInactive {
		return db
	}
	return db.Where("active = ?", true)
}

// GetFilesByProject retrieves one page of a project's file records.
func GetFilesByProject(db *gorm.DB, projectID string, includeInactive bool, limit, offset int) ([]models.File, error) {
	var files []models.File
	err := activeScope(db.Where("project_id = ?", projectID), includeInactive).
		Limit(limit).Offset(offset).Find(&files).Error
	return files, err
}

// GetFilesByBoq retrieves one page of a BOQ's file records.
func GetFilesByBoq(db *gorm.DB, boqID string, includeInactive bool, limit, offset int) ([]models.File, error) {
	var files []models.File
	err := activeScope(db.Where("boq_id = ?", boqID), includeInactive).
		Limit(limit).Offset(offset).Find(&files).Error
	return files, err
}

// GetFilesByType retrieves one page of active files of one type.
func GetFilesByType(db *gorm.DB, fileType string, limit, offset int) ([]models.File, error) {
	var files []models.File
	err := db.Where("file_type = ? AND active = ?", fileType, true).
		Limit(limit).Offset(offset).Find(&files).Error
	return files, err
}

// GetAllFiles retrieves one page of file records.
func GetAllFiles(db *gorm.DB, includeInactive bool, limit, offset int) ([]models.File, error) {
	var files []models.File
	err := activeScope(db, includeInactive).Limit(limit).Offset(offset).Find(&files).Error
	return files, err
}

// SearchFilesByName searches active filenames case-insensitively, optionally
// scoped to one project.
func SearchFilesByName(db *gorm.DB, term, projectID string, limit, offset int) ([]models.File, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", ErrInvalidInput)
	}
	q := db.Where("LOWER(filename) LIKE ? AND active = ?", "%"+strings.ToLower(term)+"%", true)
	if projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	var files []models.File
	err := q.Limit(limit).Offset(offset).Find(&files).Error
	return files, err
}

// UpdateFile applies a partial metadata update and returns the fresh row.
func UpdateFile(db *gorm.DB, id string, in FileInput) (*models.File, error) {
	update := map[string]interface{}{}

	if in.Filename != nil {
		filename := SanitizeFilename(*in.Filename)
		if filename == "unnamed" {
			return nil, fmt.Errorf("%w: filename cannot be empty", ErrInvalidInput)
		}
		update["filename"] = filename
	}
	if in.FileType != nil {
		if *in.FileType != models.FileTypePDF && *in.FileType != models.FileTypeONLV {
			return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, *in.FileType)
		}
		update["file_type"] = *in.FileType
	}
	if in.MimeType != nil {
		update["mime_type"] = strings.TrimSpace(*in.MimeType)
	}
	if in.SizeBytes != nil {
		if *in.SizeBytes < 0 {
			return nil, fmt.Errorf("%w: size cannot be negative", ErrInvalidInput)
		}
		update["size_bytes"] = *in.SizeBytes
	}
	if in.BoqID != nil {
		update["boq_id"] = trimPtr(in.BoqID)
	}

	if len(update) == 0 {
		return nil, fmt.Errorf("%w: no update data provided", ErrInvalidInput)
	}

	res := db.Model(&models.File{}).Where("id = ?", id).Updates(update)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetFileByID(db, id)
}

func setFileActive(db *gorm.DB, id string, active bool) error {
	res := db.Model(&models.File{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateFile soft-deletes a file record.
func DeactivateFile(db *gorm.DB, id string) error {
	return setFileActive(db, id, false)
}

// ReactivateFile restores a soft-deleted file record.
func ReactivateFile(db *gorm.DB, id string) error {
	return setFileActive(db, id, true)
}

// BulkDeactivateFiles soft-deletes many file records. Each id succeeds or
// fails on its own.
func BulkDeactivateFiles(db *gorm.DB, ids []string) (int64, []string) {
	var deactivated int64
	var errs []string
	for _, id := range ids {
		if err := DeactivateFile(db, id); err != nil {
			errs = append(errs, fmt.Sprintf("file %s: %v", id, err))
			continue
		}
		deactivated++
	}
	return deactivated, errs
}

// DeleteFile hard-deletes a file record.
func DeleteFile(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.File{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFilesByProject hard-deletes all of a project's file records.
func DeleteFilesByProject(db *gorm.DB, projectID string) (int64, error) {
	res := db.Where("project_id = ?", projectID).Delete(&models.File{})
	return res.RowsAffected, res.Error
}

// FileExists reports whether a file id exists.
func FileExists(db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.Model(&models.File{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// CountFiles returns the file count, active-only unless includeInactive.
func CountFiles(db *gorm.DB, includeInactive bool) (int64, error) {
	var n int64
	err := activeScope(db.Model(&models.File{}), includeInactive).Count(&n).Error
	return n, err
}

// CountFilesByProject returns a project's active file count.
func CountFilesByProject(db *gorm.DB, projectID string) (int64, error) {
	var n int64
	err := db.Model(&models.File{}).
		Where("project_id = ? AND active = ?", projectID, true).
		Count(&n).Error
	return n, err
}

// CountFilesByType returns the active file count of one type.
func CountFilesByType(db *gorm.DB, fileType string) (int64, error) {
	var n int64
	err := db.Model(&models.File{}).
		Where("file_type = ? AND active = ?", fileType, true).
		Count(&n).Error
	return n, err
}

// UniqueFileTypes returns the distinct file types among active records.
func UniqueFileTypes(db *gorm.DB) ([]string, error) {
	var types []string
	err := db.Model(&models.File{}).
		Where("active = ?", true).
		Distinct().
		Pluck("file_type", &types).Error
	return types, err
}

// FileStatistics summarizes file records, optionally scoped to a project.
type FileStatistics struct {
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	Inactive   int64            `json:"inactive"`
	TotalBytes int64            `json:"total_bytes"`
	ByType     map[string]int64 `json:"by_type"`
}

// GetFileStatistics aggregates counts and sizes over active file records.
func GetFileStatistics(db *gorm.DB, projectID string) (*FileStatistics, error) {
	scope := func() *gorm.DB {
		q := db.Model(&models.File{})
		if projectID != "" {
			q = q.Where("project_id = ?", projectID)
		}
		return q
	}

	stats := &FileStatistics{ByType: map[string]int64{}}

	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active

	var totalBytes *int64
	if err := scope().Where("active = ?", true).
		Select("SUM(size_bytes)").Scan(&totalBytes).Error; err != nil {
		return nil, err
	}
	if totalBytes != nil {
		stats.TotalBytes = *totalBytes
	}

	type row struct {
		FileType string
		N        int64
	}
	var rows []row
	if err := scope().Where("active = ?", true).
		Select("file_type, COUNT(*) AS n").
		Group("file_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.ByType[r.FileType] = r.N
	}
	return stats, nil
}
