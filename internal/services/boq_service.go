package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
)

// BoqInput carries the writable BOQ fields for create and update.
type BoqInput struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	LvCode           *string `json:"lv_code"`
	LvBezeichnung    *string `json:"lv_bezeichnung"`
	OriginalFilename *string `json:"original_filename"`
}

// CreateBoq inserts a bill of quantities under an existing project.
func CreateBoq(db *gorm.DB, projectID, name string, in BoqInput) (*models.Boq, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: boq name cannot be empty", ErrInvalidInput)
	}

	exists, err := ProjectExists(db, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	boq := models.Boq{
		Name:             name,
		ProjectID:        projectID,
		Description:      trimPtr(in.Description),
		LvCode:           trimPtr(in.LvCode),
		LvBezeichnung:    trimPtr(in.LvBezeichnung),
		OriginalFilename: trimPtr(in.OriginalFilename),
	}
	if err := db.Create(&boq).Error; err != nil {
		return nil, err
	}
	return &boq, nil
}

// GetBoqByID retrieves one BOQ.
func GetBoqByID(db *gorm.DB, id string) (*models.Boq, error) {
	var boq models.Boq
	if err := db.Where("id = ?", id).First(&boq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &boq, nil
}

// GetBoqsByProject retrieves one page of a project's BOQs.
func GetBoqsByProject(db *gorm.DB, projectID string, limit, offset int) ([]models.Boq, error) {
	var boqs []models.Boq
	err := db.Where("project_id = ?", projectID).Limit(limit).Offset(offset).Find(&boqs).Error
	return boqs, err
}

// GetAllBoqs retrieves one page of BOQs.
func GetAllBoqs(db *gorm.DB, limit, offset int) ([]models.Boq, error) {
	var boqs []models.Boq
	err := db.Limit(limit).Offset(offset).Find(&boqs).Error
	return boqs, err
}

// SearchBoqsByName searches BOQ names case-insensitively, optionally scoped
// to one project.
func SearchBoqsByName(db *gorm.DB, term, projectID string, limit, offset int) ([]models.Boq, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", ErrInvalidInput)
	}
	q := db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	if projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	var boqs []models.Boq
	err := q.Limit(limit).Offset(offset).Find(&boqs).Error
	return boqs, err
}

// UpdateBoq applies a partial update and returns the fresh row.
func UpdateBoq(db *gorm.DB, id string, in BoqInput) (*models.Boq, error) {
	update := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: boq name cannot be empty", ErrInvalidInput)
		}
		update["name"] = name
	}
	if in.Description != nil {
		update["description"] = trimPtr(in.Description)
	}
	if in.LvCode != nil {
		update["lv_code"] = trimPtr(in.LvCode)
	}
	if in.LvBezeichnung != nil {
		update["lv_bezeichnung"] = trimPtr(in.LvBezeichnung)
	}
	if in.OriginalFilename != nil {
		update["original_filename"] = trimPtr(in.OriginalFilename)
	}

	if len(update) == 0 {
		return nil, fmt.Errorf("%w: no update data provided", ErrInvalidInput)
	}

	res := db.Model(&models.Boq{}).Where("id = ?", id).Updates(update)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetBoqByID(db, id)
}

// DeleteBoq removes a BOQ and detaches its file records.
func DeleteBoq(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.File{}).
			Where("boq_id = ?", id).
			Update("boq_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Boq{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteBoqsByProject removes all of a project's BOQs, returning how many
// were deleted.
func DeleteBoqsByProject(db *gorm.DB, projectID string) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Boq{}).
			Where("project_id = ?", projectID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&models.File{}).
			Where("boq_id IN ?", ids).
			Update("boq_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Boq{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// BoqExists reports whether a BOQ id exists.
func BoqExists(db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.Model(&models.Boq{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// CountBoqs returns the total BOQ count.
func CountBoqs(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Boq{}).Count(&n).Error
	return n, err
}

// CountBoqsByProject returns a project's BOQ count.
func CountBoqsByProject(db *gorm.DB, projectID string) (int64, error) {
	var n int64
	err := db.Model(&models.Boq{}).Where("project_id = ?", projectID).Count(&n).Error
	return n, err
}

// AttachFileCounts fills FileCount on the given BOQs with a single grouped
// query over active file records.
func AttachFileCounts(db *gorm.DB, boqs []models.Boq) error {
	if len(boqs) == 0 {
		return nil
	}

	ids := make([]string, len(boqs))
	for i := range boqs {
		ids[i] = boqs[i].ID
	}

	type row struct {
		BoqID string
		N     int64
	}
	var rows []row
	err := db.Model(&models.File{}).
		Select("boq_id, COUNT(*) AS n").
		Where("boq_id IN ? AND active = ?", ids, true).
		Group("boq_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.BoqID] = r.N
	}
	for i := range boqs {
		boqs[i].FileCount = counts[boqs[i].ID]
	}
	return nil
}
