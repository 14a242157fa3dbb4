package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ElementInput carries the writable element fields. Pointer fields are
// "absent when nil" for partial updates.
type ElementInput struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
}

// CreateElement inserts a new element after trimming and validating the
// required fields.
func CreateElement(db *gorm.DB, name, elementType, userID string, description, categoryID *string) (*models.Element, error) {
	name = strings.TrimSpace(name)
	elementType = strings.TrimSpace(elementType)
	userID = strings.TrimSpace(userID)

	if name == "" {
		return nil, fmt.Errorf("%w: element name cannot be empty", ErrInvalidInput)
	}
	if elementType == "" {
		return nil, fmt.Errorf("%w: element type cannot be empty", ErrInvalidInput)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id cannot be empty", ErrInvalidInput)
	}

	element := models.Element{
		Name:        name,
		Type:        elementType,
		UserID:      userID,
		Description: trimPtr(description),
		CategoryID:  categoryID,
	}
	if err := db.Create(&element).Error; err != nil {
		return nil, err
	}
	return &element, nil
}

// GetElementByID retrieves a single element.
func GetElementByID(db *gorm.DB, id string) (*models.Element, error) {
	var element models.Element
	if err := db.Where("id = ?", id).First(&element).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &element, nil
}

// elementQuery applies the user index hint on MySQL, where the optimizer has
// been observed to skip idx_elements_user under load.
func elementQuery(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Element{})
	if db.Dialector.Name() == "mysql" {
		q = q.Clauses(hints.UseIndex("idx_elements_user"))
	}
	return q
}

// GetElementsByUser retrieves one page of a user's elements.
func GetElementsByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Element, error) {
	var elements []models.Element
	err := elementQuery(db).
		Where("user_id = ?", userID).
		Limit(limit).Offset(offset).
		Find(&elements).Error
	return elements, err
}

// GetElementsByType retrieves one page of elements of a given type.
func GetElementsByType(db *gorm.DB, elementType string, limit, offset int) ([]models.Element, error) {
	var elements []models.Element
	err := db.Where("type = ?", elementType).
		Limit(limit).Offset(offset).
		Find(&elements).Error
	return elements, err
}

// GetElementsByUserAndType retrieves one page of a user's elements of a given type.
func GetElementsByUserAndType(db *gorm.DB, userID, elementType string, limit, offset int) ([]models.Element, error) {
	var elements []models.Element
	err := db.Where("user_id = ? AND type = ?", userID, elementType).
		Limit(limit).Offset(offset).
		Find(&elements).Error
	return elements, err
}

// GetElementsByCategory retrieves one page of a category's elements.
func GetElementsByCategory(db *gorm.DB, categoryID string, limit, offset int) ([]models.Element, error) {
	var elements []models.Element
	err := db.Where("category_id = ?", categoryID).
		Limit(limit).Offset(offset).
		Find(&elements).Error
	return elements, err
}

// SearchElementsByName searches element names case-insensitively, optionally
// scoped to one user.
func SearchElementsByName(db *gorm.DB, term string, userID *string, limit, offset int) ([]models.Element, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", ErrInvalidInput)
	}

	query := db.Model(&models.Element{})
	if userID != nil && *userID != "" {
		query = query.Where("user_id = ?", *userID)
	}

	var elements []models.Element
	err := query.
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%").
		Limit(limit).Offset(offset).
		Find(&elements).Error
	return elements, err
}

// GetAllElements retrieves one page of elements.
func GetAllElements(db *gorm.DB, limit, offset int) ([]models.Element, error) {
	var elements []models.Element
	err := db.Limit(limit).Offset(offset).Find(&elements).Error
	return elements, err
}

// AttachRegulationCounts fills RegulationCount on the given elements with a
// single grouped query over the join table. An element with no links keeps 0.
func AttachRegulationCounts(db *gorm.DB, elements []models.Element) error {
	if len(elements) == 0 {
		return nil
	}

	ids := make([]string, len(elements))
	for i := range elements {
		ids[i] = elements[i].ID
	}

	type row struct {
		ElementID string
		N         int64
	}
	var rows []row
	err := db.Model(&models.ElementRegulation{}).
		Select("element_id, COUNT(*) AS n").
		Where("element_id IN ?", ids).
		Group("element_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ElementID] = r.N
	}
	for i := range elements {
		elements[i].RegulationCount = counts[elements[i].ID]
	}
	return nil
}

// UpdateElement applies a partial update. Name and Type must stay non-empty
// when provided; Description and CategoryID may be cleared with empty values.
func UpdateElement(db *gorm.DB, id string, in ElementInput) (*models.Element, error) {
	update := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: element name cannot be empty", ErrInvalidInput)
		}
		update["name"] = name
	}
	if in.Type != nil {
		elementType := strings.TrimSpace(*in.Type)
		if elementType == "" {
			return nil, fmt.Errorf("%w: element type cannot be empty", ErrInvalidInput)
		}
		update["type"] = elementType
	}
	if in.Description != nil {
		update["description"] = trimPtr(in.Description)
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			update["category_id"] = nil
		} else {
			update["category_id"] = *in.CategoryID
		}
	}

	if len(update) == 0 {
		return nil, fmt.Errorf("%w: no update data provided", ErrInvalidInput)
	}

	res := db.Model(&models.Element{}).Where("id = ?", id).Updates(update)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetElementByID(db, id)
}

// DeleteElement removes an element and all of its regulation links.
func DeleteElement(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("element_id = ?", id).Delete(&models.ElementRegulation{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Element{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteElementsByUser removes all of a user's elements and their links,
// returning the number of deleted elements.
func DeleteElementsByUser(db *gorm.DB, userID string) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Element{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("element_id IN ?", ids).Delete(&models.ElementRegulation{}).Error; err != nil {
			return err
		}
		res := tx.Where("user_id = ?", userID).Delete(&models.Element{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// CountElements returns the total element count.
func CountElements(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Element{}).Count(&n).Error
	return n, err
}

// CountElementsByUser returns the element count for one user.
func CountElementsByUser(db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.Model(&models.Element{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// CountElementsByType returns the element count for one type.
func CountElementsByType(db *gorm.DB, elementType string) (int64, error) {
	var n int64
	err := db.Model(&models.Element{}).Where("type = ?", elementType).Count(&n).Error
	return n, err
}

// UniqueElementTypes returns the distinct element types.
func UniqueElementTypes(db *gorm.DB) ([]string, error) {
	var elementTypes []string
	err := db.Model(&models.Element{}).Distinct("type").Order("type").Pluck("type", &elementTypes).Error
	return elementTypes, err
}

// ElementExists reports whether an element with the given id exists.
func ElementExists(db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.Model(&models.Element{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// trimPtr trims a string pointer, mapping empty results to nil.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
