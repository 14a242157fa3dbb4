package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
)

// colorPattern is the accepted category color format: # plus six uppercase hex digits.
var colorPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// CategoryInput carries the writable category fields for partial updates.
type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// ValidateCategoryColor accepts an empty color ("no color") or a #RRGGBB hex value.
func ValidateCategoryColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorPattern.MatchString(color) {
		return fmt.Errorf("%w: color must match #RRGGBB with uppercase hex digits", ErrInvalidInput)
	}
	return nil
}

// CreateCategory inserts a new category. Names are unique per user.
func CreateCategory(db *gorm.DB, name, userID string, description *string, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrInvalidInput)
	}
	if err := ValidateCategoryColor(color); err != nil {
		return nil, err
	}

	exists, err := CategoryNameExists(db, userID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: category name %q", ErrDuplicate, name)
	}

	category := models.Category{
		Name:        name,
		UserID:      userID,
		Description: trimPtr(description),
		Color:       color,
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryByID retrieves a single category.
func GetCategoryByID(db *gorm.DB, id string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by exact name.
func GetCategoryByName(db *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetCategoriesByUser retrieves one page of a user's categories.
func GetCategoriesByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Category, error) {
	var categories []models.Category
	err := db.Where("user_id = ?", userID).
		Limit(limit).Offset(offset).
		Find(&categories).Error
	return categories, err
}

// GetAllCategories retrieves one page of categories.
func GetAllCategories(db *gorm.DB, limit, offset int) ([]models.Category, error) {
	var categories []models.Category
	err := db.Limit(limit).Offset(offset).Find(&categories).Error
	return categories, err
}

// AttachElementCounts fills ElementCount on the given categories with a single
// grouped query. A category with no elements keeps 0.
func AttachElementCounts(db *gorm.DB, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	ids := make([]string, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}

	type row struct {
		CategoryID string
		N          int64
	}
	var rows []row
	err := db.Model(&models.Element{}).
		Select("category_id, COUNT(*) AS n").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.N
	}
	for i := range categories {
		categories[i].ElementCount = counts[categories[i].ID]
	}
	return nil
}

// UpdateCategory applies a partial update. Name stays non-empty when provided;
// color is validated when provided.
func UpdateCategory(db *gorm.DB, id string, in CategoryInput) (*models.Category, error) {
	update := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty", ErrInvalidInput)
		}
		update["name"] = name
	}
	if in.Description != nil {
		update["description"] = trimPtr(in.Description)
	}
	if in.Color != nil {
		color := strings.TrimSpace(*in.Color)
		if err := ValidateCategoryColor(color); err != nil {
			return nil, err
		}
		update["color"] = color
	}

	if len(update) == 0 {
		return nil, fmt.Errorf("%w: no update data provided", ErrInvalidInput)
	}

	res := db.Model(&models.Category{}).Where("id = ?", id).Updates(update)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetCategoryByID(db, id)
}

// DeleteCategory removes a category and unassigns its elements.
func DeleteCategory(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Element{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CategoryNameExists reports whether the user already has a category with the name.
func CategoryNameExists(db *gorm.DB, userID, name string) (bool, error) {
	var n int64
	err := db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, strings.TrimSpace(name)).
		Count(&n).Error
	return n > 0, err
}

// CountCategories returns the total category count.
func CountCategories(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Category{}).Count(&n).Error
	return n, err
}

// CountCategoriesByUser returns the category count for one user.
func CountCategoriesByUser(db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// CountElementsByCategory returns the element count for one category.
func CountElementsByCategory(db *gorm.DB, categoryID string) (int64, error) {
	var n int64
	err := db.Model(&models.Element{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}
