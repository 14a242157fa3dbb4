package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
)

// LinkedRegulation is a link row joined with its regulation.
type LinkedRegulation struct {
	Link       models.ElementRegulation `json:"link"`
	Regulation models.Regulation        `json:"regulation"`
}

// LinkedElement is a link row joined with its element.
type LinkedElement struct {
	Link    models.ElementRegulation `json:"link"`
	Element models.Element           `json:"element"`
}

// LinkCount pairs an id with how many links reference it.
type LinkCount struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// BulkLinkResult reports the outcome of a multi-link create.
type BulkLinkResult struct {
	Created        []models.ElementRegulation `json:"created"`
	CreatedCount   int                        `json:"created_count"`
	RequestedCount int                        `json:"requested_count"`
	Errors         []string                   `json:"errors,omitempty"`
}

// ElementWithLinksResult reports the outcome of the two-phase
// create-element-with-regulations operation. The element always exists when
// Element is non-nil; LinkWarning is set when linking failed after the
// element was created.
type ElementWithLinksResult struct {
	Element     *models.Element            `json:"element"`
	Links       []models.ElementRegulation `json:"regulation_links"`
	LinkWarning string                     `json:"warning,omitempty"`
}

// CreateLink inserts one element-regulation link. Returns ErrDuplicate when
// the pair is already linked and ErrNotFound when either side does not exist.
func CreateLink(db *gorm.DB, elementID string, regulationID int64) (*models.ElementRegulation, error) {
	elementID = strings.TrimSpace(elementID)
	if elementID == "" {
		return nil, fmt.Errorf("%w: element id cannot be empty", ErrInvalidInput)
	}
	if regulationID <= 0 {
		return nil, fmt.Errorf("%w: regulation id must be positive", ErrInvalidInput)
	}

	exists, err := ElementExists(db, elementID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: element %s", ErrNotFound, elementID)
	}
	ok, err := RegulationExists(db, regulationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: regulation %d", ErrNotFound, regulationID)
	}

	linked, err := LinkExists(db, elementID, regulationID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, fmt.Errorf("%w: element %s -> regulation %d", ErrDuplicate, elementID, regulationID)
	}

	link := models.ElementRegulation{ElementID: elementID, RegulationID: regulationID}
	if err := db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateLinks links one element to many regulations. Duplicate ids in the
// request collapse to one attempt; each id fails or succeeds on its own.
func CreateLinks(db *gorm.DB, elementID string, regulationIDs []int64) (*BulkLinkResult, error) {
	elementID = strings.TrimSpace(elementID)
	if elementID == "" {
		return nil, fmt.Errorf("%w: element id cannot be empty", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(regulationIDs))
	unique := make([]int64, 0, len(regulationIDs))
	for _, id := range regulationIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	result := &BulkLinkResult{RequestedCount: len(unique)}
	for _, id := range unique {
		link, err := CreateLink(db, elementID, id)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("regulation %d: %v", id, err))
			continue
		}
		result.Created = append(result.Created, *link)
	}
	result.CreatedCount = len(result.Created)
	return result, nil
}

// CreateElementWithRegulations creates an element and links it to the given
// regulations. The element survives even when linking fails; the caller sees
// the partial outcome in LinkWarning.
func CreateElementWithRegulations(db *gorm.DB, name, elementType, userID string, description, categoryID *string, regulationIDs []int64) (*ElementWithLinksResult, error) {
	element, err := CreateElement(db, name, elementType, userID, description, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to create element: %w", err)
	}

	result := &ElementWithLinksResult{Element: element}
	if len(regulationIDs) == 0 {
		return result, nil
	}

	links, err := CreateLinks(db, element.ID, regulationIDs)
	if err != nil {
		result.LinkWarning = fmt.Sprintf("element created but regulation linking failed: %v", err)
		return result, nil
	}
	result.Links = links.Created
	if len(links.Errors) > 0 {
		result.LinkWarning = fmt.Sprintf("element created but %d regulation links failed", len(links.Errors))
	}
	return result, nil
}

// GetLinkByID retrieves a single link.
func GetLinkByID(db *gorm.DB, id string) (*models.ElementRegulation, error) {
	var link models.ElementRegulation
	if err := db.Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// GetAllLinks retrieves one page of links.
func GetAllLinks(db *gorm.DB, limit, offset int) ([]models.ElementRegulation, error) {
	var links []models.ElementRegulation
	err := db.Limit(limit).Offset(offset).Find(&links).Error
	return links, err
}

// GetRegulationsForElement retrieves an element's links joined with the
// linked regulations.
func GetRegulationsForElement(db *gorm.DB, elementID string) ([]LinkedRegulation, error) {
	var links []models.ElementRegulation
	if err := db.Where("element_id = ?", elementID).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []LinkedRegulation{}, nil
	}

	ids := make([]int64, len(links))
	for i, l := range links {
		ids[i] = l.RegulationID
	}
	var regulations []models.Regulation
	if err := db.Where("id IN ?", ids).Find(&regulations).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Regulation, len(regulations))
	for _, r := range regulations {
		byID[r.ID] = r
	}

	combined := make([]LinkedRegulation, 0, len(links))
	for _, l := range links {
		reg, ok := byID[l.RegulationID]
		if !ok {
			continue
		}
		combined = append(combined, LinkedRegulation{Link: l, Regulation: reg})
	}
	return combined, nil
}

// GetElementsForRegulation retrieves a regulation's links joined with the
// linked elements.
func GetElementsForRegulation(db *gorm.DB, regulationID int64) ([]LinkedElement, error) {
	var links []models.ElementRegulation
	if err := db.Where("regulation_id = ?", regulationID).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []LinkedElement{}, nil
	}

	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ElementID
	}
	var elements []models.Element
	if err := db.Where("id IN ?", ids).Find(&elements).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Element, len(elements))
	for _, e := range elements {
		byID[e.ID] = e
	}

	combined := make([]LinkedElement, 0, len(links))
	for _, l := range links {
		el, ok := byID[l.ElementID]
		if !ok {
			continue
		}
		combined = append(combined, LinkedElement{Link: l, Element: el})
	}
	return combined, nil
}

// GetLinksByUser retrieves one page of links whose elements belong to the user.
func GetLinksByUser(db *gorm.DB, userID string, limit, offset int) ([]models.ElementRegulation, error) {
	var links []models.ElementRegulation
	err := db.Joins("JOIN element_list ON element_list.id = element_regulations.element_id").
		Where("element_list.user_id = ?", userID).
		Limit(limit).Offset(offset).
		Find(&links).Error
	return links, err
}

// LinkExists reports whether the element-regulation pair is already linked.
func LinkExists(db *gorm.DB, elementID string, regulationID int64) (bool, error) {
	var n int64
	err := db.Model(&models.ElementRegulation{}).
		Where("element_id = ? AND regulation_id = ?", elementID, regulationID).
		Count(&n).Error
	return n > 0, err
}

// DeleteLink removes one link by id.
func DeleteLink(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.ElementRegulation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLinkByPair removes the link between one element and one regulation.
func DeleteLinkByPair(db *gorm.DB, elementID string, regulationID int64) error {
	res := db.Where("element_id = ? AND regulation_id = ?", elementID, regulationID).
		Delete(&models.ElementRegulation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLinksForElement removes all of an element's links and returns how
// many were deleted.
func DeleteLinksForElement(db *gorm.DB, elementID string) (int64, error) {
	res := db.Where("element_id = ?", elementID).Delete(&models.ElementRegulation{})
	return res.RowsAffected, res.Error
}

// DeleteLinksForRegulation removes all of a regulation's links and returns
// how many were deleted.
func DeleteLinksForRegulation(db *gorm.DB, regulationID int64) (int64, error) {
	res := db.Where("regulation_id = ?", regulationID).Delete(&models.ElementRegulation{})
	return res.RowsAffected, res.Error
}

// DeleteLinks unlinks many regulations from one element. Each pair succeeds
// or fails on its own; the count and errors report the partial outcome.
func DeleteLinks(db *gorm.DB, elementID string, regulationIDs []int64) (int64, []string) {
	var deleted int64
	var errs []string
	for _, id := range regulationIDs {
		if err := DeleteLinkByPair(db, elementID, id); err != nil {
			errs = append(errs, fmt.Sprintf("regulation %d: %v", id, err))
			continue
		}
		deleted++
	}
	return deleted, errs
}

// CountLinks returns the total link count.
func CountLinks(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.ElementRegulation{}).Count(&n).Error
	return n, err
}

// CountLinksForElement returns how many regulations an element is linked to.
func CountLinksForElement(db *gorm.DB, elementID string) (int64, error) {
	var n int64
	err := db.Model(&models.ElementRegulation{}).
		Where("element_id = ?", elementID).Count(&n).Error
	return n, err
}

// CountLinksForRegulation returns how many elements a regulation is linked to.
func CountLinksForRegulation(db *gorm.DB, regulationID int64) (int64, error) {
	var n int64
	err := db.Model(&models.ElementRegulation{}).
		Where("regulation_id = ?", regulationID).Count(&n).Error
	return n, err
}

// MostLinkedRegulations returns the regulations with the most element links,
// highest first.
func MostLinkedRegulations(db *gorm.DB, limit int) ([]LinkCount, error) {
	type row struct {
		RegulationID int64
		N            int64
	}
	var rows []row
	err := db.Model(&models.ElementRegulation{}).
		Select("regulation_id, COUNT(*) AS n").
		Group("regulation_id").
		Order("n DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]LinkCount, len(rows))
	for i, r := range rows {
		out[i] = LinkCount{ID: fmt.Sprintf("%d", r.RegulationID), Count: r.N}
	}
	return out, nil
}

// MostLinkedElements returns the elements with the most regulation links,
// highest first.
func MostLinkedElements(db *gorm.DB, limit int) ([]LinkCount, error) {
	type row struct {
		ElementID string
		N         int64
	}
	var rows []row
	err := db.Model(&models.ElementRegulation{}).
		Select("element_id, COUNT(*) AS n").
		Group("element_id").
		Order("n DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]LinkCount, len(rows))
	for i, r := range rows {
		out[i] = LinkCount{ID: r.ElementID, Count: r.N}
	}
	return out, nil
}
