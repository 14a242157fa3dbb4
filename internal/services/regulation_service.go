package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
)

// regulationNrPattern matches the tariff number format: six digits plus an
// optional position letter, e.g. "003901C" or "003502".
var regulationNrPattern = regexp.MustCompile(`^\d{6}[A-Za-z]?$`)

// Search type labels reported by UnifiedSearch.
const (
	SearchTypeNumber = "number"
	SearchTypeText   = "text"
)

// RegulationNumberParts holds the components of a parsed tariff number.
// All fields are nil when the number is unknown or malformed.
type RegulationNumberParts struct {
	LgNr        *string `json:"lg_nr"`
	UlgNr       *string `json:"ulg_nr"`
	GrundtextNr *string `json:"grundtext_nr"`
	PositionNr  *string `json:"position_nr"`
}

// UnifiedSearchResult is the outcome of a query that may be a tariff number
// or free text. ParsedComponents is only set for number searches.
type UnifiedSearchResult struct {
	SearchType       string                 `json:"search_type"`
	Query            string                 `json:"query"`
	Results          []models.Regulation    `json:"results"`
	TotalResults     int                    `json:"total_results"`
	ParsedComponents *RegulationNumberParts `json:"parsed_components,omitempty"`
}

// IsRegulationNumber reports whether the query looks like a tariff number.
func IsRegulationNumber(query string) bool {
	return regulationNrPattern.MatchString(strings.TrimSpace(query))
}

// GetRegulationByID retrieves one regulation.
func GetRegulationByID(db *gorm.DB, id int64) (*models.Regulation, error) {
	var regulation models.Regulation
	if err := db.Where("id = ?", id).First(&regulation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &regulation, nil
}

// GetRegulationsByEntityType retrieves regulations of one entity type.
func GetRegulationsByEntityType(db *gorm.DB, entityType string, limit int) ([]models.Regulation, error) {
	var regulations []models.Regulation
	err := db.Where("entity_type = ?", entityType).Limit(limit).Find(&regulations).Error
	return regulations, err
}

// GetAllRegulations retrieves regulations up to limit.
func GetAllRegulations(db *gorm.DB, limit int) ([]models.Regulation, error) {
	var regulations []models.Regulation
	err := db.Limit(limit).Find(&regulations).Error
	return regulations, err
}

// RegulationExists reports whether a regulation id exists.
func RegulationExists(db *gorm.DB, id int64) (bool, error) {
	var n int64
	err := db.Model(&models.Regulation{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// FindRegulationsByNumber finds regulations whose full_nr matches the tariff
// number. When the exact number has no match, a second lookup strips leading
// zeros from each two-digit component, since some source documents store
// numbers that way.
func FindRegulationsByNumber(db *gorm.DB, regulationNr string) ([]models.Regulation, error) {
	regulationNr = strings.TrimSpace(regulationNr)
	if !regulationNrPattern.MatchString(regulationNr) {
		return nil, fmt.Errorf("%w: invalid regulation number format %q", ErrInvalidInput, regulationNr)
	}

	var regulations []models.Regulation
	if err := db.Where("full_nr = ?", regulationNr).Find(&regulations).Error; err != nil {
		return nil, err
	}
	if len(regulations) > 0 {
		return regulations, nil
	}

	alt := alternativeNumber(regulationNr)
	if alt == regulationNr {
		return regulations, nil
	}
	if err := db.Where("full_nr = ?", alt).Find(&regulations).Error; err != nil {
		return nil, err
	}
	return regulations, nil
}

// ParseRegulationNumber resolves a tariff number into its stored components
// by looking up the matching regulation row. A number with no matching row
// yields all-nil parts, not an error.
func ParseRegulationNumber(db *gorm.DB, regulationNr string) (*RegulationNumberParts, error) {
	regulationNr = strings.TrimSpace(regulationNr)
	if !regulationNrPattern.MatchString(regulationNr) {
		return &RegulationNumberParts{}, nil
	}

	var regulation models.Regulation
	err := db.Select("lg_nr, ulg_nr, grundtext_nr, position_nr").
		Where("full_nr = ?", regulationNr).
		First(&regulation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &RegulationNumberParts{}, nil
		}
		return nil, err
	}
	return &RegulationNumberParts{
		LgNr:        regulation.LgNr,
		UlgNr:       regulation.UlgNr,
		GrundtextNr: regulation.GrundtextNr,
		PositionNr:  regulation.PositionNr,
	}, nil
}

// SearchRegulationsByText searches the searchable_text column, case
// insensitive, up to limit rows.
func SearchRegulationsByText(db *gorm.DB, query string, limit int) ([]models.Regulation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrInvalidInput)
	}
	var regulations []models.Regulation
	err := db.Where("LOWER(searchable_text) LIKE ?", "%"+strings.ToLower(query)+"%").
		Limit(limit).
		Find(&regulations).Error
	return regulations, err
}

// UnifiedSearch detects whether the query is a tariff number or free text and
// dispatches to the matching search.
func UnifiedSearch(db *gorm.DB, query string, limit int) (*UnifiedSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrInvalidInput)
	}

	if IsRegulationNumber(query) {
		results, err := FindRegulationsByNumber(db, query)
		if err != nil {
			return nil, err
		}
		parts, err := ParseRegulationNumber(db, query)
		if err != nil {
			return nil, err
		}
		return &UnifiedSearchResult{
			SearchType:       SearchTypeNumber,
			Query:            query,
			Results:          results,
			TotalResults:     len(results),
			ParsedComponents: parts,
		}, nil
	}

	results, err := SearchRegulationsByText(db, query, limit)
	if err != nil {
		return nil, err
	}
	return &UnifiedSearchResult{
		SearchType:   SearchTypeText,
		Query:        query,
		Results:      results,
		TotalResults: len(results),
	}, nil
}

// CountRegulations returns the total regulation count.
func CountRegulations(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Regulation{}).Count(&n).Error
	return n, err
}

// alternativeNumber rebuilds a tariff number with leading zeros stripped from
// the numeric components. "003901C" becomes "0391C".
func alternativeNumber(regulationNr string) string {
	lg := stripLeadingZeros(regulationNr[0:2])
	ulg := stripLeadingZeros(regulationNr[2:4])
	gt := stripLeadingZeros(regulationNr[4:6])
	pos := ""
	if len(regulationNr) > 6 {
		pos = strings.ToUpper(regulationNr[6:])
	}
	return lg + ulg + gt + pos
}

func stripLeadingZeros(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return strconv.Itoa(n)
}
