// regulations.go
//
// A data service and client toolkit for construction element and regulation management
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of elementdb.
// elementdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// elementdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with elementdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/elementdb/internal/services"
	"github.com/localnerve/elementdb/internal/utils"
	"gorm.io/gorm"
)

// RegulationHandler handles regulation routes
type RegulationHandler struct {
	DB *gorm.DB
}

// GetRegulation handles GET /api/regulations/:id
// @Summary Get regulation
// @Tags Regulations
// @Produce json
// @Param id path int true "Regulation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /regulations/{id} [get]
func (h *RegulationHandler) GetRegulation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid regulation id", fiber.StatusBadRequest, "regulations.validation.input")
	}

	regulation, err := services.GetRegulationByID(h.DB, int64(id))
	if err != nil {
		return serviceErrorResponse(c, err, "getRegulation")
	}
	return c.Status(fiber.StatusOK).JSON(regulation)
}

// GetRegulationsByType handles GET /api/regulations/by-type/:entity_type
// @Summary Get regulations by entity type
// @Tags Regulations
// @Produce json
// @Param entity_type path string true "Entity type"
// @Param limit query int false "Max rows"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /regulations/by-type/{entity_type} [get]
func (h *RegulationHandler) GetRegulationsByType(c *fiber.Ctx) error {
	entityType := c.Params("entity_type")
	limit := c.QueryInt("limit", 50)

	regulations, err := services.GetRegulationsByEntityType(h.DB, entityType, limit)
	if err != nil {
		return serviceErrorResponse(c, err, "getRegulationsByType")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"entity_type": entityType,
		"count":       len(regulations),
		"regulations": regulations,
	})
}

// GetRegulationByNumber handles GET /api/regulations/by-number/:regulation_nr
// @Summary Find regulations by tariff number
// @Description Resolve a 6-digit tariff number (optional position letter) to regulation rows
// @Tags Regulations
// @Produce json
// @Param regulation_nr path string true "Tariff number, e.g. 003901C"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /regulations/by-number/{regulation_nr} [get]
func (h *RegulationHandler) GetRegulationByNumber(c *fiber.Ctx) error {
	regulationNr := c.Params("regulation_nr")

	regulations, err := services.FindRegulationsByNumber(h.DB, regulationNr)
	if err != nil {
		return serviceErrorResponse(c, err, "getRegulationByNumber")
	}
	if len(regulations) == 0 {
		return utils.NotFoundResponse(c, fmt.Sprintf("No regulations found for number: %s", regulationNr))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"regulation_number": regulationNr,
		"count":             len(regulations),
		"regulations":       regulations,
	})
}

// SearchUnified handles GET /api/regulations/search-unified/:query
// @Summary Unified regulation search
// @Description Detects tariff numbers vs free text and dispatches to the matching search
// @Tags Regulations
// @Produce json
// @Param query path string true "Tariff number or text"
// @Param limit query int false "Max rows for text search"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /regulations/search-unified/{query} [get]
func (h *RegulationHandler) SearchUnified(c *fiber.Ctx) error {
	query := c.Params("query")
	limit := c.QueryInt("limit", 50)

	result, err := services.UnifiedSearch(h.DB, query, limit)
	if err != nil {
		return serviceErrorResponse(c, err, "searchUnified")
	}
	if result.TotalResults == 0 {
		return utils.NotFoundResponse(c, fmt.Sprintf("No regulations found for query: %s", query))
	}

	response := fiber.Map{
		"query":         result.Query,
		"search_type":   result.SearchType,
		"total_results": result.TotalResults,
		"results":       result.Results,
	}
	if result.ParsedComponents != nil {
		response["parsed_components"] = result.ParsedComponents
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

// SearchRegulations handles POST /api/regulations/search
// @Summary Search regulations by text
// @Tags Regulations
// @Accept json
// @Produce json
// @Param body body object true "Search query"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /regulations/search [post]
func (h *RegulationHandler) SearchRegulations(c *fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "regulations.validation.input")
	}
	if body.Limit <= 0 {
		body.Limit = 50
	}

	regulations, err := services.SearchRegulationsByText(h.DB, body.Query, body.Limit)
	if err != nil {
		return serviceErrorResponse(c, err, "searchRegulations")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"results":       regulations,
		"total_results": len(regulations),
	})
}

// GetAllRegulations handles GET /api/regulations
// @Summary Get all regulations
// @Tags Regulations
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /regulations [get]
func (h *RegulationHandler) GetAllRegulations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	regulations, err := services.GetAllRegulations(h.DB, limit)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllRegulations")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count":       len(regulations),
		"regulations": regulations,
	})
}
