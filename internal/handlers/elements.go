// elements.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/elementdb/internal/services"
	"github.com/localnerve/elementdb/internal/utils"
	"gorm.io/gorm"
)

// ElementHandler handles element routes
type ElementHandler struct {
	DB *gorm.DB
}

type elementBody struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	UserID      string  `json:"user_id"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
}

// CreateElement handles POST /api/elements
// @Summary Create element
// @Description Create a new construction element
// @Tags Elements
// @Accept json
// @Produce json
// @Param body body object true "Element fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /elements [post]
func (h *ElementHandler) CreateElement(c *fiber.Ctx) error {
	var body elementBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "elements.validation.input")
	}

	element, err := services.CreateElement(h.DB, body.Name, body.Type, body.UserID, body.Description, body.CategoryID)
	if err != nil {
		return serviceErrorResponse(c, err, "createElement")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Element created successfully",
		"element": element,
	})
}

// GetElement handles GET /api/elements/:id
// @Summary Get element
// @Description Get a single element by id
// @Tags Elements
// @Produce json
// @Param id path string true "Element ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /elements/{id} [get]
func (h *ElementHandler) GetElement(c *fiber.Ctx) error {
	element, err := services.GetElementByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getElement")
	}
	return c.Status(fiber.StatusOK).JSON(element)
}

// GetElementsByUser handles GET /api/elements/user/:user_id
// @Summary Get elements by user
// @Description Get one page of a user's elements with regulation counts
// @Tags Elements
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /elements/user/{user_id} [get]
func (h *ElementHandler) GetElementsByUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	limit, offset := parsePagination(c)

	elements, err := services.GetElementsByUser(h.DB, userID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementsByUser")
	}
	if err := services.AttachRegulationCounts(h.DB, elements); err != nil {
		return serviceErrorResponse(c, err, "getElementsByUser")
	}
	total, err := services.CountElementsByUser(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementsByUser")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"elements":                elements,
		"count":                   len(elements),
		"limit":                   limit,
		"offset":                  offset,
		"total_elements_for_user": total,
	})
}

// GetElementsByType handles GET /api/elements/type/:element_type
// @Summary Get elements by type
// @Tags Elements
// @Produce json
// @Param element_type path string true "Element type"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /elements/type/{element_type} [get]
func (h *ElementHandler) GetElementsByType(c *fiber.Ctx) error {
	elementType := c.Params("element_type")
	limit, offset := parsePagination(c)

	elements, err := services.GetElementsByType(h.DB, elementType, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementsByType")
	}
	if err := services.AttachRegulationCounts(h.DB, elements); err != nil {
		return serviceErrorResponse(c, err, "getElementsByType")
	}
	total, err := services.CountElementsByType(h.DB, elementType)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementsByType")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"elements":               elements,
		"count":                  len(elements),
		"limit":                  limit,
		"offset":                 offset,
		"total_elements_of_type": total,
	})
}

// GetElementsByUserAndType handles GET /api/elements/user/:user_id/type/:element_type
// @Summary Get elements by user and type
// @Tags Elements
// @Produce json
// @Param user_id path string true "User ID"
// @Param element_type path string true "Element type"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /elements/user/{user_id}/type/{element_type} [get]
func (h *ElementHandler) GetElementsByUserAndType(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	elements, err := services.GetElementsByUserAndType(h.DB, c.Params("user_id"), c.Params("element_type"), limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementsByUserAndType")
	}
	if err := services.AttachRegulationCounts(h.DB, elements); err != nil {
		return serviceErrorResponse(c, err, "getElementsByUserAndType")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"elements": elements,
		"count":    len(elements),
		"limit":    limit,
		"offset":   offset,
	})
}

// GetElementsByCategory handles GET /api/elements/category/:category_id
// @Summary Get elements by category
// @Tags Elements
// @Produce json
// @Param category_id path string true "Category ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /elements/category/{category_id} [get]
func (h *ElementHandler) GetElementsByCategory(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	elements, err := services.GetElementsByCategory(h.DB, c.Params("category_id"), limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementsByCategory")
	}
	if err := services.AttachRegulationCounts(h.DB, elements); err != nil {
		return serviceErrorResponse(c, err, "getElementsByCategory")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"elements": elements,
		"count":    len(elements),
		"limit":    limit,
		"offset":   offset,
	})
}

// SearchElements handles GET /api/elements/search/:search_term
// @Summary Search elements by name
// @Tags Elements
// @Produce json
// @Param search_term path string true "Search term"
// @Param user_id query string false "Scope to user"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /elements/search/{search_term} [get]
func (h *ElementHandler) SearchElements(c *fiber.Ctx) error {
	term := c.Params("search_term")
	limit, offset := parsePagination(c)

	var userID *string
	if v := c.Query("user_id"); v != "" {
		userID = &v
	}

	elements, err := services.SearchElementsByName(h.DB, term, userID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "searchElements")
	}
	if err := services.AttachRegulationCounts(h.DB, elements); err != nil {
		return serviceErrorResponse(c, err, "searchElements")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"elements":    elements,
		"count":       len(elements),
		"search_term": term,
		"user_id":     userID,
		"limit":       limit,
		"offset":      offset,
	})
}

// GetAllElements handles GET /api/elements
// @Summary Get all elements
// @Tags Elements
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /elements [get]
func (h *ElementHandler) GetAllElements(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	elements, err := services.GetAllElements(h.DB, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllElements")
	}
	if err := services.AttachRegulationCounts(h.DB, elements); err != nil {
		return serviceErrorResponse(c, err, "getAllElements")
	}
	total, err := services.CountElements(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllElements")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"elements":       elements,
		"count":          len(elements),
		"limit":          limit,
		"offset":         offset,
		"total_elements": total,
	})
}

// UpdateElement handles PUT /api/elements/:id
// @Summary Update element
// @Description Apply a partial update to an element
// @Tags Elements
// @Accept json
// @Produce json
// @Param id path string true "Element ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /elements/{id} [put]
func (h *ElementHandler) UpdateElement(c *fiber.Ctx) error {
	var body services.ElementInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "elements.validation.input")
	}

	element, err := services.UpdateElement(h.DB, c.Params("id"), body)
	if err != nil {
		return serviceErrorResponse(c, err, "updateElement")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Element updated successfully",
		"element": element,
	})
}

// DeleteElement handles DELETE /api/elements/:id
// @Summary Delete element
// @Description Delete an element and its regulation links
// @Tags Elements
// @Produce json
// @Param id path string true "Element ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /elements/{id} [delete]
func (h *ElementHandler) DeleteElement(c *fiber.Ctx) error {
	if err := services.DeleteElement(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "deleteElement")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Element deleted successfully",
	})
}

// DeleteElementsByUser handles DELETE /api/elements/user/:user_id
// @Summary Delete a user's elements
// @Tags Elements
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /elements/user/{user_id} [delete]
func (h *ElementHandler) DeleteElementsByUser(c *fiber.Ctx) error {
	deleted, err := services.DeleteElementsByUser(h.DB, c.Params("user_id"))
	if err != nil {
		return serviceErrorResponse(c, err, "deleteElementsByUser")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Elements deleted successfully",
		"deleted_count": deleted,
	})
}

// GetElementCount handles GET /api/elements/stats/count
// @Summary Total element count
// @Tags Elements
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /elements/stats/count [get]
func (h *ElementHandler) GetElementCount(c *fiber.Ctx) error {
	total, err := services.CountElements(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementCount")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"total_elements": total})
}

// GetElementCountByUser handles GET /api/elements/stats/count/user/:user_id
// @Summary Element count for a user
// @Tags Elements
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /elements/stats/count/user/{user_id} [get]
func (h *ElementHandler) GetElementCountByUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	count, err := services.CountElementsByUser(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementCountByUser")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user_id":       userID,
		"element_count": count,
	})
}

// GetElementCountByType handles GET /api/elements/stats/count/type/:element_type
// @Summary Element count for a type
// @Tags Elements
// @Produce json
// @Param element_type path string true "Element type"
// @Success 200 {object} map[string]interface{}
// @Router /elements/stats/count/type/{element_type} [get]
func (h *ElementHandler) GetElementCountByType(c *fiber.Ctx) error {
	elementType := c.Params("element_type")
	count, err := services.CountElementsByType(h.DB, elementType)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementCountByType")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"element_type":  elementType,
		"element_count": count,
	})
}

// GetElementTypes handles GET /api/elements/stats/types
// @Summary Distinct element types
// @Tags Elements
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /elements/stats/types [get]
func (h *ElementHandler) GetElementTypes(c *fiber.Ctx) error {
	types, err := services.UniqueElementTypes(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementTypes")
	}
	if types == nil {
		types = []string{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"element_types": types,
		"count":         len(types),
	})
}

// CheckElementExists handles GET /api/elements/check-exists/:id
// @Summary Check element existence
// @Tags Elements
// @Produce json
// @Param id path string true "Element ID"
// @Success 200 {object} map[string]interface{}
// @Router /elements/check-exists/{id} [get]
func (h *ElementHandler) CheckElementExists(c *fiber.Ctx) error {
	id := c.Params("id")
	exists, err := services.ElementExists(h.DB, id)
	if err != nil {
		return serviceErrorResponse(c, err, "checkElementExists")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"element_id": id,
		"exists":     exists,
	})
}
