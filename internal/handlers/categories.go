// categories.go
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

// CategoryHandler handles category routes
type CategoryHandler struct {
	DB *gorm.DB
}

type categoryBody struct {
	Name        string  `json:"name"`
	UserID      string  `json:"user_id"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
}

// CreateCategory handles POST /api/categories
// @Summary Create category
// @Description Create a new element category
// @Tags Categories
// @Accept json
// @Produce json
// @Param body body object true "Category fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var body categoryBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "categories.validation.input")
	}

	category, err := services.CreateCategory(h.DB, body.Name, body.UserID, body.Description, body.Color)
	if err != nil {
		return serviceErrorResponse(c, err, "createCategory")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

// GetCategory handles GET /api/categories/:id
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := services.GetCategoryByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getCategory")
	}
	return c.Status(fiber.StatusOK).JSON(category)
}

// GetCategoryByName handles GET /api/categories/name/:name
// @Summary Get category by name
// @Tags Categories
// @Produce json
// @Param name path string true "Category name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/name/{name} [get]
func (h *CategoryHandler) GetCategoryByName(c *fiber.Ctx) error {
	category, err := services.GetCategoryByName(h.DB, c.Params("name"))
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoryByName")
	}
	return c.Status(fiber.StatusOK).JSON(category)
}

// GetCategoriesByUser handles GET /api/categories/user/:user_id
// @Summary Get a user's categories
// @Description Get one page of a user's categories with element counts
// @Tags Categories
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /categories/user/{user_id} [get]
func (h *CategoryHandler) GetCategoriesByUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	limit, offset := parsePagination(c)

	categories, err := services.GetCategoriesByUser(h.DB, userID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoriesByUser")
	}
	if err := services.AttachElementCounts(h.DB, categories); err != nil {
		return serviceErrorResponse(c, err, "getCategoriesByUser")
	}
	total, err := services.CountCategoriesByUser(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoriesByUser")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"categories":       categories,
		"count":            len(categories),
		"limit":            limit,
		"offset":           offset,
		"total_categories": total,
	})
}

// GetAllCategories handles GET /api/categories
// @Summary Get all categories
// @Tags Categories
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /categories [get]
func (h *CategoryHandler) GetAllCategories(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	categories, err := services.GetAllCategories(h.DB, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllCategories")
	}
	if err := services.AttachElementCounts(h.DB, categories); err != nil {
		return serviceErrorResponse(c, err, "getAllCategories")
	}
	total, err := services.CountCategories(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllCategories")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"categories":       categories,
		"count":            len(categories),
		"limit":            limit,
		"offset":           offset,
		"total_categories": total,
	})
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary Update category
// @Description Apply a partial update to a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var body services.CategoryInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "categories.validation.input")
	}

	category, err := services.UpdateCategory(h.DB, c.Params("id"), body)
	if err != nil {
		return serviceErrorResponse(c, err, "updateCategory")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary Delete category
// @Description Delete a category and unassign its elements
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := services.DeleteCategory(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "deleteCategory")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}

// CheckCategoryName handles GET /api/categories/check-name/:name
// @Summary Check category name availability
// @Tags Categories
// @Produce json
// @Param name path string true "Category name"
// @Param user_id query string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /categories/check-name/{name} [get]
func (h *CategoryHandler) CheckCategoryName(c *fiber.Ctx) error {
	name := c.Params("name")
	userID := c.Query("user_id")
	if userID == "" {
		return utils.ErrorResponse(c, "user_id is required", fiber.StatusBadRequest, "categories.validation.input")
	}

	exists, err := services.CategoryNameExists(h.DB, userID, name)
	if err != nil {
		return serviceErrorResponse(c, err, "checkCategoryName")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"name":   name,
		"exists": exists,
	})
}

// GetCategoryCount handles GET /api/categories/stats/count
// @Summary Total category count
// @Tags Categories
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /categories/stats/count [get]
func (h *CategoryHandler) GetCategoryCount(c *fiber.Ctx) error {
	total, err := services.CountCategories(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoryCount")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"total_categories": total})
}

// GetCategoryCountByUser handles GET /api/categories/stats/count/user/:user_id
// @Summary Category count for a user
// @Tags Categories
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /categories/stats/count/user/{user_id} [get]
func (h *CategoryHandler) GetCategoryCountByUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	count, err := services.CountCategoriesByUser(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoryCountByUser")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user_id":          userID,
		"total_categories": count,
	})
}

// GetCategoryElements handles GET /api/categories/:id/elements
// @Summary Get a category's elements
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /categories/{id}/elements [get]
func (h *CategoryHandler) GetCategoryElements(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	limit, offset := parsePagination(c)

	elements, err := services.GetElementsByCategory(h.DB, categoryID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoryElements")
	}
	if err := services.AttachRegulationCounts(h.DB, elements); err != nil {
		return serviceErrorResponse(c, err, "getCategoryElements")
	}
	total, err := services.CountElementsByCategory(h.DB, categoryID)
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoryElements")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"category_id":    categoryID,
		"elements":       elements,
		"count":          len(elements),
		"limit":          limit,
		"offset":         offset,
		"total_elements": total,
	})
}

// GetCategoryElementCount handles GET /api/categories/:id/elements/count
// @Summary Element count for a category
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]interface{}
// @Router /categories/{id}/elements/count [get]
func (h *CategoryHandler) GetCategoryElementCount(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	count, err := services.CountElementsByCategory(h.DB, categoryID)
	if err != nil {
		return serviceErrorResponse(c, err, "getCategoryElementCount")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"category_id":    categoryID,
		"total_elements": count,
	})
}
