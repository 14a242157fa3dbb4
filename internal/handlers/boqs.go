// boqs.go
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

// BoqHandler handles bill-of-quantities routes
type BoqHandler struct {
	DB *gorm.DB
}

type boqBody struct {
	Name      string `json:"name"`
	ProjectID string `json:"project_id"`
	services.BoqInput
}

// CreateBoq handles POST /api/boqs
// @Summary Create BOQ
// @Description Create a bill of quantities under an existing project
// @Tags Boqs
// @Accept json
// @Produce json
// @Param body body object true "BOQ fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boqs [post]
func (h *BoqHandler) CreateBoq(c *fiber.Ctx) error {
	var body boqBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "boqs.validation.input")
	}

	boq, err := services.CreateBoq(h.DB, body.ProjectID, body.Name, body.BoqInput)
	if err != nil {
		return serviceErrorResponse(c, err, "createBoq")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Boq created successfully",
		"boq":     boq,
	})
}

// GetBoq handles GET /api/boqs/:id
// @Summary Get BOQ
// @Tags Boqs
// @Produce json
// @Param id path string true "BOQ ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boqs/{id} [get]
func (h *BoqHandler) GetBoq(c *fiber.Ctx) error {
	boq, err := services.GetBoqByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getBoq")
	}
	return c.Status(fiber.StatusOK).JSON(boq)
}

// GetBoqsByProject handles GET /api/boqs/project/:project_id
// @Summary Get a project's BOQs
// @Tags Boqs
// @Produce json
// @Param project_id path string true "Project ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /boqs/project/{project_id} [get]
func (h *BoqHandler) GetBoqsByProject(c *fiber.Ctx) error {
	projectID := c.Params("project_id")
	limit, offset := parsePagination(c)

	boqs, err := services.GetBoqsByProject(h.DB, projectID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getBoqsByProject")
	}
	if err := services.AttachFileCounts(h.DB, boqs); err != nil {
		return serviceErrorResponse(c, err, "getBoqsByProject")
	}
	total, err := services.CountBoqsByProject(h.DB, projectID)
	if err != nil {
		return serviceErrorResponse(c, err, "getBoqsByProject")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"project_id": projectID,
		"boqs":       boqs,
		"count":      len(boqs),
		"limit":      limit,
		"offset":     offset,
		"total_boqs": total,
	})
}

// GetAllBoqs handles GET /api/boqs
// @Summary Get all BOQs
// @Tags Boqs
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /boqs [get]
func (h *BoqHandler) GetAllBoqs(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	boqs, err := services.GetAllBoqs(h.DB, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllBoqs")
	}
	if err := services.AttachFileCounts(h.DB, boqs); err != nil {
		return serviceErrorResponse(c, err, "getAllBoqs")
	}
	total, err := services.CountBoqs(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllBoqs")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"boqs":       boqs,
		"count":      len(boqs),
		"limit":      limit,
		"offset":     offset,
		"total_boqs": total,
	})
}

// SearchBoqs handles GET /api/boqs/search/:search_term
// @Summary Search BOQs by name
// @Tags Boqs
// @Produce json
// @Param search_term path string true "Search term"
// @Param project_id query string false "Scope to project"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /boqs/search/{search_term} [get]
func (h *BoqHandler) SearchBoqs(c *fiber.Ctx) error {
	term := c.Params("search_term")
	projectID := c.Query("project_id")
	limit, offset := parsePagination(c)

	boqs, err := services.SearchBoqsByName(h.DB, term, projectID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "searchBoqs")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"boqs":        boqs,
		"count":       len(boqs),
		"search_term": term,
		"limit":       limit,
		"offset":      offset,
	})
}

// UpdateBoq handles PUT /api/boqs/:id
// @Summary Update BOQ
// @Tags Boqs
// @Accept json
// @Produce json
// @Param id path string true "BOQ ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boqs/{id} [put]
func (h *BoqHandler) UpdateBoq(c *fiber.Ctx) error {
	var body services.BoqInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "boqs.validation.input")
	}

	boq, err := services.UpdateBoq(h.DB, c.Params("id"), body)
	if err != nil {
		return serviceErrorResponse(c, err, "updateBoq")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Boq updated successfully",
		"boq":     boq,
	})
}

// DeleteBoq handles DELETE /api/boqs/:id
// @Summary Delete BOQ
// @Description Delete a BOQ and detach its file records
// @Tags Boqs
// @Produce json
// @Param id path string true "BOQ ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boqs/{id} [delete]
func (h *BoqHandler) DeleteBoq(c *fiber.Ctx) error {
	if err := services.DeleteBoq(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "deleteBoq")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Boq deleted successfully",
	})
}

// DeleteBoqsByProject handles DELETE /api/boqs/project/:project_id
// @Summary Delete a project's BOQs
// @Tags Boqs
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /boqs/project/{project_id} [delete]
func (h *BoqHandler) DeleteBoqsByProject(c *fiber.Ctx) error {
	deleted, err := services.DeleteBoqsByProject(h.DB, c.Params("project_id"))
	if err != nil {
		return serviceErrorResponse(c, err, "deleteBoqsByProject")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Boqs deleted successfully",
		"deleted_count": deleted,
	})
}

// CheckBoqExists handles GET /api/boqs/check-exists/:id
// @Summary Check BOQ existence
// @Tags Boqs
// @Produce json
// @Param id path string true "BOQ ID"
// @Success 200 {object} map[string]interface{}
// @Router /boqs/check-exists/{id} [get]
func (h *BoqHandler) CheckBoqExists(c *fiber.Ctx) error {
	id := c.Params("id")
	exists, err := services.BoqExists(h.DB, id)
	if err != nil {
		return serviceErrorResponse(c, err, "checkBoqExists")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"boq_id": id,
		"exists": exists,
	})
}

// GetBoqFiles handles GET /api/boqs/:id/files
// @Summary Get a BOQ's file records
// @Tags Boqs
// @Produce json
// @Param id path string true "BOQ ID"
// @Param include_inactive query bool false "Include inactive records"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /boqs/{id}/files [get]
func (h *BoqHandler) GetBoqFiles(c *fiber.Ctx) error {
	boqID := c.Params("id")
	includeInactive := c.QueryBool("include_inactive", false)
	limit, offset := parsePagination(c)

	files, err := services.GetFilesByBoq(h.DB, boqID, includeInactive, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getBoqFiles")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"boq_id": boqID,
		"files":  files,
		"count":  len(files),
		"limit":  limit,
		"offset": offset,
	})
}

// GetBoqCount handles GET /api/boqs/stats/count
// @Summary Total BOQ count
// @Tags Boqs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /boqs/stats/count [get]
func (h *BoqHandler) GetBoqCount(c *fiber.Ctx) error {
	total, err := services.CountBoqs(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getBoqCount")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"total_boqs": total})
}
