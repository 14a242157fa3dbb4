// projects.go
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
	"github.com/localnerve/elementdb/internal/models"
	"github.com/localnerve/elementdb/internal/services"
	"github.com/localnerve/elementdb/internal/utils"
	"gorm.io/gorm"
)

// ProjectHandler handles project routes
type ProjectHandler struct {
	DB *gorm.DB
}

type projectBody struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	services.ProjectInput
}

// CreateProject handles POST /api/projects
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body object true "Project fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var body projectBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "projects.validation.input")
	}

	project, err := services.CreateProject(h.DB, body.UserID, body.Name, body.ProjectInput)
	if err != nil {
		return serviceErrorResponse(c, err, "createProject")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Project created successfully",
		"project": project,
	})
}

// GetProject handles GET /api/projects/:id
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	project, err := services.GetProjectByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getProject")
	}
	return c.Status(fiber.StatusOK).JSON(project)
}

// GetProjectsByUser handles GET /api/projects/user/:user_id
// @Summary Get a user's projects
// @Tags Projects
// @Produce json
// @Param user_id path string true "User ID"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects/user/{user_id} [get]
func (h *ProjectHandler) GetProjectsByUser(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	status := c.Query("status")
	limit, offset := parsePagination(c)

	var projects []models.Project
	var err error
	if status != "" {
		projects, err = services.GetProjectsByUserAndStatus(h.DB, userID, status, limit, offset)
	} else {
		projects, err = services.GetProjectsByUser(h.DB, userID, limit, offset)
	}
	if err != nil {
		return serviceErrorResponse(c, err, "getProjectsByUser")
	}
	total, err := services.CountProjectsByUser(h.DB, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getProjectsByUser")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"projects":       projects,
		"count":          len(projects),
		"limit":          limit,
		"offset":         offset,
		"total_projects": total,
	})
}

// GetProjectsByStatus handles GET /api/projects/status/:status
// @Summary Get projects by status
// @Tags Projects
// @Produce json
// @Param status path string true "Project status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects/status/{status} [get]
func (h *ProjectHandler) GetProjectsByStatus(c *fiber.Ctx) error {
	status := c.Params("status")
	limit, offset := parsePagination(c)

	projects, err := services.GetProjectsByStatus(h.DB, status, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getProjectsByStatus")
	}
	total, err := services.CountProjectsByStatus(h.DB, status)
	if err != nil {
		return serviceErrorResponse(c, err, "getProjectsByStatus")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":         status,
		"projects":       projects,
		"count":          len(projects),
		"limit":          limit,
		"offset":         offset,
		"total_projects": total,
	})
}

// SearchProjects handles GET /api/projects/search/:search_term
// @Summary Search projects by name
// @Tags Projects
// @Produce json
// @Param search_term path string true "Search term"
// @Param user_id query string false "Scope to user"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /projects/search/{search_term} [get]
func (h *ProjectHandler) SearchProjects(c *fiber.Ctx) error {
	term := c.Params("search_term")
	userID := c.Query("user_id")
	limit, offset := parsePagination(c)

	projects, err := services.SearchProjectsByName(h.DB, term, userID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "searchProjects")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"projects":    projects,
		"count":       len(projects),
		"search_term": term,
		"limit":       limit,
		"offset":      offset,
	})
}

// GetAllProjects handles GET /api/projects
// @Summary Get all projects
// @Tags Projects
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects [get]
func (h *ProjectHandler) GetAllProjects(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	projects, err := services.GetAllProjects(h.DB, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllProjects")
	}
	total, err := services.CountProjects(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllProjects")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"projects":       projects,
		"count":          len(projects),
		"limit":          limit,
		"offset":         offset,
		"total_projects": total,
	})
}

// UpdateProject handles PUT /api/projects/:id
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	var body services.ProjectInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "projects.validation.input")
	}

	project, err := services.UpdateProject(h.DB, c.Params("id"), body)
	if err != nil {
		return serviceErrorResponse(c, err, "updateProject")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Project updated successfully",
		"project": project,
	})
}

// DeleteProject handles DELETE /api/projects/:id
// @Summary Delete project
// @Description Delete a project together with its BOQs and file records
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	if err := services.DeleteProject(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "deleteProject")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Project deleted successfully",
	})
}

// DeleteProjectsByUser handles DELETE /api/projects/user/:user_id
// @Summary Delete a user's projects
// @Tags Projects
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects/user/{user_id} [delete]
func (h *ProjectHandler) DeleteProjectsByUser(c *fiber.Ctx) error {
	deleted, err := services.DeleteProjectsByUser(h.DB, c.Params("user_id"))
	if err != nil {
		return serviceErrorResponse(c, err, "deleteProjectsByUser")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Projects deleted successfully",
		"deleted_count": deleted,
	})
}

// CheckProjectExists handles GET /api/projects/check-exists/:id
// @Summary Check project existence
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Router /projects/check-exists/{id} [get]
func (h *ProjectHandler) CheckProjectExists(c *fiber.Ctx) error {
	id := c.Params("id")
	exists, err := services.ProjectExists(h.DB, id)
	if err != nil {
		return serviceErrorResponse(c, err, "checkProjectExists")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"project_id": id,
		"exists":     exists,
	})
}

// GetProjectStatistics handles GET /api/projects/stats
// @Summary Project statistics
// @Tags Projects
// @Produce json
// @Param user_id query string false "Scope to user"
// @Success 200 {object} map[string]interface{}
// @Router /projects/stats [get]
func (h *ProjectHandler) GetProjectStatistics(c *fiber.Ctx) error {
	stats, err := services.GetProjectStatistics(h.DB, c.Query("user_id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getProjectStatistics")
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
