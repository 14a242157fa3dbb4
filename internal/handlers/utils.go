// utils.go
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
	"gorm.io/gorm"
)

// UtilsHandler handles utility routes
type UtilsHandler struct {
	DB *gorm.DB
}

// GetOnlvEmptyJSON handles GET /api/utils/onlv-empty-json
// @Summary Empty ONLV template
// @Description Return the ONLV template populated with project and BOQ data when ids are given
// @Tags Utils
// @Produce json
// @Param project_id query string false "Project ID"
// @Param boq_id query string false "BOQ ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /utils/onlv-empty-json [get]
func (h *UtilsHandler) GetOnlvEmptyJSON(c *fiber.Ctx) error {
	doc, err := services.BuildEmptyOnlv(h.DB, c.Query("project_id"), c.Query("boq_id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getOnlvEmptyJSON")
	}
	return c.Status(fiber.StatusOK).JSON(doc)
}

// Health handles GET /health
// @Summary Health check
// @Description Report service and database health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *UtilsHandler) Health(c *fiber.Ctx) error {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"database": "ok",
	})
}
