// element_regulations.go
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
	"github.com/localnerve/elementdb/internal/types"
	"github.com/localnerve/elementdb/internal/utils"
	"gorm.io/gorm"
)

// LinkHandler handles element-regulation link routes
type LinkHandler struct {
	DB *gorm.DB
}

type linkBody struct {
	ElementID    string          `json:"element_id"`
	RegulationID types.FlexInt64 `json:"regulation_id"`
}

type multiLinkBody struct {
	ElementID     string                `json:"element_id"`
	RegulationIDs types.FlexList[int64] `json:"regulation_ids"`
}

type elementWithRegulationsBody struct {
	Element       elementBody           `json:"element"`
	RegulationIDs types.FlexList[int64] `json:"regulation_ids"`
}

// CreateLink handles POST /api/element-regulations
// @Summary Link element to regulation
// @Tags ElementRegulations
// @Accept json
// @Produce json
// @Param body body object true "Link fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /element-regulations [post]
func (h *LinkHandler) CreateLink(c *fiber.Ctx) error {
	var body linkBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "links.validation.input")
	}

	link, err := services.CreateLink(h.DB, body.ElementID, body.RegulationID.Int64())
	if err != nil {
		return serviceErrorResponse(c, err, "createLink")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Link created successfully",
		"link":    link,
	})
}

// CreateLinks handles POST /api/element-regulations/multiple
// @Summary Link element to many regulations
// @Description Link one element to many regulations; each id succeeds or fails on its own
// @Tags ElementRegulations
// @Accept json
// @Produce json
// @Param body body object true "Bulk link fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /element-regulations/multiple [post]
func (h *LinkHandler) CreateLinks(c *fiber.Ctx) error {
	var body multiLinkBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "links.validation.input")
	}
	if len(body.RegulationIDs) == 0 {
		return utils.ErrorResponse(c, "regulation_ids cannot be empty", fiber.StatusBadRequest, "links.validation.input")
	}

	result, err := services.CreateLinks(h.DB, body.ElementID, body.RegulationIDs.Slice())
	if err != nil {
		return serviceErrorResponse(c, err, "createLinks")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":         "Links processed",
		"links":           result.Created,
		"created_count":   result.CreatedCount,
		"requested_count": result.RequestedCount,
		"errors":          result.Errors,
	})
}

// CreateElementWithRegulations handles POST /api/element-regulations/create-element-with-regulations
// @Summary Create element with regulation links
// @Description Create an element and link it to regulations; the element survives link failures
// @Tags ElementRegulations
// @Accept json
// @Produce json
// @Param body body object true "Element and regulation ids"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /element-regulations/create-element-with-regulations [post]
func (h *LinkHandler) CreateElementWithRegulations(c *fiber.Ctx) error {
	var body elementWithRegulationsBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "links.validation.input")
	}

	result, err := services.CreateElementWithRegulations(
		h.DB,
		body.Element.Name, body.Element.Type, body.Element.UserID,
		body.Element.Description, body.Element.CategoryID,
		body.RegulationIDs.Slice(),
	)
	if err != nil {
		return serviceErrorResponse(c, err, "createElementWithRegulations")
	}

	response := fiber.Map{
		"message":          "Element created successfully",
		"element":          result.Element,
		"regulation_links": result.Links,
	}
	if result.LinkWarning != "" {
		response["warning"] = result.LinkWarning
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetLink handles GET /api/element-regulations/:id
// @Summary Get link
// @Tags ElementRegulations
// @Produce json
// @Param id path string true "Link ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /element-regulations/{id} [get]
func (h *LinkHandler) GetLink(c *fiber.Ctx) error {
	link, err := services.GetLinkByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getLink")
	}
	return c.Status(fiber.StatusOK).JSON(link)
}

// GetElementRegulations handles GET /api/element-regulations/element/:element_id/regulations
// @Summary Get an element's linked regulations
// @Tags ElementRegulations
// @Produce json
// @Param element_id path string true "Element ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /element-regulations/element/{element_id}/regulations [get]
func (h *LinkHandler) GetElementRegulations(c *fiber.Ctx) error {
	elementID := c.Params("element_id")
	combined, err := services.GetRegulationsForElement(h.DB, elementID)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementRegulations")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"element_id":  elementID,
		"regulations": combined,
		"count":       len(combined),
	})
}

// GetRegulationElements handles GET /api/element-regulations/regulation/:regulation_id/elements
// @Summary Get a regulation's linked elements
// @Tags ElementRegulations
// @Produce json
// @Param regulation_id path int true "Regulation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /element-regulations/regulation/{regulation_id}/elements [get]
func (h *LinkHandler) GetRegulationElements(c *fiber.Ctx) error {
	regulationID, err := c.ParamsInt("regulation_id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid regulation id", fiber.StatusBadRequest, "links.validation.input")
	}

	combined, err := services.GetElementsForRegulation(h.DB, int64(regulationID))
	if err != nil {
		return serviceErrorResponse(c, err, "getRegulationElements")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"regulation_id": regulationID,
		"elements":      combined,
		"count":         len(combined),
	})
}

// GetLinksByUser handles GET /api/element-regulations/user/:user_id
// @Summary Get a user's links
// @Tags ElementRegulations
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /element-regulations/user/{user_id} [get]
func (h *LinkHandler) GetLinksByUser(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	links, err := services.GetLinksByUser(h.DB, c.Params("user_id"), limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getLinksByUser")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"links":  links,
		"count":  len(links),
		"limit":  limit,
		"offset": offset,
	})
}

// GetAllLinks handles GET /api/element-regulations
// @Summary Get all links
// @Tags ElementRegulations
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /element-regulations [get]
func (h *LinkHandler) GetAllLinks(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	links, err := services.GetAllLinks(h.DB, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllLinks")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"links":  links,
		"count":  len(links),
		"limit":  limit,
		"offset": offset,
	})
}

// CheckLinkExists handles GET /api/element-regulations/check-exists/:element_id/:regulation_id
// @Summary Check link existence
// @Tags ElementRegulations
// @Produce json
// @Param element_id path string true "Element ID"
// @Param regulation_id path int true "Regulation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /element-regulations/check-exists/{element_id}/{regulation_id} [get]
func (h *LinkHandler) CheckLinkExists(c *fiber.Ctx) error {
	elementID := c.Params("element_id")
	regulationID, err := c.ParamsInt("regulation_id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid regulation id", fiber.StatusBadRequest, "links.validation.input")
	}

	exists, err := services.LinkExists(h.DB, elementID, int64(regulationID))
	if err != nil {
		return serviceErrorResponse(c, err, "checkLinkExists")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"element_id":    elementID,
		"regulation_id": regulationID,
		"exists":        exists,
	})
}

// DeleteLink handles DELETE /api/element-regulations/:id
// @Summary Delete link
// @Tags ElementRegulations
// @Produce json
// @Param id path string true "Link ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /element-regulations/{id} [delete]
func (h *LinkHandler) DeleteLink(c *fiber.Ctx) error {
	if err := services.DeleteLink(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "deleteLink")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Link deleted successfully",
	})
}

// DeleteLinkByPair handles DELETE /api/element-regulations/element/:element_id/regulation/:regulation_id
// @Summary Delete link by pair
// @Tags ElementRegulations
// @Produce json
// @Param element_id path string true "Element ID"
// @Param regulation_id path int true "Regulation ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /element-regulations/element/{element_id}/regulation/{regulation_id} [delete]
func (h *LinkHandler) DeleteLinkByPair(c *fiber.Ctx) error {
	regulationID, err := c.ParamsInt("regulation_id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid regulation id", fiber.StatusBadRequest, "links.validation.input")
	}

	if err := services.DeleteLinkByPair(h.DB, c.Params("element_id"), int64(regulationID)); err != nil {
		return serviceErrorResponse(c, err, "deleteLinkByPair")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Link deleted successfully",
	})
}

// DeleteElementLinks handles DELETE /api/element-regulations/element/:element_id/all
// @Summary Delete all of an element's links
// @Tags ElementRegulations
// @Produce json
// @Param element_id path string true "Element ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /element-regulations/element/{element_id}/all [delete]
func (h *LinkHandler) DeleteElementLinks(c *fiber.Ctx) error {
	deleted, err := services.DeleteLinksForElement(h.DB, c.Params("element_id"))
	if err != nil {
		return serviceErrorResponse(c, err, "deleteElementLinks")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Links deleted successfully",
		"deleted_count": deleted,
	})
}

// DeleteRegulationLinks handles DELETE /api/element-regulations/regulation/:regulation_id/all
// @Summary Delete all of a regulation's links
// @Tags ElementRegulations
// @Produce json
// @Param regulation_id path int true "Regulation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /element-regulations/regulation/{regulation_id}/all [delete]
func (h *LinkHandler) DeleteRegulationLinks(c *fiber.Ctx) error {
	regulationID, err := c.ParamsInt("regulation_id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid regulation id", fiber.StatusBadRequest, "links.validation.input")
	}

	deleted, err := services.DeleteLinksForRegulation(h.DB, int64(regulationID))
	if err != nil {
		return serviceErrorResponse(c, err, "deleteRegulationLinks")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Links deleted successfully",
		"deleted_count": deleted,
	})
}

// DeleteLinks handles DELETE /api/element-regulations/element/:element_id/multiple
// @Summary Delete many links for one element
// @Description Unlink many regulations from one element; each pair succeeds or fails alone
// @Tags ElementRegulations
// @Accept json
// @Produce json
// @Param element_id path string true "Element ID"
// @Param body body object true "Regulation ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /element-regulations/element/{element_id}/multiple [delete]
func (h *LinkHandler) DeleteLinks(c *fiber.Ctx) error {
	var body struct {
		RegulationIDs types.FlexList[int64] `json:"regulation_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "links.validation.input")
	}
	if len(body.RegulationIDs) == 0 {
		return utils.ErrorResponse(c, "regulation_ids cannot be empty", fiber.StatusBadRequest, "links.validation.input")
	}

	deleted, errs := services.DeleteLinks(h.DB, c.Params("element_id"), body.RegulationIDs.Slice())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":       "Links processed",
		"deleted_count": deleted,
		"errors":        errs,
	})
}

// GetLinkCount handles GET /api/element-regulations/stats/count
// @Summary Total link count
// @Tags ElementRegulations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /element-regulations/stats/count [get]
func (h *LinkHandler) GetLinkCount(c *fiber.Ctx) error {
	total, err := services.CountLinks(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getLinkCount")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"total_links": total})
}

// GetElementLinkCount handles GET /api/element-regulations/stats/element/:element_id/count
// @Summary Regulation count for an element
// @Tags ElementRegulations
// @Produce json
// @Param element_id path string true "Element ID"
// @Success 200 {object} map[string]interface{}
// @Router /element-regulations/stats/element/{element_id}/count [get]
func (h *LinkHandler) GetElementLinkCount(c *fiber.Ctx) error {
	elementID := c.Params("element_id")
	count, err := services.CountLinksForElement(h.DB, elementID)
	if err != nil {
		return serviceErrorResponse(c, err, "getElementLinkCount")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"element_id":       elementID,
		"regulation_count": count,
	})
}

// GetRegulationLinkCount handles GET /api/element-regulations/stats/regulation/:regulation_id/count
// @Summary Element count for a regulation
// @Tags ElementRegulations
// @Produce json
// @Param regulation_id path int true "Regulation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /element-regulations/stats/regulation/{regulation_id}/count [get]
func (h *LinkHandler) GetRegulationLinkCount(c *fiber.Ctx) error {
	regulationID, err := c.ParamsInt("regulation_id")
	if err != nil {
		return utils.ErrorResponse(c, "Invalid regulation id", fiber.StatusBadRequest, "links.validation.input")
	}

	count, err := services.CountLinksForRegulation(h.DB, int64(regulationID))
	if err != nil {
		return serviceErrorResponse(c, err, "getRegulationLinkCount")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"regulation_id": regulationID,
		"element_count": count,
	})
}

// GetMostLinkedRegulations handles GET /api/element-regulations/stats/most-linked-regulations
// @Summary Most linked regulations
// @Tags ElementRegulations
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} map[string]interface{}
// @Router /element-regulations/stats/most-linked-regulations [get]
func (h *LinkHandler) GetMostLinkedRegulations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	top, err := services.MostLinkedRegulations(h.DB, limit)
	if err != nil {
		return serviceErrorResponse(c, err, "getMostLinkedRegulations")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"regulations": top,
		"count":       len(top),
	})
}

// GetMostLinkedElements handles GET /api/element-regulations/stats/most-linked-elements
// @Summary Most linked elements
// @Tags ElementRegulations
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} map[string]interface{}
// @Router /element-regulations/stats/most-linked-elements [get]
func (h *LinkHandler) GetMostLinkedElements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	top, err := services.MostLinkedElements(h.DB, limit)
	if err != nil {
		return serviceErrorResponse(c, err, "getMostLinkedElements")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"elements": top,
		"count":    len(top),
	})
}
