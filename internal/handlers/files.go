// files.go
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

// FileHandler handles file metadata routes
type FileHandler struct {
	DB *gorm.DB
}

type fileBody struct {
	Filename  string `json:"filename"`
	ProjectID string `json:"project_id"`
	services.FileInput
}

// CreateFile handles POST /api/files
// @Summary Record file metadata
// @Description Record upload metadata; the bytes live in external storage
// @Tags Files
// @Accept json
// @Produce json
// @Param body body object true "File fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files [post]
func (h *FileHandler) CreateFile(c *fiber.Ctx) error {
	var body fileBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "files.validation.input")
	}

	file, err := services.CreateFile(h.DB, body.ProjectID, body.Filename, body.FileInput)
	if err != nil {
		return serviceErrorResponse(c, err, "createFile")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "File recorded successfully",
		"file":    file,
	})
}

// UploadFile handles POST /api/files/upload
// @Summary Upload a file
// @Description Accept a multipart upload and record its metadata; the bytes are handed to external storage
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param project_id formData string true "Project ID"
// @Param boq_id formData string false "BOQ ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/upload [post]
func (h *FileHandler) UploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, "Missing file part", fiber.StatusBadRequest, "files.validation.upload")
	}

	in := services.FileInput{}
	size := fileHeader.Size
	in.SizeBytes = &size
	if mime := fileHeader.Header.Get("Content-Type"); mime != "" {
		in.MimeType = &mime
	}
	if boqID := c.FormValue("boq_id"); boqID != "" {
		in.BoqID = &boqID
	}

	file, err := services.CreateFile(h.DB, c.FormValue("project_id"), fileHeader.Filename, in)
	if err != nil {
		return serviceErrorResponse(c, err, "uploadFile")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "File uploaded successfully",
		"file":    file,
	})
}

// GetFile handles GET /api/files/:id
// @Summary Get file record
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id} [get]
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	file, err := services.GetFileByID(h.DB, c.Params("id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getFile")
	}
	return c.Status(fiber.StatusOK).JSON(file)
}

// GetFilesByProject handles GET /api/files/project/:project_id
// @Summary Get a project's file records
// @Tags Files
// @Produce json
// @Param project_id path string true "Project ID"
// @Param include_inactive query bool false "Include inactive records"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /files/project/{project_id} [get]
func (h *FileHandler) GetFilesByProject(c *fiber.Ctx) error {
	projectID := c.Params("project_id")
	includeInactive := c.QueryBool("include_inactive", false)
	limit, offset := parsePagination(c)

	files, err := services.GetFilesByProject(h.DB, projectID, includeInactive, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getFilesByProject")
	}
	total, err := services.CountFilesByProject(h.DB, projectID)
	if err != nil {
		return serviceErrorResponse(c, err, "getFilesByProject")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"project_id":  projectID,
		"files":       files,
		"count":       len(files),
		"limit":       limit,
		"offset":      offset,
		"total_files": total,
	})
}

// GetFilesByType handles GET /api/files/type/:file_type
// @Summary Get file records by type
// @Tags Files
// @Produce json
// @Param file_type path string true "File type (pdf or onlv)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /files/type/{file_type} [get]
func (h *FileHandler) GetFilesByType(c *fiber.Ctx) error {
	fileType := c.Params("file_type")
	limit, offset := parsePagination(c)

	files, err := services.GetFilesByType(h.DB, fileType, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getFilesByType")
	}
	total, err := services.CountFilesByType(h.DB, fileType)
	if err != nil {
		return serviceErrorResponse(c, err, "getFilesByType")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"file_type":   fileType,
		"files":       files,
		"count":       len(files),
		"limit":       limit,
		"offset":      offset,
		"total_files": total,
	})
}

// SearchFiles handles GET /api/files/search/:search_term
// @Summary Search file records by name
// @Tags Files
// @Produce json
// @Param search_term path string true "Search term"
// @Param project_id query string false "Scope to project"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /files/search/{search_term} [get]
func (h *FileHandler) SearchFiles(c *fiber.Ctx) error {
	term := c.Params("search_term")
	projectID := c.Query("project_id")
	limit, offset := parsePagination(c)

	files, err := services.SearchFilesByName(h.DB, term, projectID, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "searchFiles")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"files":       files,
		"count":       len(files),
		"search_term": term,
		"limit":       limit,
		"offset":      offset,
	})
}

// GetAllFiles handles GET /api/files
// @Summary Get all file records
// @Tags Files
// @Produce json
// @Param include_inactive query bool false "Include inactive records"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /files [get]
func (h *FileHandler) GetAllFiles(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)
	limit, offset := parsePagination(c)

	files, err := services.GetAllFiles(h.DB, includeInactive, limit, offset)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllFiles")
	}
	total, err := services.CountFiles(h.DB, includeInactive)
	if err != nil {
		return serviceErrorResponse(c, err, "getAllFiles")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"files":       files,
		"count":       len(files),
		"limit":       limit,
		"offset":      offset,
		"total_files": total,
	})
}

// UpdateFile handles PUT /api/files/:id
// @Summary Update file metadata
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File ID"
// @Param body body object true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id} [put]
func (h *FileHandler) UpdateFile(c *fiber.Ctx) error {
	var body services.FileInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "files.validation.input")
	}

	file, err := services.UpdateFile(h.DB, c.Params("id"), body)
	if err != nil {
		return serviceErrorResponse(c, err, "updateFile")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "File updated successfully",
		"file":    file,
	})
}

// DeactivateFile handles POST /api/files/:id/deactivate
// @Summary Deactivate file record
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id}/deactivate [post]
func (h *FileHandler) DeactivateFile(c *fiber.Ctx) error {
	if err := services.DeactivateFile(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "deactivateFile")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "File deactivated successfully",
	})
}

// ReactivateFile handles POST /api/files/:id/reactivate
// @Summary Reactivate file record
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id}/reactivate [post]
func (h *FileHandler) ReactivateFile(c *fiber.Ctx) error {
	if err := services.ReactivateFile(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "reactivateFile")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "File reactivated successfully",
	})
}

// BulkDeactivateFiles handles POST /api/files/bulk-deactivate
// @Summary Bulk deactivate file records
// @Description Soft-delete many records; each id succeeds or fails on its own
// @Tags Files
// @Accept json
// @Produce json
// @Param body body object true "File ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /files/bulk-deactivate [post]
func (h *FileHandler) BulkDeactivateFiles(c *fiber.Ctx) error {
	var body struct {
		FileIDs types.FlexList[string] `json:"file_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "files.validation.input")
	}
	if len(body.FileIDs) == 0 {
		return utils.ErrorResponse(c, "file_ids cannot be empty", fiber.StatusBadRequest, "files.validation.input")
	}

	deactivated, errs := services.BulkDeactivateFiles(h.DB, body.FileIDs.Slice())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":           "Files processed",
		"deactivated_count": deactivated,
		"errors":            errs,
	})
}

// DeleteFile handles DELETE /api/files/:id
// @Summary Delete file record
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /files/{id} [delete]
func (h *FileHandler) DeleteFile(c *fiber.Ctx) error {
	if err := services.DeleteFile(h.DB, c.Params("id")); err != nil {
		return serviceErrorResponse(c, err, "deleteFile")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "File deleted successfully",
	})
}

// GetFileStatistics handles GET /api/files/stats
// @Summary File statistics
// @Tags Files
// @Produce json
// @Param project_id query string false "Scope to project"
// @Success 200 {object} map[string]interface{}
// @Router /files/stats [get]
func (h *FileHandler) GetFileStatistics(c *fiber.Ctx) error {
	stats, err := services.GetFileStatistics(h.DB, c.Query("project_id"))
	if err != nil {
		return serviceErrorResponse(c, err, "getFileStatistics")
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetFileTypes handles GET /api/files/stats/types
// @Summary Distinct file types
// @Tags Files
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /files/stats/types [get]
func (h *FileHandler) GetFileTypes(c *fiber.Ctx) error {
	fileTypes, err := services.UniqueFileTypes(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "getFileTypes")
	}
	if fileTypes == nil {
		fileTypes = []string{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"file_types": fileTypes,
		"count":      len(fileTypes),
	})
}
