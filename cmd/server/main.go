// main.go
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

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/elementdb/internal/config"
	"github.com/localnerve/elementdb/internal/database"
	"github.com/localnerve/elementdb/internal/handlers"
	"github.com/localnerve/elementdb/internal/logger"
	"github.com/localnerve/elementdb/internal/middleware"
	"github.com/localnerve/elementdb/internal/types"

	_ "github.com/localnerve/elementdb/docs/api" // Swagger docs
)

// apiVersion stamps responses via the version middleware; keep in sync with
// the @version annotation below.
const apiVersion = "1.0.0"

// @title ElementDB API
// @version 1.0.0
// @description Go Fiber data service for construction elements, categories, and regulations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/elementdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", "error", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(middleware.Version(apiVersion))

	// Prometheus metrics
	prometheus := fiberprometheus.New("elementdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	elementHandler := &handlers.ElementHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	linkHandler := &handlers.LinkHandler{DB: db}
	regulationHandler := &handlers.RegulationHandler{DB: db}
	projectHandler := &handlers.ProjectHandler{DB: db}
	boqHandler := &handlers.BoqHandler{DB: db}
	fileHandler := &handlers.FileHandler{DB: db}
	utilsHandler := &handlers.UtilsHandler{DB: db}

	app.Get("/health", utilsHandler.Health)

	// API routes under /api
	api := app.Group("/api")

	// Element routes
	elements := api.Group("/elements")
	elements.Post("/", elementHandler.CreateElement)
	elements.Get("/", elementHandler.GetAllElements)
	elements.Get("/stats/count", elementHandler.GetElementCount)
	elements.Get("/stats/count/user/:user_id", elementHandler.GetElementCountByUser)
	elements.Get("/stats/count/type/:element_type", elementHandler.GetElementCountByType)
	elements.Get("/stats/types", elementHandler.GetElementTypes)
	elements.Get("/check-exists/:id", elementHandler.CheckElementExists)
	elements.Get("/search/:search_term", elementHandler.SearchElements)
	elements.Get("/user/:user_id/type/:element_type", elementHandler.GetElementsByUserAndType)
	elements.Get("/user/:user_id", elementHandler.GetElementsByUser)
	elements.Delete("/user/:user_id", elementHandler.DeleteElementsByUser)
	elements.Get("/type/:element_type", elementHandler.GetElementsByType)
	elements.Get("/category/:category_id", elementHandler.GetElementsByCategory)
	elements.Get("/:id", elementHandler.GetElement)
	elements.Put("/:id", elementHandler.UpdateElement)
	elements.Delete("/:id", elementHandler.DeleteElement)

	// Category routes
	categories := api.Group("/categories")
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Get("/", categoryHandler.GetAllCategories)
	categories.Get("/stats/count", categoryHandler.GetCategoryCount)
	categories.Get("/stats/count/user/:user_id", categoryHandler.GetCategoryCountByUser)
	categories.Get("/check-name/:name", categoryHandler.CheckCategoryName)
	categories.Get("/name/:name", categoryHandler.GetCategoryByName)
	categories.Get("/user/:user_id", categoryHandler.GetCategoriesByUser)
	categories.Get("/:id/elements/count", categoryHandler.GetCategoryElementCount)
	categories.Get("/:id/elements", categoryHandler.GetCategoryElements)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Put("/:id", categoryHandler.UpdateCategory)
	categories.Delete("/:id", categoryHandler.DeleteCategory)

	// Element-regulation link routes
	links := api.Group("/element-regulations")
	links.Post("/", linkHandler.CreateLink)
	links.Post("/multiple", linkHandler.CreateLinks)
	links.Post("/create-element-with-regulations", linkHandler.CreateElementWithRegulations)
	links.Get("/", linkHandler.GetAllLinks)
	links.Get("/stats/count", linkHandler.GetLinkCount)
	links.Get("/stats/most-linked-regulations", linkHandler.GetMostLinkedRegulations)
	links.Get("/stats/most-linked-elements", linkHandler.GetMostLinkedElements)
	links.Get("/stats/element/:element_id/count", linkHandler.GetElementLinkCount)
	links.Get("/stats/regulation/:regulation_id/count", linkHandler.GetRegulationLinkCount)
	links.Get("/check-exists/:element_id/:regulation_id", linkHandler.CheckLinkExists)
	links.Get("/element/:element_id/regulations", linkHandler.GetElementRegulations)
	links.Get("/regulation/:regulation_id/elements", linkHandler.GetRegulationElements)
	links.Get("/user/:user_id", linkHandler.GetLinksByUser)
	links.Delete("/element/:element_id/regulation/:regulation_id", linkHandler.DeleteLinkByPair)
	links.Delete("/element/:element_id/all", linkHandler.DeleteElementLinks)
	links.Delete("/element/:element_id/multiple", linkHandler.DeleteLinks)
	links.Delete("/regulation/:regulation_id/all", linkHandler.DeleteRegulationLinks)
	links.Get("/:id", linkHandler.GetLink)
	links.Delete("/:id", linkHandler.DeleteLink)

	// Regulation routes
	regulations := api.Group("/regulations")
	regulations.Get("/", regulationHandler.GetAllRegulations)
	regulations.Post("/search", regulationHandler.SearchRegulations)
	regulations.Get("/by-type/:entity_type", regulationHandler.GetRegulationsByType)
	regulations.Get("/by-number/:regulation_nr", regulationHandler.GetRegulationByNumber)
	regulations.Get("/search-unified/:query", regulationHandler.SearchUnified)
	regulations.Get("/:id", regulationHandler.GetRegulation)

	// Project routes
	projects := api.Group("/projects")
	projects.Post("/", projectHandler.CreateProject)
	projects.Get("/", projectHandler.GetAllProjects)
	projects.Get("/stats", projectHandler.GetProjectStatistics)
	projects.Get("/check-exists/:id", projectHandler.CheckProjectExists)
	projects.Get("/search/:search_term", projectHandler.SearchProjects)
	projects.Get("/status/:status", projectHandler.GetProjectsByStatus)
	projects.Get("/user/:user_id", projectHandler.GetProjectsByUser)
	projects.Delete("/user/:user_id", projectHandler.DeleteProjectsByUser)
	projects.Get("/:id", projectHandler.GetProject)
	projects.Put("/:id", projectHandler.UpdateProject)
	projects.Delete("/:id", projectHandler.DeleteProject)

	// BOQ routes
	boqs := api.Group("/boqs")
	boqs.Post("/", boqHandler.CreateBoq)
	boqs.Get("/", boqHandler.GetAllBoqs)
	boqs.Get("/stats/count", boqHandler.GetBoqCount)
	boqs.Get("/check-exists/:id", boqHandler.CheckBoqExists)
	boqs.Get("/search/:search_term", boqHandler.SearchBoqs)
	boqs.Get("/project/:project_id", boqHandler.GetBoqsByProject)
	boqs.Delete("/project/:project_id", boqHandler.DeleteBoqsByProject)
	boqs.Get("/:id/files", boqHandler.GetBoqFiles)
	boqs.Get("/:id", boqHandler.GetBoq)
	boqs.Put("/:id", boqHandler.UpdateBoq)
	boqs.Delete("/:id", boqHandler.DeleteBoq)

	// File metadata routes
	files := api.Group("/files")
	files.Post("/", fileHandler.CreateFile)
	files.Post("/upload", fileHandler.UploadFile)
	files.Post("/bulk-deactivate", fileHandler.BulkDeactivateFiles)
	files.Get("/", fileHandler.GetAllFiles)
	files.Get("/stats/types", fileHandler.GetFileTypes)
	files.Get("/stats", fileHandler.GetFileStatistics)
	files.Get("/search/:search_term", fileHandler.SearchFiles)
	files.Get("/project/:project_id", fileHandler.GetFilesByProject)
	files.Get("/type/:file_type", fileHandler.GetFilesByType)
	files.Post("/:id/deactivate", fileHandler.DeactivateFile)
	files.Post("/:id/reactivate", fileHandler.ReactivateFile)
	files.Get("/:id", fileHandler.GetFile)
	files.Put("/:id", fileHandler.UpdateFile)
	files.Delete("/:id", fileHandler.DeleteFile)

	// Utility routes
	api.Get("/utils/onlv-empty-json", utilsHandler.GetOnlvEmptyJSON)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return &types.CustomError{
			Code:    fiber.StatusNotFound,
			Message: "[404] Resource Not Found",
			Type:    "router",
		}
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zlog.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	// Start server
	zlog.Info("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", "error", err)
	}

	zlog.Info("server stopped")
}
