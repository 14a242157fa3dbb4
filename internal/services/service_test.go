package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/elementdb/internal/models"
	"github.com/localnerve/elementdb/internal/services"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Element{},
		&models.Category{},
		&models.Regulation{},
		&models.ElementRegulation{},
		&models.Project{},
		&models.Boq{},
		&models.File{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func strPtr(s string) *string {
	return &s
}

// seedElement inserts an element directly, bypassing service validation.
func seedElement(t *testing.T, db *gorm.DB, name, elementType, userID string) *models.Element {
	t.Helper()

	element := models.Element{Name: name, Type: elementType, UserID: userID}
	if err := db.Create(&element).Error; err != nil {
		t.Fatalf("Failed to seed element %q: %v", name, err)
	}
	return &element
}

// seedRegulation inserts a regulation row with the given tariff number parts.
func seedRegulation(t *testing.T, db *gorm.DB, entityType, fullNr, text string) *models.Regulation {
	t.Helper()

	regulation := models.Regulation{
		EntityType:     entityType,
		FullNr:         strPtr(fullNr),
		SearchableText: text,
	}
	if err := db.Create(&regulation).Error; err != nil {
		t.Fatalf("Failed to seed regulation %q: %v", fullNr, err)
	}
	return &regulation
}

// seedProject inserts a project directly.
func seedProject(t *testing.T, db *gorm.DB, userID, name string) *models.Project {
	t.Helper()

	project, err := services.CreateProject(db, userID, name, services.ProjectInput{})
	if err != nil {
		t.Fatalf("Failed to seed project %q: %v", name, err)
	}
	return project
}
