package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
)

// Project status values.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// ProjectInput carries the writable project fields for create and update.
type ProjectInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	Nr            *string `json:"nr"`
	LvBezeichnung *string `json:"lv_bezeichnung"`
	Auftraggeber  *string `json:"auftraggeber"`
	Dateiname     *string `json:"dateiname"`
}

func validProjectStatus(status string) bool {
	switch status {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// CreateProject inserts a new project. Status defaults to active.
func CreateProject(db *gorm.DB, userID, name string, in ProjectInput) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name cannot be empty", ErrInvalidInput)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id cannot be empty", ErrInvalidInput)
	}

	status := ProjectStatusActive
	if in.Status != nil && *in.Status != "" {
		if !validProjectStatus(*in.Status) {
			return nil, fmt.Errorf("%w: invalid project status %q", ErrInvalidInput, *in.Status)
		}
		status = *in.Status
	}

	project := models.Project{
		Name:          name,
		UserID:        userID,
		Description:   trimPtr(in.Description),
		Status:        status,
		Nr:            trimPtr(in.Nr),
		LvBezeichnung: trimPtr(in.LvBezeichnung),
		Auftraggeber:  trimPtr(in.Auftraggeber),
		Dateiname:     trimPtr(in.Dateiname),
	}
	if err := db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProjectByID retrieves one project.
func GetProjectByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetProjectsByUser retrieves one page of a user's projects.
func GetProjectsByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("user_id = ?", userID).Limit(limit).Offset(offset).Find(&projects).Error
	return projects, err
}

// GetProjectsByStatus retrieves one page of projects in one status.
func GetProjectsByStatus(db *gorm.DB, status string, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("status = ?", status).Limit(limit).Offset(offset).Find(&projects).Error
	return projects, err
}

// GetProjectsByUserAndStatus retrieves one page of a user's projects in one status.
func GetProjectsByUserAndStatus(db *gorm.DB, userID, status string, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("user_id = ? AND status = ?", userID, status).
		Limit(limit).Offset(offset).Find(&projects).Error
	return projects, err
}

// SearchProjectsByName searches project names case-insensitively, optionally
// scoped to one user.
func SearchProjectsByName(db *gorm.DB, term, userID string, limit, offset int) ([]models.Project, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", ErrInvalidInput)
	}
	q := db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var projects []models.Project
	err := q.Limit(limit).Offset(offset).Find(&projects).Error
	return projects, err
}

// GetAllProjects retrieves one page of projects.
func GetAllProjects(db *gorm.DB, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	err := db.Limit(limit).Offset(offset).Find(&projects).Error
	return projects, err
}

// UpdateProject applies a partial update and returns the fresh row.
func UpdateProject(db *gorm.DB, id string, in ProjectInput) (*models.Project, error) {
	update := map[string]interface{}{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: project name cannot be empty", ErrInvalidInput)
		}
		update["name"] = name
	}
	if in.Description != nil {
		update["description"] = trimPtr(in.Description)
	}
	if in.Status != nil {
		if !validProjectStatus(*in.Status) {
			return nil, fmt.Errorf("%w: invalid project status %q", ErrInvalidInput, *in.Status)
		}
		update["status"] = *in.Status
	}
	if in.Nr != nil {
		update["nr"] = trimPtr(in.Nr)
	}
	if in.LvBezeichnung != nil {
		update["lv_bezeichnung"] = trimPtr(in.LvBezeichnung)
	}
	if in.Auftraggeber != nil {
		update["auftraggeber"] = trimPtr(in.Auftraggeber)
	}
	if in.Dateiname != nil {
		update["dateiname"] = trimPtr(in.Dateiname)
	}

	if len(update) == 0 {
		return nil, fmt.Errorf("%w: no update data provided", ErrInvalidInput)
	}

	res := db.Model(&models.Project{}).Where("id = ?", id).Updates(update)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetProjectByID(db, id)
}

// DeleteProject removes a project together with its BOQs and file records.
func DeleteProject(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Boq{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteProjectsByUser removes all of a user's projects and their dependents,
// returning how many projects were deleted.
func DeleteProjectsByUser(db *gorm.DB, userID string) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Project{}).
			Where("user_id = ?", userID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("project_id IN ?", ids).Delete(&models.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id IN ?", ids).Delete(&models.Boq{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Project{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// ProjectExists reports whether a project id exists.
func ProjectExists(db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.Model(&models.Project{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// CountProjects returns the total project count.
func CountProjects(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&models.Project{}).Count(&n).Error
	return n, err
}

// CountProjectsByUser returns a user's project count.
func CountProjectsByUser(db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.Model(&models.Project{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// CountProjectsByStatus returns the project count in one status.
func CountProjectsByStatus(db *gorm.DB, status string) (int64, error) {
	var n int64
	err := db.Model(&models.Project{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// ProjectStatistics summarizes projects per status plus totals.
type ProjectStatistics struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Archived  int64 `json:"archived"`
}

// GetProjectStatistics aggregates project counts, optionally scoped to a user.
func GetProjectStatistics(db *gorm.DB, userID string) (*ProjectStatistics, error) {
	type row struct {
		Status string
		N      int64
	}
	q := db.Model(&models.Project{}).Select("status, COUNT(*) AS n").Group("status")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &ProjectStatistics{}
	for _, r := range rows {
		stats.Total += r.N
		switch r.Status {
		case ProjectStatusActive:
			stats.Active = r.N
		case ProjectStatusCompleted:
			stats.Completed = r.N
		case ProjectStatusArchived:
			stats.Archived = r.N
		}
	}
	return stats, nil
}
