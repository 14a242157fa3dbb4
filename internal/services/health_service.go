package services

import (
	"fmt"

	"github.com/localnerve/elementdb/internal/config"
	"github.com/localnerve/elementdb/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	API          string            `json:"api,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck verifies the database connection and, when cfg.APIURL is set,
// TCP reachability of the API endpoint. A nil logger is replaced with a nop.
func HealthCheck(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) HealthCheckResult {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Errorw("health check failed", "check", "database_connection", "error", err)
		return result
	}

	if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Errorw("health check failed", "check", "database_ping", "error", err)
		return result
	}

	result.Database = "ok"
	result.Details["database_type"] = cfg.DBType
	result.Details["database_name"] = cfg.DBDatabase

	if cfg.APIURL != "" {
		if err := utils.PingAPI(cfg.APIURL); err != nil {
			result.Status = "unhealthy"
			result.API = "unreachable"
			result.Details["api_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("API ping failed: %v", err)
			log.Errorw("health check failed", "check", "api_ping", "url", cfg.APIURL, "error", err)
			return result
		}
		result.API = "ok"
		result.Details["api_url"] = cfg.APIURL
	}

	log.Infow("health check passed", "database", result.Database, "api", result.API)
	return result
}
