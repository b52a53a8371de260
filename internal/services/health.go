package services

import (
	"fmt"
	"log"
	"time"

	"github.com/openfra/fieldsync/internal/config"
	"github.com/openfra/fieldsync/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check. Remote being
// unreachable does not make the agent unhealthy; offline operation is the
// normal case for a field device.
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Remote       string            `json:"remote"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck verifies the local store and probes the remote endpoint
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check store connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DatabaseName()
		}
	}

	// Check remote submission endpoint reachability (informational)
	timeout := time.Duration(cfg.ProbeTimeoutMS) * time.Millisecond
	if err := utils.PingRemote(cfg.SyncURL, timeout); err != nil {
		result.Remote = "unreachable"
		result.Details["remote_error"] = err.Error()
	} else {
		result.Remote = "ok"
		result.Details["remote_url"] = cfg.SyncURL
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - local store operational")
	}

	return result
}
