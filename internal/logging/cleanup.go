package logging

import (
	"log/slog"
	"time"

	"github.com/casaflow/casaflow-backend/internal/models"
	"gorm.io/gorm"
)

const logRetentionDays = 30

// StartCleanup runs a daily goroutine that prunes system_logs past the
// retention window.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pruneOldLogs(db)
			case <-done:
				return
			}
		}
	}()
}

func pruneOldLogs(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -logRetentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
}
