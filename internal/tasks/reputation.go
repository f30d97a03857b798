package tasks

import (
	"log/slog"
	"time"

	"github.com/casaflow/casaflow-backend/internal/models"
	"gorm.io/gorm"
)

// StartReputationSweep runs a periodic goroutine that re-derives every
// profile's reputation from its report count. Normal writes keep the two in
// sync; the sweep repairs drift from out-of-band edits.
func StartReputationSweep(db *gorm.DB, interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := SweepReputations(db); err != nil {
					slog.Error("reputation sweep failed", "error", err)
				}
			case <-done:
				return
			}
		}
	}()
}

// SweepReputations saves every profile so the model hook recomputes its
// reputation. Counts are never modified and no notifications are sent.
func SweepReputations(db *gorm.DB) error {
	var profiles []models.Profile
	if err := db.Find(&profiles).Error; err != nil {
		return err
	}

	repaired := 0
	for i := range profiles {
		if profiles[i].Reputation == models.ComputeReputation(profiles[i].ReportCount) {
			continue
		}
		if err := db.Save(&profiles[i]).Error; err != nil {
			return err
		}
		repaired++
	}
	if repaired > 0 {
		slog.Info("reputation sweep completed", "repaired", repaired)
	}
	return nil
}
