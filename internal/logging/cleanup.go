package logging

import (
	"log/slog"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs older
// than 30 days. Resolved preview-cancel failures age out on the same
// schedule; unresolved ones are kept until an operator marks them.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -30)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("log cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("log cleanup completed", "deleted", result.RowsAffected)
				}
				db.Where("resolved_at IS NOT NULL AND resolved_at < ?", cutoff).
					Delete(&models.PreviewCancelFailure{})
			case <-done:
				return
			}
		}
	}()
}
