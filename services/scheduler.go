// services/scheduler.go
package services

import (
	"log"
	"time"

	"playlight-backend/models"

	"github.com/go-co-op/gocron/v2"
)

const statisticsRetention = 6 * 30 * 24 * time.Hour // ~6 months

// StartCleanupScheduler runs the hourly maintenance sweeps for the life of
// the process. Both sweeps are idempotent and log-and-continue on error.
func (s *PlatformService) StartCleanupScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.PurgeOldStatistics(); err != nil {
				log.Printf("[Cleanup] statistics purge failed: %v", err)
			}
			if err := s.ClearExpiredFeatures(); err != nil {
				log.Printf("[Cleanup] feature expiry sweep failed: %v", err)
			}
		}),
	)
}

// PurgeOldStatistics deletes statistics rows past the retention window.
func (s *PlatformService) PurgeOldStatistics() error {
	cutoff := utcMidnight(s.Now().Add(-statisticsRetention))
	res := s.DB.Where("date < ?", cutoff).Delete(&models.Statistic{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 [Cleanup] purged %d statistics rows older than %s", res.RowsAffected, cutoff.Format("2006-01-02"))
	}
	return nil
}

// ClearExpiredFeatures drops featured-game cross-references whose expiry
// has passed.
func (s *PlatformService) ClearExpiredFeatures() error {
	res := s.DB.Model(&models.Game{}).
		Where("feature_expires_at IS NOT NULL AND feature_expires_at <= ?", s.Now()).
		Updates(map[string]interface{}{"featured_game_id": nil, "feature_expires_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🧹 [Cleanup] cleared %d expired game features", res.RowsAffected)
	}
	return nil
}
