package scheduler

import (
	"time"

	"accounts-backend/internal/repository"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

var scheduler *gocron.Scheduler

// Initialize creates and starts the scheduler. Expired refresh-token rows
// (including blacklisted ones past their expiry) are garbage-collected out
// of band; the blacklist flag stays authoritative for live rows.
func Initialize(tokenRepo *repository.TokenRepository) {
	scheduler = gocron.NewScheduler(time.Local)

	_, err := scheduler.Every(1).Hour().Do(func() {
		removed, err := tokenRepo.DeleteExpired(time.Now())
		if err != nil {
			log.Error().Err(err).Msg("Refresh token cleanup failed")
			return
		}
		if removed > 0 {
			log.Info().Int64("removed", removed).Msg("Cleaned up expired refresh tokens")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule refresh token cleanup")
	}

	scheduler.StartAsync()
}

// Stop gracefully shuts down the scheduler
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}
