// services/scheduler.go
package services

import (
	"log"
	"time"

	"starzup-platform/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartLifecycleScheduler closes open tournaments once their scheduled
// start has passed, so late registrations stop racing the bracket.
func (s *TournamentService) StartLifecycleScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			result := s.DB.Model(&models.Tournament{}).
				Where("status = ? AND start_time <= ?", models.TournamentOpen, now).
				Updates(map[string]interface{}{
					"status":  models.TournamentClosed,
					"version": gorm.Expr("version + 1"),
				})
			if result.Error != nil {
				log.Printf("[Scheduler] DB error: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				log.Printf("✅ Auto-closed %d started tournament(s)", result.RowsAffected)
			}
		}),
	)
}
