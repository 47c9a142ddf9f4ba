package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ryanwills/accounts-backend/internal/app/repository"
	"github.com/ryanwills/accounts-backend/pkg/logger"
)

// ResetCodeScheduler periodically clears expired password-reset codes.
// Hygiene only: every reset check re-validates expiry, so nothing depends
// on this sweep running.
type ResetCodeScheduler struct {
	cron     *cron.Cron
	userRepo repository.UserRepository
}

func NewResetCodeScheduler(userRepo repository.UserRepository) *ResetCodeScheduler {
	return &ResetCodeScheduler{
		cron:     cron.New(),
		userRepo: userRepo,
	}
}

// Start schedules an hourly sweep of expired reset codes.
func (s *ResetCodeScheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		cleared, err := s.userRepo.ClearExpiredResetCodes(time.Now())
		if err != nil {
			logger.Error("Failed to clear expired reset codes", err)
			return
		}
		if cleared > 0 {
			logger.Info("Cleared expired reset codes", map[string]interface{}{
				"count": cleared,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to schedule reset code cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Reset code cleanup scheduler started (hourly)")
	return nil
}

// Stop stops the scheduler.
func (s *ResetCodeScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Reset code cleanup scheduler stopped")
}
