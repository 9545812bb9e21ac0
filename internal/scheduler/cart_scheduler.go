package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rsharma/bazario-backend/config"
	"github.com/rsharma/bazario-backend/internal/app/service"
	"github.com/rsharma/bazario-backend/pkg/logger"
)

// CartScheduler periodically marks idle active carts as abandoned.
type CartScheduler struct {
	cron        *cron.Cron
	cartService service.CartService
	cfg         *config.CartConfig
}

func NewCartScheduler(cartService service.CartService, cfg *config.CartConfig) *CartScheduler {
	return &CartScheduler{
		cron:        cron.New(),
		cartService: cartService,
		cfg:         cfg,
	}
}

func (s *CartScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
		cutoff := time.Now().Add(-s.cfg.AbandonAfter)
		logger.Info("Starting abandoned cart sweep", map[string]interface{}{
			"cutoff": cutoff,
		})

		count, err := s.cartService.SweepAbandoned(cutoff)
		if err != nil {
			logger.Error("Abandoned cart sweep failed", err)
			return
		}

		logger.Info("Abandoned cart sweep finished", map[string]interface{}{
			"abandoned": count,
		})
	})
	if err != nil {
		logger.Error("Failed to schedule abandoned cart sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart scheduler started", map[string]interface{}{
		"schedule":      s.cfg.SweepSchedule,
		"abandon_after": s.cfg.AbandonAfter.String(),
	})

	return nil
}

func (s *CartScheduler) Stop() {
	logger.Info("Stopping cart scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart scheduler stopped", nil)
}
