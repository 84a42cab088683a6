package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ViewReaper ferme périodiquement les vues inactives.
type ViewReaper struct {
	logger zerolog.Logger
	viewer *ViewerService

	TickInterval time.Duration
	TTL          time.Duration
}

func NewViewReaper(logger zerolog.Logger, viewer *ViewerService, ttl time.Duration) *ViewReaper {
	return &ViewReaper{
		logger:       logger,
		viewer:       viewer,
		TickInterval: time.Minute,
		TTL:          ttl,
	}
}

func (r *ViewReaper) Run(ctx context.Context) {
	if r.viewer == nil || r.TTL <= 0 {
		r.logger.Info().Msg("view reaper disabled")
		return
	}
	interval := r.TickInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("view reaper stopped")
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *ViewReaper) tick() {
	if n := r.viewer.ExpireIdle(r.TTL); n > 0 {
		r.logger.Debug().Int("expired", n).Msg("idle views released")
	}
}
