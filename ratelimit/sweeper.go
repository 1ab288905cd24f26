package ratelimit

import (
	"chat-relay/clock"
	"chat-relay/contract"
	"context"
	"log/slog"
)

var _ contract.Worker = (*SweepWorker)(nil)

// SweepWorker runs Limiter.Sweep once per window so memory stays bounded
// by the identities active in the last window.
type SweepWorker struct {
	limiter *Limiter
	clock   clock.Clock
	log     *slog.Logger
}

func NewSweepWorker(limiter *Limiter, clock clock.Clock, log *slog.Logger) *SweepWorker {
	return &SweepWorker{limiter: limiter, clock: clock, log: log}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.limiter.Window())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping rate limit sweep")
			return nil
		case <-ticker.C:
			if removed := w.limiter.Sweep(); removed > 0 {
				w.log.Debug("Rate limit windows swept", "removed", removed, "tracked", w.limiter.Tracked())
			}
		}
	}
}
