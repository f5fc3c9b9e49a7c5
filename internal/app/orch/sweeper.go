package orch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartSweeper evicts finished rooms idle for longer than ttl, checking
// every interval until ctx is done or Stop is called.
func (o *Orchestrator) StartSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		log.Warn().Str("module", "orch").Msg("sweeper disabled")
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	o.stopSweeper = cancel
	o.sweeper.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				o.Sweep(now, ttl)
			}
		}
	})
}

// Sweep runs one eviction pass and returns how many rooms it removed.
func (o *Orchestrator) Sweep(now time.Time, ttl time.Duration) int {
	expired := o.Rooms.Expired(now, ttl)
	for _, room := range expired {
		o.EvictRoom(room)
	}
	if len(expired) > 0 {
		log.Info().Str("module", "orch").Int("evicted", len(expired)).Msg("swept finished rooms")
	}
	return len(expired)
}

func (o *Orchestrator) Stop() {
	if o.stopSweeper != nil {
		o.stopSweeper()
	}
	o.sweeper.Wait()
}
