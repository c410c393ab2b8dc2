package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/snailsynk/snailsynk-go/internal/logging"
	"github.com/snailsynk/snailsynk-go/internal/metrics"
)

// Poller periodically re-fetches full state for views without reliable push
// delivery. The refresh function must tolerate being a no-op when nothing
// changed.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error
}

// NewPoller creates a poller running refresh every interval.
func NewPoller(interval time.Duration, refresh func(context.Context) error) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{interval: interval, refresh: refresh}
}

// Run blocks until ctx is canceled. Refresh errors are logged and counted,
// never fatal: the next tick tries again.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				logging.Debug("poll refresh failed", zap.Error(err))
				metrics.RecordPollRefresh("error")
			} else {
				metrics.RecordPollRefresh("ok")
			}
		}
	}
}
