package artifacts

import (
	"context"
	"time"

	immediateticker "kokorotts/pkg/immediate_ticker"
)

// RunReclaimer calls ReclaimExpired right away and then every interval until ctx is done.
func (m *Manager) RunReclaimer(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReclaimInterval
	}

	ticker := immediateticker.New(interval)
	defer ticker.Stop()

	m.logger.Info("reclaimer started", "interval", interval, "ttl", m.ttl)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("reclaimer stopped")
			return
		case <-ticker.C:
			start := time.Now()

			n := m.ReclaimExpired(ctx, m.now(), m.ttl)

			metrics.ReclaimPasses.Inc()
			m.logger.Debug("reclaim pass finished", "reclaimed", n, "tracked", m.Len(), "took", time.Since(start))
		}
	}
}
