package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StatsSource provides functions to retrieve current counts for gauge
// metrics. Nil functions are skipped.
type StatsSource struct {
	PendingReportCount func(ctx context.Context) (int, error)
	BannedUserCount    func(ctx context.Context) (int, error)
	PendingPhotoCount  func(ctx context.Context) (int, error)
	RemovedContent     func(ctx context.Context) (int, error)
}

// StartCollector launches a goroutine that periodically updates gauge
// metrics. It runs every interval until the context is cancelled.
func StartCollector(ctx context.Context, src StatsSource, interval time.Duration) {
	// Do an initial collection immediately
	collect(ctx, src)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collect(ctx, src)
			}
		}
	}()

	log.Info().Dur("interval", interval).Msg("Metrics collector started")
}

func collect(ctx context.Context, src StatsSource) {
	set := func(gauge interface{ Set(float64) }, count func(ctx context.Context) (int, error)) {
		if count == nil {
			return
		}
		n, err := count(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Metrics collection failed")
			return
		}
		gauge.Set(float64(n))
	}

	set(PendingReports, src.PendingReportCount)
	set(BannedUsers, src.BannedUserCount)
	set(PendingPhotos, src.PendingPhotoCount)
	set(RemovedContent, src.RemovedContent)
}
