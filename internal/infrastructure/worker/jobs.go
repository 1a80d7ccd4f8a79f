package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionExpirer removes idle claim sessions
type SessionExpirer interface {
	ExpireIdle(ctx context.Context, cutoff time.Time) int
}

// ArchivePruner removes old archived documents
type ArchivePruner interface {
	Prune(ctx context.Context, dir string, cutoff time.Time) (int, error)
}

// SessionSweepJob expires sessions idle for longer than ttl
func SessionSweepJob(spec string, ttl time.Duration, expirer SessionExpirer, now func() time.Time, logger *zap.Logger) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name: "session-sweep",
		Spec: spec,
		Run: func(ctx context.Context) error {
			expired := expirer.ExpireIdle(ctx, now().Add(-ttl))
			if expired > 0 && logger != nil {
				logger.Info("Idle claim sessions expired", zap.Int("count", expired), zap.Duration("ttl", ttl))
			}
			return nil
		},
	}
}

// ArchivePruneJob deletes archived exports older than retention
func ArchivePruneJob(spec string, retention time.Duration, pruner ArchivePruner, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name: "archive-prune",
		Spec: spec,
		Run: func(ctx context.Context) error {
			_, err := pruner.Prune(ctx, ".", now().Add(-retention))
			return err
		},
	}
}
