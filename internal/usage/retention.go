package usage

import (
	"context"
	"log/slog"
	"time"
)

// PruneInterval is how often KeepPruned sweeps the ledger.
const PruneInterval = time.Hour

// PruneOlderThan deletes records created more than keep before now.
func (s *Store) PruneOlderThan(ctx context.Context, keep time.Duration, now time.Time) (int64, error) {
	return s.DeleteBefore(ctx, now.Add(-keep))
}

// KeepPruned sweeps records older than keep once immediately and then every
// interval until ctx is done. A non-positive keep disables pruning.
func (s *Store) KeepPruned(ctx context.Context, keep, interval time.Duration, logger *slog.Logger) {
	if keep <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	sweep := func() {
		n, err := s.PruneOlderThan(ctx, keep, time.Now())
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("pruning usage ledger failed", slog.Any("error", err))
			}
			return
		}
		if n > 0 {
			logger.Info("pruned usage ledger", slog.Int64("deleted", n), slog.Duration("retention", keep))
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
