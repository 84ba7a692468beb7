package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper is a store that can purge its own expired entries
type Sweeper interface {
	Sweep() int
}

// SessionSweeper periodically purges abandoned intake sessions from an
// in-process store. Redis expires keys on its own and needs no sweeper.
type SessionSweeper struct {
	store  Sweeper
	logger *zap.SugaredLogger
}

// NewSessionSweeper creates a new background session sweeper
func NewSessionSweeper(store Sweeper, logger *zap.SugaredLogger) *SessionSweeper {
	return &SessionSweeper{store: store, logger: logger}
}

// Start runs the sweep loop until ctx is cancelled
func (w *SessionSweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SessionSweeper) sweep() {
	if n := w.store.Sweep(); n > 0 {
		w.logger.Debugw("Expired intake sessions removed", "count", n)
	}
}
