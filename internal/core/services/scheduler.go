package services

import (
	"context"
	"time"

	"github.com/custodia-labs/risklists/internal/core/ports/driving"
	"github.com/custodia-labs/risklists/internal/logger"
)

// DefaultSyncInterval matches the hourly SharePoint timer.
const DefaultSyncInterval = time.Hour

// Scheduler uploads every configured list on a fixed interval.
type Scheduler struct {
	lists    driving.ListService
	interval time.Duration
}

// NewScheduler creates a scheduler. A zero interval disables it.
func NewScheduler(lists driving.ListService, interval time.Duration) *Scheduler {
	return &Scheduler{lists: lists, interval: interval}
}

// Enabled reports whether Run does anything.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Run syncs once per interval until ctx is cancelled. The first sync runs
// after one interval.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	logger.Info("sync scheduler started, interval %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sync of every list and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	started := time.Now()
	results, err := s.lists.SyncAll(ctx)
	for _, r := range results {
		logger.Info("sync run %s: lists %v, blobs %d", r.RunID, r.Lists, len(r.Blobs))
	}
	if err != nil {
		logger.Error("sync finished with errors after %s: %v", time.Since(started).Round(time.Millisecond), err)
		return
	}
	logger.Info("sync finished after %s", time.Since(started).Round(time.Millisecond))
}
