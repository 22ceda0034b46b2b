package session

import (
	"context"
	"log/slog"
	"time"
)

// Syncer periodically re-applies server attendance truth onto a Manager.
// There is no transaction between local state and the server; this loop is
// what eventually reconciles the two.
type Syncer struct {
	Manager  *Manager
	Interval time.Duration
	Timeout  time.Duration

	// Fetch returns today's totals, or nil when the server has no record yet
	Fetch func(ctx context.Context) (*ServerTotals, error)
}

// Run fetches and merges until stop is closed. The first sync happens
// immediately so a restarted client converges without waiting an interval.
func (s *Syncer) Run(stop <-chan struct{}) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	s.syncOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.syncOnce()
		}
	}
}

func (s *Syncer) syncOnce() {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	totals, err := s.Fetch(ctx)
	if err != nil {
		slog.Warn("session: attendance sync failed", "error", err)
		return
	}
	if totals != nil {
		s.Manager.ApplyServerTotals(*totals)
	}
}
