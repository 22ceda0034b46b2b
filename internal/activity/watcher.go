package activity

import (
	"time"
)

// Watcher polls a Tracker and reports activity samples to a sink.
// A user becomes idle after IdleTimeout without input and active again once
// the idle time drops below half the timeout (hysteresis so a single stray
// input does not flap the state).
type Watcher struct {
	tracker *Tracker

	IdleTimeout time.Duration
	Interval    time.Duration

	// OnSample receives every poll result
	OnSample func(isActive bool, idleFor time.Duration)
	// OnIdle and OnActive fire on state edges only
	OnIdle   func()
	OnActive func()

	isIdle bool
}

// NewWatcher creates a watcher with the given poll interval and idle timeout
func NewWatcher(tracker *Tracker, interval, idleTimeout time.Duration) *Watcher {
	return &Watcher{
		tracker:     tracker,
		IdleTimeout: idleTimeout,
		Interval:    interval,
	}
}

// Run polls until stop is closed
func (w *Watcher) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	idleFor := w.tracker.IdleFor()

	if !w.isIdle && idleFor > w.IdleTimeout {
		w.isIdle = true
		if w.OnIdle != nil {
			w.OnIdle()
		}
	} else if w.isIdle && idleFor < w.IdleTimeout/2 {
		w.isIdle = false
		if w.OnActive != nil {
			w.OnActive()
		}
	}

	if w.OnSample != nil {
		w.OnSample(!w.isIdle, idleFor)
	}
}
