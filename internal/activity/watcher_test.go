package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTracker() (*Tracker, *time.Time) {
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	now := &base
	tracker := &Tracker{now: func() time.Time { return *now }}
	tracker.lastActivity = base
	tracker.lastReset = base.Format("2006-01-02")
	return tracker, now
}

func TestTrackerIdleFor(t *testing.T) {
	tracker, now := newTestTracker()

	*now = now.Add(90 * time.Second)
	assert.Equal(t, 90*time.Second, tracker.IdleFor())

	tracker.Touch()
	assert.Zero(t, tracker.IdleFor())
}

func TestTrackerDailyCountReset(t *testing.T) {
	tracker, now := newTestTracker()

	tracker.TouchMouseClick()
	tracker.TouchKeyPress()
	tracker.TouchKeyPress()
	clicks, keys := tracker.Counts()
	assert.Equal(t, 1, clicks)
	assert.Equal(t, 2, keys)

	// Counters reset at the date boundary
	*now = now.Add(24 * time.Hour)
	clicks, keys = tracker.Counts()
	assert.Zero(t, clicks)
	assert.Zero(t, keys)
}

func TestWatcherIdleHysteresis(t *testing.T) {
	tracker, now := newTestTracker()
	watcher := NewWatcher(tracker, time.Second, 300*time.Second)

	var idleEdges, activeEdges int
	var lastActive bool
	watcher.OnIdle = func() { idleEdges++ }
	watcher.OnActive = func() { activeEdges++ }
	watcher.OnSample = func(isActive bool, _ time.Duration) { lastActive = isActive }

	watcher.poll()
	assert.True(t, lastActive)
	assert.Zero(t, idleEdges)

	// Crossing the timeout flips to idle exactly once
	*now = now.Add(301 * time.Second)
	watcher.poll()
	watcher.poll()
	assert.False(t, lastActive)
	assert.Equal(t, 1, idleEdges)

	// Idle time just under the timeout is not enough to flip back
	tracker.mu.Lock()
	tracker.lastActivity = now.Add(-200 * time.Second)
	tracker.mu.Unlock()
	watcher.poll()
	assert.False(t, lastActive, "recovery needs idle below half the timeout")

	// Fresh input clears it
	tracker.Touch()
	watcher.poll()
	assert.True(t, lastActive)
	assert.Equal(t, 1, activeEdges)
}
