package activity

import (
	"sync"
	"time"
)

// Tracker records the most recent input activity instant. Platform input
// hooks (and the TUI key handler) call Touch; the session layer polls
// IdleFor to classify the user as active or idle.
type Tracker struct {
	mu           sync.Mutex
	lastActivity time.Time
	mouseClicks  int
	keysPressed  int
	lastReset    string // ISO date of the last daily counter reset

	now func() time.Time
}

// NewTracker creates a tracker that starts out active
func NewTracker() *Tracker {
	t := &Tracker{now: time.Now}
	t.lastActivity = t.now()
	t.lastReset = t.lastActivity.Format("2006-01-02")
	return t
}

// Touch marks the user as active right now
func (t *Tracker) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastActivity = t.now()
}

// TouchMouseClick records a mouse click and marks the user active
func (t *Tracker) TouchMouseClick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetDailyCountsIfNeeded()
	t.mouseClicks++
	t.lastActivity = t.now()
}

// TouchKeyPress records a key press and marks the user active
func (t *Tracker) TouchKeyPress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetDailyCountsIfNeeded()
	t.keysPressed++
	t.lastActivity = t.now()
}

// IdleFor returns how long the user has been without input
func (t *Tracker) IdleFor() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.lastActivity)
}

// Counts returns today's mouse click and key press totals
func (t *Tracker) Counts() (mouseClicks, keysPressed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetDailyCountsIfNeeded()
	return t.mouseClicks, t.keysPressed
}

func (t *Tracker) resetDailyCountsIfNeeded() {
	today := t.now().Format("2006-01-02")
	if today != t.lastReset {
		t.mouseClicks = 0
		t.keysPressed = 0
		t.lastReset = today
	}
}
