package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/prohance/tracker/internal/capture"
	"github.com/prohance/tracker/internal/models"
	"github.com/prohance/tracker/internal/parser"
)

// State is the session lifecycle state
type State string

const (
	LoggedOut State = "logged_out"
	ClockedIn State = "clocked_in"
	OnBreak   State = "on_break"
	// Idle is informational only; idle time accumulates under ClockedIn
	Idle State = "idle"
)

var (
	ErrNotClockedIn     = errors.New("not clocked in")
	ErrBreakAlreadyOpen = errors.New("break already started")
	ErrNotOnBreak       = errors.New("not on break")
)

// AttendanceAPI is the remote ERP surface the session manager depends on.
// Calls are best-effort: failures are logged and local state stands until the
// next attendance fetch reconciles it.
type AttendanceAPI interface {
	PunchIn(ctx context.Context, date string, inTime time.Time) error
	PunchOut(ctx context.Context, date string, outTime time.Time) error
	StartBreak(ctx context.Context, date string, start time.Time) error
	EndBreak(ctx context.Context, date string, end time.Time) error
}

// Store persists daily history rows and sleep events
type Store interface {
	AppendHistory(models.HistoryRecord) error
	RecordSleepEvent(models.SleepEvent) error
}

// Config holds the session tracking tunables
type Config struct {
	IdleTimeout        time.Duration // prolonged idle is reclassified as break
	ActivityWindow     int           // rolling samples for activity percent
	MonitorInterval    time.Duration // suspend monitor tick
	GapThreshold       time.Duration // extra elapsed time treated as sleep
	CaptureInterval    time.Duration
	WindowPollInterval time.Duration
	CaptureDir         string
	MaxBrowserTabs     int
}

func (c Config) withDefaults() Config {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 300 * time.Second
	}
	if c.ActivityWindow <= 0 {
		c.ActivityWindow = 60
	}
	if c.MonitorInterval <= 0 {
		c.MonitorInterval = 10 * time.Second
	}
	if c.GapThreshold <= 0 {
		c.GapThreshold = 60 * time.Second
	}
	if c.CaptureInterval <= 0 {
		c.CaptureInterval = 5 * time.Minute
	}
	if c.WindowPollInterval <= 0 {
		c.WindowPollInterval = 10 * time.Second
	}
	if c.MaxBrowserTabs <= 0 {
		c.MaxBrowserTabs = 20
	}
	return c
}

// ServerTotals carries the authoritative fields from an attendance fetch.
// Nil fields were absent from the server record and leave local state alone.
type ServerTotals struct {
	InTime        *time.Time
	OutTime       *time.Time
	BreakSeconds  *int
	ActiveSeconds *int
	OnBreak       *bool
}

// Summary is the daily totals exposed to the UI layer
type Summary struct {
	TotalActiveTime string
	TotalBreakTime  string
	TotalIdleTime   string
}

// Snapshot is a consistent read of the session for display
type Snapshot struct {
	State           State
	SessionStart    time.Time
	BreakStart      time.Time
	IsIdle          bool
	ActivityPercent float64
	Summary         Summary
	RecentWindows   []string
	Screenshots     []string
}

// Manager owns the single session of this process. All fields are guarded by
// mu; the accumulator, the suspend monitor and the server merger all run on
// different goroutines.
type Manager struct {
	mu    sync.Mutex
	api   AttendanceAPI
	store Store
	caps  capture.Suite
	cfg   Config

	now func() time.Time

	state        State
	sessionStart time.Time
	breakStart   time.Time
	lastUpdate   time.Time

	isIdle      bool
	currentIdle time.Duration

	activeTime time.Duration
	breakTime  time.Duration
	idleTime   time.Duration

	samples         []int
	activityPercent float64

	// Server overrides, invalidated together on clock-in
	erpInTime        time.Time
	erpOutTime       time.Time
	erpBreakSeconds  *int
	erpActiveSeconds *int
	erpStateHint     State
	erpOverrideAt    time.Time
	erpBreakOpen     bool

	// Suspend handling
	lastTick           time.Time
	sleepBreakActive   bool
	sleepGapPrehandled bool

	// Session collections
	recentWindows []string
	screenshots   []string
	latestTabs    []string

	// App usage since clock-in
	appUsage        map[string]time.Duration
	currentApp      string
	currentAppStart time.Time

	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New creates a logged-out manager
func New(api AttendanceAPI, store Store, caps capture.Suite, cfg Config) *Manager {
	return &Manager{
		api:      api,
		store:    store,
		caps:     caps,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		state:    LoggedOut,
		appUsage: make(map[string]time.Duration),
	}
}

func dateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ClockIn starts a new shift: counters reset, server overrides cleared, a
// best-effort punch-in goes out and the background workers start.
func (m *Manager) ClockIn() error {
	m.mu.Lock()
	if m.state != LoggedOut {
		m.mu.Unlock()
		return errors.New("already clocked in")
	}
	now := m.now().UTC()
	m.resetLocked(now)
	m.startWorkersLocked()
	m.mu.Unlock()

	if err := m.api.PunchIn(context.Background(), dateOf(now), now); err != nil {
		slog.Warn("session: punch in call failed", "error", err)
	}
	slog.Info("session: clocked in")
	return nil
}

// ClockInLocal is ClockIn without the punch call, for when the server already
// has today's punch (restart after crash, punch from another device).
func (m *Manager) ClockInLocal() error {
	m.mu.Lock()
	if m.state != LoggedOut {
		m.mu.Unlock()
		return errors.New("already clocked in")
	}
	now := m.now().UTC()
	m.resetLocked(now)
	m.startWorkersLocked()
	m.mu.Unlock()

	slog.Info("session: local clock in, server already punched")
	return nil
}

func (m *Manager) resetLocked(now time.Time) {
	m.state = ClockedIn
	m.sessionStart = now
	m.lastUpdate = now
	m.breakStart = time.Time{}
	m.isIdle = false
	m.currentIdle = 0
	m.activeTime = 0
	m.breakTime = 0
	m.idleTime = 0
	m.samples = nil
	m.activityPercent = 0
	m.clearOverridesLocked()
	m.sleepBreakActive = false
	m.sleepGapPrehandled = false
}

func (m *Manager) clearOverridesLocked() {
	m.erpInTime = time.Time{}
	m.erpOutTime = time.Time{}
	m.erpBreakSeconds = nil
	m.erpActiveSeconds = nil
	m.erpStateHint = ""
	m.erpOverrideAt = time.Time{}
	m.erpBreakOpen = false
}

// ClockOut flushes the final interval, persists today's history row, stops
// the workers and sends a best-effort punch-out. A punch failure is returned
// for display but the local transition stands.
func (m *Manager) ClockOut(reason string) error {
	m.mu.Lock()
	if m.state == LoggedOut {
		m.mu.Unlock()
		return ErrNotClockedIn
	}
	now := m.now().UTC()
	m.accumulateLocked(now)
	m.flushAppUsageLocked(now)
	m.currentApp = ""
	record := m.historyRecordLocked(now)
	m.state = LoggedOut
	m.breakStart = time.Time{}
	m.isIdle = false
	m.currentIdle = 0
	m.sleepBreakActive = false
	m.sleepGapPrehandled = false
	m.stopWorkersLocked()
	m.mu.Unlock()

	m.wg.Wait()

	if m.store != nil {
		if err := m.store.AppendHistory(record); err != nil {
			slog.Warn("session: failed to persist history record", "error", err)
		}
	}

	err := m.api.PunchOut(context.Background(), dateOf(now), now)
	if err != nil {
		slog.Warn("session: punch out call failed", "error", err)
	}
	slog.Info("session: clocked out", "reason", reason)
	return err
}

// StartBreak transitions to OnBreak. The remote break-start call is only
// sent while the server has no open break row, so a sleep-detector break and
// a manual break racing cannot produce two calls.
func (m *Manager) StartBreak() error {
	m.mu.Lock()
	if m.state != ClockedIn {
		m.mu.Unlock()
		return ErrNotClockedIn
	}
	if !m.breakStart.IsZero() {
		m.mu.Unlock()
		return ErrBreakAlreadyOpen
	}
	now := m.now().UTC()
	m.accumulateLocked(now)
	m.state = OnBreak
	m.breakStart = now
	sendRemote := !m.erpBreakOpen
	m.mu.Unlock()

	if sendRemote {
		if err := m.api.StartBreak(context.Background(), dateOf(now), now); err != nil {
			slog.Warn("session: break start call failed", "error", err)
		} else {
			m.mu.Lock()
			m.erpBreakOpen = true
			m.mu.Unlock()
		}
	}
	slog.Info("session: break started")
	return nil
}

// EndBreak transitions back to ClockedIn. force closes a break even when
// local state drifted (resume/unlock handlers), as long as a break start is
// known. The remote break-end call is always sent; the server treats it as
// idempotent.
func (m *Manager) EndBreak(force bool) error {
	m.mu.Lock()
	if m.state != OnBreak {
		if m.state == LoggedOut || !force || m.breakStart.IsZero() {
			m.mu.Unlock()
			return ErrNotOnBreak
		}
		// Pretend we are on break so the final interval lands in the
		// break bucket before the resume is sent.
		m.state = OnBreak
	}
	now := m.now().UTC()
	m.accumulateLocked(now)
	m.state = ClockedIn
	m.breakStart = time.Time{}
	m.sleepBreakActive = false
	m.mu.Unlock()

	if err := m.api.EndBreak(context.Background(), dateOf(now), now); err != nil {
		slog.Warn("session: break end call failed", "error", err)
	} else {
		m.mu.Lock()
		m.erpBreakOpen = false
		m.mu.Unlock()
	}
	slog.Info("session: break ended")
	return nil
}

// UpdateActivity records an activity-detector sample and flushes accumulation
func (m *Manager) UpdateActivity(isActive bool, idleFor time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.isIdle = !isActive
	m.currentIdle = idleFor

	sample := 0
	if isActive {
		sample = 1
	}
	m.samples = append(m.samples, sample)
	if len(m.samples) > m.cfg.ActivityWindow {
		m.samples = m.samples[len(m.samples)-m.cfg.ActivityWindow:]
	}
	sum := 0
	for _, s := range m.samples {
		sum += s
	}
	m.activityPercent = 100.0 * float64(sum) / float64(len(m.samples))

	m.accumulateLocked(m.now().UTC())
}

// accumulateLocked routes the wall-clock time since lastUpdate into the
// bucket the current state dictates. Must run before any state transition
// that depends on elapsed time, or the final partial interval is lost.
func (m *Manager) accumulateLocked(now time.Time) {
	if m.lastUpdate.IsZero() {
		// No delta on the first call, so time before process start is
		// never credited.
		m.lastUpdate = now
		return
	}
	delta := now.Sub(m.lastUpdate)
	if delta <= 0 {
		// Clock skew or out-of-order call
		return
	}

	switch m.state {
	case ClockedIn:
		if m.isIdle {
			if m.currentIdle >= m.cfg.IdleTimeout {
				// Prolonged idle counts as break; short idle stays idle
				m.breakTime += delta
			} else {
				m.idleTime += delta
			}
		} else {
			m.activeTime += delta
		}
	case OnBreak:
		m.breakTime += delta
	}
	// Logged out: no accumulation, but lastUpdate still advances
	m.lastUpdate = now
}

// ApplyServerTotals overlays authoritative totals from an attendance fetch.
// Provided fields overwrite; absent fields leave local state untouched. The
// server cannot force a logged-out user back in, but otherwise its state
// hint wins over local belief.
func (m *Manager) ApplyServerTotals(totals ServerTotals) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	changed := false

	if totals.InTime != nil {
		in := totals.InTime.UTC()
		m.erpInTime = in
		// Server is authoritative for the true clock-in instant
		if m.sessionStart.IsZero() || in.Before(m.sessionStart) {
			m.sessionStart = in
		}
		changed = true
	}
	if totals.OutTime != nil {
		m.erpOutTime = totals.OutTime.UTC()
		changed = true
	}
	if totals.BreakSeconds != nil {
		v := *totals.BreakSeconds
		if v < 0 {
			v = 0
		}
		m.erpBreakSeconds = &v
		changed = true
	}
	if totals.ActiveSeconds != nil {
		v := *totals.ActiveSeconds
		if v < 0 {
			v = 0
		}
		m.erpActiveSeconds = &v
		changed = true
	}
	if totals.OnBreak != nil {
		hint := ClockedIn
		if *totals.OnBreak {
			hint = OnBreak
		}
		m.erpStateHint = hint
		m.erpBreakOpen = *totals.OnBreak
		// The hint only applies on the fetch that carried it; a later
		// partial update must not replay it over fresher local state.
		if m.state != LoggedOut {
			m.state = hint
			// Keep the break-start invariant intact when the server
			// flips our state.
			if hint == OnBreak && m.breakStart.IsZero() {
				m.breakStart = now
			} else if hint == ClockedIn && !m.sleepBreakActive {
				m.breakStart = time.Time{}
			}
		}
		changed = true
	}

	if changed {
		m.erpOverrideAt = now
		m.lastUpdate = now
	}
}

// DailySummary flushes accumulation and returns merged daily totals
func (m *Manager) DailySummary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	m.accumulateLocked(now)
	return m.dailySummaryLocked(now)
}

func (m *Manager) dailySummaryLocked(now time.Time) Summary {
	breakTotal := int(m.breakTime.Seconds())
	if m.erpBreakSeconds != nil {
		breakTotal = *m.erpBreakSeconds
	}
	if breakTotal < 0 {
		breakTotal = 0
	}

	idleTotal := int(m.idleTime.Seconds())
	activeTotal := int(m.activeTime.Seconds())

	if m.erpActiveSeconds != nil {
		activeTotal = *m.erpActiveSeconds
	} else {
		// Once the server holds an authoritative in-time, shift span
		// minus known breaks beats second-by-second accumulation: a
		// missed accumulation tick cannot undercount active time.
		start := m.sessionStart
		if !m.erpInTime.IsZero() {
			start = m.erpInTime
		}
		if !start.IsZero() {
			end := now
			if !m.erpOutTime.IsZero() {
				end = m.erpOutTime
			} else if m.state == LoggedOut && !m.lastUpdate.IsZero() {
				end = m.lastUpdate
			}
			if end.Before(start) {
				end = now
			}
			totalElapsed := int(end.Sub(start).Seconds())
			if totalElapsed < 0 {
				totalElapsed = 0
			}
			activeTotal = totalElapsed - breakTotal
			if activeTotal < 0 {
				activeTotal = 0
			}
		}
	}

	return Summary{
		TotalActiveTime: parser.FormatHMS(activeTotal),
		TotalBreakTime:  parser.FormatHMS(breakTotal),
		TotalIdleTime:   parser.FormatHMS(idleTotal),
	}
}

func (m *Manager) historyRecordLocked(now time.Time) models.HistoryRecord {
	summary := m.dailySummaryLocked(now)
	return models.HistoryRecord{
		Date:            now.Format("2006-01-02"),
		Active:          summary.TotalActiveTime,
		Break:           summary.TotalBreakTime,
		Idle:            summary.TotalIdleTime,
		ActivityPercent: math.Round(m.activityPercent*10) / 10,
		TopWindows:      lastN(m.recentWindows, 10),
		Screenshots:     lastN(m.screenshots, 10),
	}
}

// Snapshot returns a consistent view of the session for display
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	m.accumulateLocked(now)
	return Snapshot{
		State:           m.state,
		SessionStart:    m.sessionStart,
		BreakStart:      m.breakStart,
		IsIdle:          m.isIdle,
		ActivityPercent: m.activityPercent,
		Summary:         m.dailySummaryLocked(now),
		RecentWindows:   lastN(m.recentWindows, 10),
		Screenshots:     lastN(m.screenshots, 10),
	}
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return append([]string(nil), items...)
	}
	return append([]string(nil), items[len(items)-n:]...)
}
