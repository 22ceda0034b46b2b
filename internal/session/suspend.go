package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/prohance/tracker/internal/models"
)

// runSuspendMonitor heartbeats at the configured interval. Goroutines do not
// run while the OS is suspended, so the only way to notice lost time is the
// elapsed interval between two ticks coming back too large.
func (m *Manager) runSuspendMonitor(stop <-chan struct{}) {
	defer m.wg.Done()

	m.mu.Lock()
	m.lastTick = m.now().UTC()
	m.mu.Unlock()

	ticker := time.NewTicker(m.cfg.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.observeTick(m.now().UTC())
		}
	}
}

// observeTick runs one heartbeat. A gap beyond the threshold means the
// process was suspended for [now-sleepDuration, now]: that interval becomes
// break time, retroactively opening a break if none was open.
func (m *Manager) observeTick(now time.Time) {
	m.mu.Lock()
	if m.lastTick.IsZero() {
		m.lastTick = now
		m.mu.Unlock()
		return
	}
	elapsed := now.Sub(m.lastTick)
	m.lastTick = now

	if elapsed-m.cfg.MonitorInterval <= m.cfg.GapThreshold {
		m.mu.Unlock()
		return
	}

	sleepDuration := elapsed - m.cfg.MonitorInterval
	sleepStart := now.Add(-sleepDuration)

	var startRemoteBreak bool
	if m.state == ClockedIn || m.state == OnBreak {
		if !m.sleepGapPrehandled && m.state == ClockedIn && m.breakStart.IsZero() {
			m.state = OnBreak
			m.breakStart = sleepStart
			m.sleepBreakActive = true
			startRemoteBreak = !m.erpBreakOpen
		}
		// The accumulator never ran during the suspend, so the lost
		// interval is credited to break time directly. This also covers
		// a break that was already open before the machine slept.
		m.breakTime += sleepDuration
	}
	m.sleepGapPrehandled = false
	// Keep the accumulator from double counting the same gap
	m.lastUpdate = now

	event := models.SleepEvent{
		Date:            now.Format("2006-01-02"),
		SleepStart:      sleepStart,
		WakeTime:        now,
		DurationSeconds: int(sleepDuration.Seconds()),
	}
	m.mu.Unlock()

	if startRemoteBreak {
		if err := m.api.StartBreak(context.Background(), dateOf(sleepStart), sleepStart); err != nil {
			slog.Warn("session: sleep break start call failed", "error", err)
		} else {
			m.mu.Lock()
			m.erpBreakOpen = true
			m.mu.Unlock()
		}
	}

	if m.store != nil {
		if err := m.store.RecordSleepEvent(event); err != nil {
			slog.Warn("session: failed to record sleep event", "error", err)
		}
	}
	slog.Info("session: sleep gap detected",
		"sleep_start", sleepStart, "wake_time", now, "duration", sleepDuration)
}

// OnSleep pre-handles an OS suspend notification by opening a break before
// the machine goes down, so the suspend monitor does not synthesize a second
// one after resume.
func (m *Manager) OnSleep() {
	m.mu.Lock()
	if m.state != ClockedIn || !m.breakStart.IsZero() {
		m.mu.Unlock()
		return
	}
	now := m.now().UTC()
	m.accumulateLocked(now)
	m.state = OnBreak
	m.breakStart = now
	m.sleepBreakActive = true
	m.sleepGapPrehandled = true
	sendRemote := !m.erpBreakOpen
	m.mu.Unlock()

	if sendRemote {
		if err := m.api.StartBreak(context.Background(), dateOf(now), now); err != nil {
			slog.Warn("session: sleep break start call failed", "error", err)
		} else {
			m.mu.Lock()
			m.erpBreakOpen = true
			m.mu.Unlock()
		}
	}
	slog.Info("session: system sleep, break opened")
}

// OnResume force-closes a sleep-originated break after the OS wakes or the
// workstation unlocks, even if local state drifted while suspended.
func (m *Manager) OnResume() {
	m.mu.Lock()
	active := m.sleepBreakActive
	m.mu.Unlock()
	if !active {
		return
	}
	if err := m.EndBreak(true); err != nil {
		slog.Warn("session: resume break end failed", "error", err)
	} else {
		slog.Info("session: system resumed, break closed")
	}
}
