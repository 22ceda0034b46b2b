package session

import (
	"log/slog"
	"sort"
	"time"

	"github.com/prohance/tracker/internal/parser"
)

// startWorkersLocked launches the capture, window polling and suspend
// monitor loops. Caller holds mu.
func (m *Manager) startWorkersLocked() {
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.recentWindows = nil
	m.screenshots = nil
	m.latestTabs = nil

	m.wg.Add(3)
	go m.runSuspendMonitor(m.stop)
	go m.runCaptureLoop(m.stop)
	go m.runWindowLoop(m.stop)
}

// stopWorkersLocked signals cooperative shutdown. Caller holds mu.
func (m *Manager) stopWorkersLocked() {
	if !m.running {
		return
	}
	m.running = false
	close(m.stop)
}

func (m *Manager) runCaptureLoop(stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.CaptureInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if m.State() != ClockedIn {
				continue
			}
			m.captureOnce()
		}
	}
}

func (m *Manager) captureOnce() {
	if m.caps.Screenshot != nil {
		artifact, err := m.caps.Screenshot.CaptureScreenshot(m.cfg.CaptureDir)
		if err != nil {
			slog.Warn("session: screenshot capture failed", "error", err)
		} else if artifact != nil {
			m.mu.Lock()
			m.screenshots = append(m.screenshots, artifact.Filename)
			if len(m.screenshots) > 50 {
				m.screenshots = m.screenshots[len(m.screenshots)-50:]
			}
			m.mu.Unlock()
		}
	}

	if m.caps.Webcam != nil {
		if _, err := m.caps.Webcam.CaptureWebcamPhoto(m.cfg.CaptureDir); err != nil {
			slog.Warn("session: webcam capture failed", "error", err)
		}
	}

	if m.caps.Tabs != nil {
		tabs, err := m.caps.Tabs.CollectBrowserTabs(m.cfg.MaxBrowserTabs)
		if err != nil {
			slog.Warn("session: browser tab collection failed", "error", err)
		} else {
			m.mu.Lock()
			m.latestTabs = tabs
			m.mu.Unlock()
		}
	}
}

func (m *Manager) runWindowLoop(stop <-chan struct{}) {
	defer m.wg.Done()

	if m.caps.Windows == nil {
		return
	}

	ticker := time.NewTicker(m.cfg.WindowPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			title, err := m.caps.Windows.ActiveWindowTitle()
			if err != nil {
				slog.Debug("session: active window poll failed", "error", err)
				continue
			}
			m.RecordWindowTitle(title)
		}
	}
}

// RecordWindowTitle notes the focused window and charges elapsed time to the
// application derived from it
func (m *Manager) RecordWindowTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()

	if title == "" {
		m.flushAppUsageLocked(now)
		m.currentApp = ""
		return
	}

	m.recentWindows = append(m.recentWindows, title)
	if len(m.recentWindows) > 50 {
		m.recentWindows = m.recentWindows[len(m.recentWindows)-50:]
	}

	app := parser.ParseAppName(title)
	if m.currentApp != app {
		m.flushAppUsageLocked(now)
		m.currentApp = app
		m.currentAppStart = now
	}
}

func (m *Manager) flushAppUsageLocked(now time.Time) {
	if m.currentApp == "" || m.currentAppStart.IsZero() {
		return
	}
	elapsed := now.Sub(m.currentAppStart)
	if elapsed > 0 {
		m.appUsage[m.currentApp] += elapsed
	}
	m.currentAppStart = now
}

// AppUsage is time spent in one application since clock-in
type AppUsage struct {
	Name     string
	Duration string
	Seconds  int
}

// AppUsageStats returns per-application usage, busiest first, including the
// still-open interval of the currently focused app
func (m *Manager) AppUsageStats() []AppUsage {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()

	totals := make(map[string]time.Duration, len(m.appUsage))
	for app, d := range m.appUsage {
		totals[app] = d
	}
	if m.currentApp != "" && !m.currentAppStart.IsZero() {
		if elapsed := now.Sub(m.currentAppStart); elapsed > 0 {
			totals[m.currentApp] += elapsed
		}
	}

	stats := make([]AppUsage, 0, len(totals))
	for app, d := range totals {
		secs := int(d.Seconds())
		if secs <= 0 {
			continue
		}
		stats = append(stats, AppUsage{
			Name:     app,
			Duration: parser.FormatHMS(secs),
			Seconds:  secs,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Seconds > stats[j].Seconds })
	return stats
}

// LatestTabs returns the most recent browser tab snapshot
func (m *Manager) LatestTabs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.latestTabs...)
}
