package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prohance/tracker/internal/activity"
	"github.com/prohance/tracker/internal/session"
)

// StatusModel is the live session dashboard shown while clocked in
type StatusModel struct {
	width  int
	height int

	manager *session.Manager
	tracker *activity.Tracker

	snapshot session.Snapshot
	appUsage []session.AppUsage
	activBar progress.Model

	// Animation state
	headerAnimation int

	// UI state
	clockingOut bool // user pressed o: stop the shift on exit
	exiting     bool // user pressed esc/q: leave the shift running
	actionErr   error
}

// statusTickMsg refreshes the snapshot every second
type statusTickMsg struct{}

// statusAnimationMsg drives the header animation
type statusAnimationMsg struct{}

// NewStatusModel creates the dashboard model for a running session
func NewStatusModel(manager *session.Manager, tracker *activity.Tracker) StatusModel {
	bar := progress.New(
		progress.WithGradient(ColorAccentMain, ColorAccentBright),
		progress.WithoutPercentage(),
	)
	return StatusModel{
		manager:  manager,
		tracker:  tracker,
		snapshot: manager.Snapshot(),
		activBar: bar,
	}
}

// Init starts the refresh and animation tickers
func (m StatusModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return statusTickMsg{}
		}),
		tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
			return statusAnimationMsg{}
		}),
	)
}

// Update handles messages
func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusTickMsg:
		m.snapshot = m.manager.Snapshot()
		m.appUsage = m.manager.AppUsageStats()

		if !m.clockingOut && !m.exiting {
			return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				return statusTickMsg{}
			})
		}
		return m, nil

	case statusAnimationMsg:
		m.headerAnimation = (m.headerAnimation + 1) % 4

		if !m.clockingOut && !m.exiting {
			return m, tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
				return statusAnimationMsg{}
			})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.activBar.Width = min(msg.Width/2-10, 40)
		return m, nil

	case tea.KeyMsg:
		// Keystrokes inside the dashboard are user input too
		if m.tracker != nil {
			m.tracker.Touch()
		}

		switch msg.String() {
		case "b", "B":
			// Toggle break
			if m.snapshot.State == session.OnBreak {
				m.actionErr = m.manager.EndBreak(false)
			} else {
				m.actionErr = m.manager.StartBreak()
			}
			m.snapshot = m.manager.Snapshot()
			return m, nil
		case "o", "O":
			m.clockingOut = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			// Exit the dashboard but keep tracking
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the dashboard
func (m StatusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.width < 90 {
		// Narrow view: clock panel only, full width
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderClockPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		helpBar,
	)
}

// renderClockPanel renders the left panel with the big active-time clock
func (m StatusModel) renderClockPanel(width, height int) string {
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.headerAnimation]

	headerText := fmt.Sprintf("%s  CLOCKED IN  %s", animChar, animChar)
	headerColor := ColorAccentBright
	switch {
	case m.snapshot.State == session.OnBreak:
		headerText = "☕  ON BREAK  ☕"
		headerColor = ColorWarning
	case m.snapshot.IsIdle:
		headerText = "💤  IDLE  💤"
		headerColor = ColorSecondaryText
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(headerText))

	// Big clock shows today's active time
	clockDisplay := renderBigClock(m.snapshot.Summary.TotalActiveTime, ColorAccentBright)
	clockContent := ""
	for _, line := range strings.Split(clockDisplay, "\n") {
		clockContent += lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(width).
			Render(line) + "\n"
	}
	components = append(components, strings.TrimRight(clockContent, "\n"))

	// Activity bar
	barLabel := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(fmt.Sprintf("Activity %3.0f%%", m.snapshot.ActivityPercent))
	barLine := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width).
		Render(barLabel + "  " + m.activBar.ViewAs(m.snapshot.ActivityPercent/100.0))
	components = append(components, barLine)

	// Session start time
	sessionInfo := fmt.Sprintf("Clocked in at %s", m.snapshot.SessionStart.Local().Format("15:04:05"))
	if m.snapshot.State == session.OnBreak && !m.snapshot.BreakStart.IsZero() {
		sessionInfo = fmt.Sprintf("On break since %s", m.snapshot.BreakStart.Local().Format("15:04:05"))
	}
	sessionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, sessionStyle.Render(sessionInfo))

	if m.actionErr != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, errStyle.Render(m.actionErr.Error()))
	}

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(content)
}

// renderDetailsPanel renders the right panel with totals and app usage
func (m StatusModel) renderDetailsPanel(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")

	logoLines := []string{
		"████████╗██████╗  █████╗  ██████╗██╗  ██╗",
		"╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝",
		"   ██║   ██████╔╝███████║██║     █████╔╝ ",
		"   ██║   ██╔══██╗██╔══██║██║     ██╔═██╗ ",
		"   ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗",
		"   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝",
	}

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width - 8)
	b.WriteString(logoStyle.Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")

	separatorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBorder)).
		Align(lipgloss.Center).
		Width(width - 8)
	b.WriteString(separatorStyle.Render(strings.Repeat("─", min(width-12, 40))))
	b.WriteString("\n\n")

	lineStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width - 8)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true)

	summary := m.snapshot.Summary
	b.WriteString(lineStyle.Render("💼 Active: " + valueStyle.Render(summary.TotalActiveTime)))
	b.WriteString("\n")
	b.WriteString(lineStyle.Render("☕ Break: " + valueStyle.Render(summary.TotalBreakTime)))
	b.WriteString("\n")
	b.WriteString(lineStyle.Render("💤 Idle: " + valueStyle.Render(summary.TotalIdleTime)))
	b.WriteString("\n\n")

	if m.tracker != nil {
		clicks, keys := m.tracker.Counts()
		inputLine := fmt.Sprintf("⌨️  %d keys · 🖱 %d clicks", keys, clicks)
		b.WriteString(lineStyle.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(inputLine)))
		b.WriteString("\n\n")
	}

	if len(m.appUsage) > 0 {
		headerStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width - 8)
		b.WriteString(headerStyle.Render("Top apps"))
		b.WriteString("\n")

		shown := m.appUsage
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, usage := range shown {
			name := usage.Name
			if len(name) > 24 {
				name = name[:21] + "..."
			}
			appLine := fmt.Sprintf("%-24s %s", name, usage.Duration)
			b.WriteString(lineStyle.Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(appLine)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderHelpBar renders the help bar at the bottom
func (m StatusModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "b break · o clock out · esc/q close (keep tracking) · ctrl+c force quit"
	if m.snapshot.State == session.OnBreak {
		helpText = "b end break · o clock out · esc/q close (keep tracking) · ctrl+c force quit"
	}

	return helpStyle.Render(helpText)
}

// RunStatusTUI shows the dashboard for a running session. Returns true when
// the user asked to clock out.
func RunStatusTUI(manager *session.Manager, tracker *activity.Tracker) (bool, error) {
	model := NewStatusModel(manager, tracker)

	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	statusModel := finalModel.(StatusModel)
	if statusModel.exiting {
		fmt.Println("\n💡 Tracking continues in the background.")
		fmt.Println("   Use 'tracker status' to check the session or press Ctrl+C on the main process to clock out.")
	}
	return statusModel.clockingOut, nil
}
