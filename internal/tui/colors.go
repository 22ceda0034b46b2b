package tui

// Color constants for the tracker TUI theme
const (
	ColorBorder = "#2E4057" // Slate blue-grey

	// Text Colors
	ColorPrimaryText   = "#E8EDF4" // Field values, totals
	ColorSecondaryText = "#9BB0C1" // Labels, timestamps, app usage rows
	ColorHelpText      = "240"     // Dark grey for the help bar

	// Accent Colors (teal theme)
	ColorAccentMain   = "#0D9488" // Logo, active borders
	ColorAccentBright = "#2DD4BF" // Clock digits, highlights

	// State Colors
	ColorError   = "#EF4444" // Failed break/punch calls
	ColorWarning = "#F59E0B" // On-break banner
)
