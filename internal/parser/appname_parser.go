package parser

import (
	"strings"
)

// exeNames maps well-known executable or title suffixes to friendly app names
var exeNames = map[string]string{
	"chrome":   "Google Chrome",
	"msedge":   "Microsoft Edge",
	"firefox":  "Firefox",
	"code":     "VS Code",
	"devenv":   "Visual Studio",
	"winword":  "Microsoft Word",
	"excel":    "Microsoft Excel",
	"powerpnt": "Microsoft PowerPoint",
	"teams":    "Microsoft Teams",
	"outlook":  "Microsoft Outlook",
	"figma":    "Figma",
	"slack":    "Slack",
	"discord":  "Discord",
	"zoom":     "Zoom",
	"telegram": "Telegram",
	"cursor":   "Cursor",
}

// ParseAppName extracts a clean application name from a window title.
// Titles usually look like "file.go - VS Code" or "Inbox - Outlook";
// the segment after the last " - " is the application.
func ParseAppName(windowTitle string) string {
	title := strings.TrimSpace(windowTitle)
	if title == "" {
		return "Unknown"
	}

	if idx := strings.LastIndex(title, " - "); idx >= 0 {
		app := strings.TrimSpace(title[idx+3:])
		app = strings.TrimSuffix(app, ".exe")
		if friendly := lookupAppName(app); friendly != "" {
			return friendly
		}
		if app != "" {
			return app
		}
	}

	if friendly := lookupAppName(title); friendly != "" {
		return friendly
	}

	// Fallback: first 30 chars of the raw title
	if len(title) > 30 {
		return title[:30]
	}
	return title
}

func lookupAppName(name string) string {
	lower := strings.ToLower(name)
	for key, friendly := range exeNames {
		if strings.Contains(lower, key) {
			return friendly
		}
	}
	return ""
}
