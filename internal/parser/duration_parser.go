package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHMS converts a colon-delimited duration string to seconds.
// Missing leading components are treated as zero ("5:30" means 0:05:30).
// Malformed input yields 0, never an error.
func ParseHMS(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0
	}

	// Left-pad missing leading components with zero
	for len(parts) < 3 {
		parts = append([]string{"0"}, parts...)
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}

	return total
}

// FormatHMS formats seconds as zero-padded HH:MM:SS.
// Negative input is clamped to 0.
func FormatHMS(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hrs := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hrs, mins, secs)
}
