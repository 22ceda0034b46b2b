package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHMS(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"00:00:00", 0},
		{"01:00:00", 3600},
		{"00:05:30", 330},
		{"5:30", 330},        // missing hours component
		{"42", 42},           // bare seconds
		{"12:34:56", 45296},
		{" 01:02:03 ", 3723}, // surrounding whitespace
		{"", 0},
		{"abc", 0},
		{"1:2:3:4", 0},   // too many components
		{"01:-5:00", 0},  // negative component
		{"01:xx:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHMS(tt.input))
		})
	}
}

func TestFormatHMS(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{45296, "12:34:56"},
		{-120, "00:00:00"}, // negative clamps to zero
		{359999, "99:59:59"},
		{360000, "100:00:00"}, // hours field is not capped
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHMS(tt.input))
		})
	}
}

func TestHMSRoundTrip(t *testing.T) {
	for _, secs := range []int{0, 1, 59, 60, 61, 3599, 3600, 86399, 86400, 359999} {
		assert.Equal(t, secs, ParseHMS(FormatHMS(secs)))
	}
}
