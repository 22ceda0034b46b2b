package erp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecordFieldAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"canonical keys", map[string]any{
			"date":    "2025-06-02",
			"in_time": "2025-06-02T09:00:00Z",
		}},
		{"punch style keys", map[string]any{
			"attendance_date": "2025-06-02",
			"punch_in":        "2025-06-02T09:00:00",
		}},
		{"camel case keys", map[string]any{
			"date_in_iso_format": "2025-06-02",
			"punchInTime":        "2025-06-02 09:00:00",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := normalizeRecord(tt.raw)
			assert.Equal(t, "2025-06-02", rec.Date)
			require.NotNil(t, rec.InTime)
			assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), *rec.InTime)
			assert.Nil(t, rec.OutTime)
		})
	}
}

func TestNormalizeRecordOpenBreakDetection(t *testing.T) {
	rec := normalizeRecord(map[string]any{
		"date":    "2025-06-02",
		"in_time": "2025-06-02T09:00:00Z",
		"breaks": []any{
			map[string]any{"break_time": "2025-06-02T11:00:00Z", "resume_time": "2025-06-02T11:15:00Z"},
			map[string]any{"break_time": "2025-06-02T13:00:00Z"},
		},
	})

	require.NotNil(t, rec.OnBreak)
	assert.True(t, *rec.OnBreak)
	require.Len(t, rec.Breaks, 2)
	assert.Nil(t, rec.Breaks[1].End)
}

func TestNormalizeRecordClosedShiftHasNoBreakHint(t *testing.T) {
	rec := normalizeRecord(map[string]any{
		"in_time":  "2025-06-02T09:00:00Z",
		"out_time": "2025-06-02T18:00:00Z",
		"breaks": []any{
			map[string]any{"break_time": "2025-06-02T13:00:00Z"},
		},
	})

	// An open break row after punch-out is stale data, not a state hint
	assert.Nil(t, rec.OnBreak)
}

func TestNormalizeRecordDerivesBreakSecondsFromClosedBreaks(t *testing.T) {
	rec := normalizeRecord(map[string]any{
		"in_time": "2025-06-02T09:00:00Z",
		"breaks": []any{
			map[string]any{"break_time": "2025-06-02T11:00:00Z", "resume_time": "2025-06-02T11:15:00Z"},
			map[string]any{"break_time": "2025-06-02T13:00:00Z", "resume_time": "2025-06-02T13:10:00Z"},
			map[string]any{"break_time": "2025-06-02T15:00:00Z"}, // open, excluded
		},
	})

	require.NotNil(t, rec.BreakSeconds)
	assert.Equal(t, 25*60, *rec.BreakSeconds)
}

func TestNormalizeRecordExplicitBreakSecondsWins(t *testing.T) {
	rec := normalizeRecord(map[string]any{
		"in_time":             "2025-06-02T09:00:00Z",
		"total_break_seconds": float64(1800),
		"breaks": []any{
			map[string]any{"break_time": "2025-06-02T11:00:00Z", "resume_time": "2025-06-02T11:15:00Z"},
		},
	})

	require.NotNil(t, rec.BreakSeconds)
	assert.Equal(t, 1800, *rec.BreakSeconds)
}

func TestNormalizeRecordOpenWorkPeriodOverridesTopLevel(t *testing.T) {
	rec := normalizeRecord(map[string]any{
		"in_time":  "2025-06-02T09:00:00Z",
		"out_time": "2025-06-02T12:00:00Z",
		"work_periods": []any{
			map[string]any{
				"punch_in_time":  "2025-06-02T09:00:00Z",
				"punch_out_time": "2025-06-02T12:00:00Z",
			},
			map[string]any{
				"punch_in_time": "2025-06-02T13:00:00Z",
				"is_open":       true,
			},
		},
	})

	require.NotNil(t, rec.InTime)
	assert.Equal(t, time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC), *rec.InTime)
	assert.Nil(t, rec.OutTime, "an open work period means the shift is still running")
	require.NotNil(t, rec.OnBreak)
	assert.False(t, *rec.OnBreak)
}

func TestParseTimeValue(t *testing.T) {
	naive := parseTimeValue("2025-06-02T09:30:00")
	require.NotNil(t, naive)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), *naive, "naive timestamps are UTC")

	offset := parseTimeValue("2025-06-02T09:30:00+05:30")
	require.NotNil(t, offset)
	assert.Equal(t, time.Date(2025, 6, 2, 4, 0, 0, 0, time.UTC), *offset)

	assert.Nil(t, parseTimeValue(""))
	assert.Nil(t, parseTimeValue("not a timestamp"))
	assert.Nil(t, parseTimeValue(42))
	assert.Nil(t, parseTimeValue(nil))
}

func TestParseSecondsValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *int
	}{
		{"json number", float64(900), intPtr(900)},
		{"negative clamps", float64(-5), intPtr(0)},
		{"numeric string", "3600", intPtr(3600)},
		{"hms string", "01:30:00", intPtr(5400)},
		{"short hms string", "5:30", intPtr(330)},
		{"empty string", "", nil},
		{"garbage string", "soon", nil},
		{"nil", nil, nil},
		{"wrong type", []any{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSecondsValue(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intPtr(n int) *int { return &n }
