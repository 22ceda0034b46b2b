package erp

import (
	"strconv"
	"strings"
	"time"

	"github.com/prohance/tracker/internal/parser"
)

// Record is a normalized attendance row. The ERP exposes several deployments
// with different field names for the same logical data; all alias handling
// lives here so the session core only ever sees this shape.
type Record struct {
	Date          string
	InTime        *time.Time
	OutTime       *time.Time
	Breaks        []BreakRow
	BreakSeconds  *int
	ActiveSeconds *int
	OnBreak       *bool
}

// BreakRow is one break interval; End is nil while the break is open
type BreakRow struct {
	Start *time.Time
	End   *time.Time
}

var (
	dateKeys    = []string{"date", "date_in_iso_format", "day", "attendance_date"}
	inTimeKeys  = []string{"in_time", "punch_in", "punchInTime", "clock_in_time", "check_in_time", "start"}
	outTimeKeys = []string{"out_time", "punch_out", "punchOutTime", "clock_out_time", "check_out_time", "end"}
	breakKeys   = []string{"breaks", "break_list", "break_logs"}
	breakSecondsKeys = []string{
		"total_break_seconds", "totalBreakSeconds", "break_seconds", "break_secs",
		"breakDurationInSeconds", "totalBreakDuration", "breakDuration",
		"total_break", "total_break_time", "break_time_total", "break_duration",
	}
	activeSecondsKeys = []string{
		"total_work_seconds", "work_seconds", "work_secs", "total_work_time",
		"work_time", "hours_worked", "duration", "total_duration", "active_time",
	}
	breakStartKeys = []string{"break_time", "start", "break_start", "start_time", "pause_time"}
	breakEndKeys   = []string{"resume_time", "end", "break_end", "end_time"}
)

func normalizeRecord(raw map[string]any) Record {
	rec := Record{
		Date:    pickString(raw, dateKeys...),
		InTime:  parseTimeValue(pickAny(raw, inTimeKeys...)),
		OutTime: parseTimeValue(pickAny(raw, outTimeKeys...)),
	}

	for _, item := range pickList(raw, breakKeys...) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row := BreakRow{
			Start: parseTimeValue(pickAny(entry, breakStartKeys...)),
			End:   parseTimeValue(pickAny(entry, breakEndKeys...)),
		}
		if row.Start != nil || row.End != nil {
			rec.Breaks = append(rec.Breaks, row)
		}
	}

	// Multiple punch-in/out cycles arrive as work_periods; an open period
	// overrides the top-level in/out times.
	for _, item := range pickList(raw, "work_periods", "workPeriods") {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		punchIn := parseTimeValue(pickAny(entry, "punch_in_time", "punchInTime", "in_time"))
		punchOut := parseTimeValue(pickAny(entry, "punch_out_time", "punchOutTime", "out_time"))
		if punchIn != nil && punchOut == nil && pickBool(entry, "is_open", "isOpen") {
			rec.InTime = punchIn
			rec.OutTime = nil
			break
		}
	}

	if secs := parseSecondsValue(pickAny(raw, breakSecondsKeys...)); secs != nil {
		rec.BreakSeconds = secs
	} else if derived := closedBreakSeconds(rec.Breaks); derived > 0 {
		rec.BreakSeconds = &derived
	}
	if secs := parseSecondsValue(pickAny(raw, activeSecondsKeys...)); secs != nil {
		rec.ActiveSeconds = secs
	}

	// An open break only counts while the shift itself is still open
	if rec.InTime != nil && rec.OutTime == nil {
		onBreak := false
		for _, row := range rec.Breaks {
			if row.Start != nil && row.End == nil {
				onBreak = true
				break
			}
		}
		rec.OnBreak = &onBreak
	}

	return rec
}

func closedBreakSeconds(rows []BreakRow) int {
	total := 0
	for _, row := range rows {
		if row.Start != nil && row.End != nil && row.End.After(*row.Start) {
			total += int(row.End.Sub(*row.Start).Seconds())
		}
	}
	return total
}

func pickAny(raw map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func pickString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func pickBool(raw map[string]any, keys ...string) bool {
	for _, key := range keys {
		if v, ok := raw[key].(bool); ok {
			return v
		}
	}
	return false
}

func pickList(raw map[string]any, keys ...string) []any {
	for _, key := range keys {
		if v, ok := raw[key].([]any); ok {
			return v
		}
	}
	return nil
}

// parseTimeValue accepts the ISO timestamp variants the ERP emits.
// Naive timestamps are taken as UTC.
func parseTimeValue(value any) *time.Time {
	text, ok := value.(string)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// parseSecondsValue accepts a numeric second count or an HH:MM:SS string
func parseSecondsValue(value any) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		n := int(v)
		if n < 0 {
			n = 0
		}
		return &n
	case int:
		if v < 0 {
			v = 0
		}
		return &v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		if strings.Contains(text, ":") {
			n := parser.ParseHMS(text)
			return &n
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			n := int(f)
			if n < 0 {
				n = 0
			}
			return &n
		}
		return nil
	default:
		return nil
	}
}
