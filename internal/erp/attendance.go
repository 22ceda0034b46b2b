package erp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const attendancePath = "/auth/api/attendance/"

// isoUTC formats a timestamp the way the ERP expects punch times
func isoUTC(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

func (c *Client) punchPayload(action, date string) map[string]any {
	return map[string]any{
		"client_id":          c.clientID,
		"shift_id":           c.shiftID,
		"action":             action,
		"date_in_iso_format": date,
		"status":             "W",
	}
}

// PunchIn marks the start of a work shift
func (c *Client) PunchIn(ctx context.Context, date string, inTime time.Time) error {
	payload := c.punchPayload("punch_in", date)
	payload["in_time"] = isoUTC(inTime)
	_, err := c.doJSON(ctx, http.MethodPost, attendancePath, nil, payload)
	return err
}

// PunchOut marks the end of a work shift
func (c *Client) PunchOut(ctx context.Context, date string, outTime time.Time) error {
	payload := c.punchPayload("punch_out", date)
	payload["out_time"] = isoUTC(outTime)
	_, err := c.doJSON(ctx, http.MethodPost, attendancePath, nil, payload)
	return err
}

// StartBreak opens a break row for the current shift
func (c *Client) StartBreak(ctx context.Context, date string, start time.Time) error {
	payload := c.punchPayload("break", date)
	payload["break_time"] = isoUTC(start)
	_, err := c.doJSON(ctx, http.MethodPost, attendancePath, nil, payload)
	return err
}

// EndBreak closes the open break row for the current shift
func (c *Client) EndBreak(ctx context.Context, date string, end time.Time) error {
	payload := c.punchPayload("resumed", date)
	payload["resume_time"] = isoUTC(end)
	_, err := c.doJSON(ctx, http.MethodPost, attendancePath, nil, payload)
	return err
}

// LogEvent reports an informational event (system resume, etc) to the server
func (c *Client) LogEvent(ctx context.Context, action string, at time.Time, metadata map[string]any) error {
	payload := map[string]any{
		"action":    action,
		"timestamp": isoUTC(at),
		"metadata":  metadata,
	}
	_, err := c.doJSON(ctx, http.MethodPost, attendancePath, nil, payload)
	return err
}

// FetchAttendance returns normalized attendance records. Date is an ISO day;
// month/year may be passed as zero to omit them.
func (c *Client) FetchAttendance(ctx context.Context, date string, month, year int) ([]Record, error) {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	if c.shiftID != "" {
		params.Set("shift_id", c.shiftID)
	}
	if date != "" {
		params.Set("date", date)
	}
	if month > 0 {
		params.Set("month", strconv.Itoa(month))
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	payload, err := c.doJSON(ctx, http.MethodGet, attendancePath, params, nil)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, item := range pickList(payload, "data", "records", "attendance", "items", "results") {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, normalizeRecord(raw))
	}
	return records, nil
}

// TodayRecord finds the record for the given ISO date, if present
func TodayRecord(records []Record, date string) *Record {
	for i := range records {
		if records[i].Date == date || strings.Contains(records[i].Date, date) {
			return &records[i]
		}
	}
	return nil
}
