package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// timeEntryPage is the time-entries endpoint's response shape.
type timeEntryPage struct {
	Content  []TimeEntryRecord `json:"content"`
	MaxPages int               `json:"maxPages"`
}

// TimeEntries fetches labor time entries in the [start, end] window,
// walking pages up to maxPages. Timestamps are formatted in the
// upstream's local time zone.
func (s *Session) TimeEntries(ctx context.Context, start, end time.Time, loc *time.Location, maxPages int) ([]TimeEntryRecord, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	var records []TimeEntryRecord
	for page := 1; page <= maxPages; page++ {
		query := url.Values{}
		query.Set("startDate", start.In(loc).Format(queryTimeFormat))
		query.Set("endDate", end.In(loc).Format(queryTimeFormat))
		query.Set("page", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(s.client.pageSize))
		query.Set("detail", "true")

		body, err := s.get(ctx, "/api/v1/timeentries", query.Encode())
		if err != nil {
			return nil, err
		}

		var resp timeEntryPage
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("upstream: decode time entries page %d: %w", page, err)
		}
		records = append(records, resp.Content...)

		if page >= resp.MaxPages {
			break
		}
	}
	return records, nil
}
