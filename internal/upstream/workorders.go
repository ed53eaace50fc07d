package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// changedPage is the changed-work-orders endpoint's response shape.
type changedPage struct {
	Content  []WorkOrderRecord `json:"content"`
	MaxPages int               `json:"maxPages"`
}

// ChangedResult is the outcome of a changed-work-orders query.
// PagesSkipped counts upstream pages beyond the configured cap that were
// not fetched this run; callers log it so truncation is visible.
type ChangedResult struct {
	Records      []WorkOrderRecord
	PagesSkipped int
}

// ChangedWorkOrders fetches work orders changed since the given lower
// bound, walking pages up to maxPages. The bound is formatted in the
// upstream's local time zone, as the API requires.
func (s *Session) ChangedWorkOrders(ctx context.Context, since time.Time, loc *time.Location, maxPages int) (*ChangedResult, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	result := &ChangedResult{}
	for page := 1; page <= maxPages; page++ {
		query := url.Values{}
		query.Set("lastChangedDate", since.In(loc).Format(queryTimeFormat))
		query.Set("page", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(s.client.pageSize))

		body, err := s.get(ctx, "/api/v1/workorders/changes", query.Encode())
		if err != nil {
			return nil, err
		}

		var resp changedPage
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("upstream: decode changed work orders page %d: %w", page, err)
		}
		result.Records = append(result.Records, resp.Content...)

		if page >= resp.MaxPages {
			return result, nil
		}
		if page == maxPages {
			result.PagesSkipped = resp.MaxPages - maxPages
		}
	}
	return result, nil
}

// ListOpenWorkOrderIDs returns the ids of open work orders for a
// customer. Used by the on-demand fetch path.
func (s *Session) ListOpenWorkOrderIDs(ctx context.Context, customerID string) ([]string, error) {
	query := url.Values{}
	query.Set("customerId", customerID)
	query.Set("status", "open")

	body, err := s.get(ctx, "/api/v1/workorders", query.Encode())
	if err != nil {
		return nil, err
	}
	records, err := decodeWorkOrderList(body)
	if err != nil {
		return nil, fmt.Errorf("upstream: decode work order list: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.WorkOrderID != "" {
			ids = append(ids, r.WorkOrderID.String())
		}
	}
	return ids, nil
}

// RetrieveWorkOrders batch-fetches full details for the given ids in one
// call, operations included.
func (s *Session) RetrieveWorkOrders(ctx context.Context, ids []string) ([]WorkOrderRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body, err := s.post(ctx, "/api/v1/workorders/retrieve", map[string]interface{}{
		"workOrderIds": ids,
		"detail":       true,
	})
	if err != nil {
		return nil, err
	}
	records, err := decodeWorkOrderList(body)
	if err != nil {
		return nil, fmt.Errorf("upstream: decode work order batch: %w", err)
	}
	return records, nil
}
