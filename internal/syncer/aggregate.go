package syncer

import (
	"log"
	"strings"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
	"github.com/apboats/bbgassetmanagement-sub003/internal/upstream"
)

// timeWorkedKey identifies one (work order, opcode) group during the
// time-entry pass. Run-scoped only.
type timeWorkedKey struct {
	workOrderID string
	opcode      string
}

// normalizeWorkDate converts an MM/DD/YYYY work date to zero-padded
// YYYY-MM-DD. Returns "" for anything unparseable. The fixed-width
// output makes plain string comparison equal to chronological order.
func normalizeWorkDate(s string) string {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return ""
	}
	month, day, year := parts[0], parts[1], parts[2]
	if len(year) != 4 || month == "" || day == "" {
		return ""
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) != 2 || len(day) != 2 {
		return ""
	}
	return year + "-" + month + "-" + day
}

// aggregateTimeEntries groups per-operation entries by (work order,
// opcode), keeping only the most recent work date per group. Groups with
// no resolvable opcode or date are skipped.
func aggregateTimeEntries(entries []upstream.TimeEntryRecord) map[timeWorkedKey]string {
	latest := make(map[timeWorkedKey]string)
	for _, entry := range entries {
		workOrderID := entry.WorkOrderID.String()
		if workOrderID == "" {
			continue
		}
		for _, op := range entry.Operations {
			opcode := strings.TrimSpace(op.Opcode)
			date := normalizeWorkDate(op.EstStartDate)
			if opcode == "" || date == "" {
				continue
			}
			key := timeWorkedKey{workOrderID: workOrderID, opcode: opcode}
			if date > latest[key] {
				latest[key] = date
			}
		}
	}
	return latest
}

// applyTimeWorked issues one targeted update per group, setting the
// operation's last_worked_at to the retained date at midday UTC (midday
// avoids day-boundary ambiguity across time zones). A failed or empty
// update is logged and skipped — the operation may belong to a work
// order outside this run's changed list.
func (e *Engine) applyTimeWorked(latest map[timeWorkedKey]string) int {
	updated := 0
	for key, date := range latest {
		day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			log.Printf("syncer: time entry for work order %s opcode %s has bad date %q: %v", key.workOrderID, key.opcode, date, err)
			continue
		}
		ts := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)

		result := e.db.Model(&models.Operation{}).
			Where("work_order_id = ? AND opcode = ?", key.workOrderID, key.opcode).
			Update("last_worked_at", ts)
		if result.Error != nil {
			log.Printf("syncer: update last_worked_at for work order %s opcode %s: %v", key.workOrderID, key.opcode, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			updated++
		}
	}
	return updated
}
