package syncer

import "time"

// WindowStart computes the lower bound of a run's lookback window.
// floor = now - lookback. The floor wins in the normal incremental case;
// a last success older than the floor wins instead, so the window widens
// on its own after downtime or failed runs and no manual backfill is
// needed.
func WindowStart(lastSuccess *time.Time, now time.Time, lookback time.Duration) time.Time {
	floor := now.Add(-lookback)
	if lastSuccess != nil && lastSuccess.Before(floor) {
		return *lastSuccess
	}
	return floor
}
