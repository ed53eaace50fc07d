package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/config"
	"github.com/apboats/bbgassetmanagement-sub003/internal/db"
	"github.com/apboats/bbgassetmanagement-sub003/internal/upstream"
)

// RunSummary reports what one incremental sync run did.
type RunSummary struct {
	WindowStart        time.Time
	WorkOrdersUpdated  int
	OperationsReplaced int
	TimeWorkedUpdated  int
	PagesSkipped       int
}

// Run executes one incremental sync: authenticate, compute the lookback
// window, ingest changed work orders, then aggregate labor time entries.
// The two phases run strictly sequentially, records one at a time.
//
// Only authentication and missing credentials abort the run; a failing
// data endpoint degrades to an empty result for its phase, and
// per-record persistence failures are logged and skipped. Exactly one
// sync status row is written per run, on whichever path it terminates.
func (e *Engine) Run(ctx context.Context) (*RunSummary, error) {
	runStart := e.now()
	jobName := e.cfg.Sync.JobName

	session, err := e.authenticate(ctx)
	if err != nil {
		e.finishFailed(ctx, jobName, runStart, err)
		return nil, err
	}

	prior, err := LoadStatus(e.db, jobName)
	if err != nil {
		e.finishFailed(ctx, jobName, runStart, err)
		return nil, err
	}
	var lastSuccess *time.Time
	if prior != nil {
		lastSuccess = prior.LastSuccess
	}
	since := WindowStart(lastSuccess, runStart, e.cfg.Lookback())
	loc := e.cfg.Location()

	summary := &RunSummary{WindowStart: since}
	fmt.Fprintf(e.out, "Syncing work orders changed since %s\n", since.Format(time.RFC3339))

	// Phase 1: changed work orders.
	changed, err := session.ChangedWorkOrders(ctx, since, loc, e.cfg.Upstream.MaxPages)
	if err != nil {
		// Fail open: a broken data endpoint costs this phase, not the run.
		log.Printf("syncer: changed work orders fetch failed, continuing with none: %v", err)
		changed = &upstream.ChangedResult{}
	}
	summary.PagesSkipped = changed.PagesSkipped
	if changed.PagesSkipped > 0 {
		log.Printf("syncer: %d page(s) of changed work orders beyond the configured cap were not fetched", changed.PagesSkipped)
	}

	for _, rec := range changed.Records {
		if rec.WorkOrderID == "" {
			continue
		}
		wo := e.transformWorkOrder(rec, runStart)
		if err := db.UpsertWorkOrder(e.db, &wo); err != nil {
			log.Printf("syncer: %v", err)
			continue
		}
		summary.WorkOrdersUpdated++

		if len(rec.Operations) == 0 {
			continue
		}
		ops := transformOperations(wo.ID, rec.Operations)
		if len(ops) == 0 {
			continue
		}
		if err := replaceOperations(e.db, wo.ID, ops); err != nil {
			log.Printf("%v", err)
			continue
		}
		summary.OperationsReplaced += len(ops)
	}

	// Phase 2: labor time entries.
	entries, err := session.TimeEntries(ctx, since, runStart, loc, e.cfg.Upstream.MaxPages)
	if err != nil {
		log.Printf("syncer: time entries fetch failed, continuing with none: %v", err)
		entries = nil
	}
	summary.TimeWorkedUpdated = e.applyTimeWorked(aggregateTimeEntries(entries))

	if err := recordSuccess(e.db, jobName, runStart, summary.WorkOrdersUpdated); err != nil {
		e.notifyFailure(ctx, err.Error())
		return nil, err
	}

	fmt.Fprintf(e.out, "Sync complete: %d work orders, %d operations replaced, %d time-worked updates\n",
		summary.WorkOrdersUpdated, summary.OperationsReplaced, summary.TimeWorkedUpdated)
	return summary, nil
}

// finishFailed records the error-status row and fires the failure alert.
// Recorder failures are logged; the original error is what propagates.
func (e *Engine) finishFailed(ctx context.Context, jobName string, runStart time.Time, runErr error) {
	log.Printf("syncer: run failed: %v", runErr)
	if err := recordFailure(e.db, jobName, runStart, runErr); err != nil {
		log.Printf("syncer: record failure status: %v", err)
	}
	e.notifyFailure(ctx, runErr.Error())
}

// IsFatal reports whether an error from Run was one of the abort-class
// failures (bad credentials or missing configuration) rather than a
// degraded-but-recorded run.
func IsFatal(err error) bool {
	var authErr *upstream.AuthenticationError
	return errors.As(err, &authErr) || errors.Is(err, config.ErrMissingCredentials)
}
