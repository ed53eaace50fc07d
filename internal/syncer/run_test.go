package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
	"github.com/apboats/bbgassetmanagement-sub003/internal/upstream"
)

func TestRun_Success(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	remote := &fakeRemote{
		changed: &upstream.ChangedResult{
			Records: []upstream.WorkOrderRecord{
				{
					WorkOrderID: "100", CustomerID: "7000", Title: "Winterize",
					Operations: []upstream.OperationRecord{
						{OperationID: "1", Opcode: "WINT"},
					},
				},
				{WorkOrderID: "101", CustomerID: "3112", Title: "Shop job"},
			},
		},
		entries: []upstream.TimeEntryRecord{
			{WorkOrderID: "100", Operations: []upstream.TimeEntryOperation{
				{Opcode: "WINT", EstStartDate: "01/14/2026"},
			}},
		},
	}
	e := testEngine(t, gdb, remote, now)

	summary, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.WorkOrdersUpdated != 2 {
		t.Errorf("WorkOrdersUpdated = %d, want 2", summary.WorkOrdersUpdated)
	}
	if summary.OperationsReplaced != 1 {
		t.Errorf("OperationsReplaced = %d, want 1", summary.OperationsReplaced)
	}
	if summary.TimeWorkedUpdated != 1 {
		t.Errorf("TimeWorkedUpdated = %d, want 1", summary.TimeWorkedUpdated)
	}

	// Window starts at the lookback floor on a first run.
	wantSince := now.Add(-15 * time.Minute)
	if !remote.changedSince.Equal(wantSince) {
		t.Errorf("changed-since = %v, want %v", remote.changedSince, wantSince)
	}

	var wo models.WorkOrder
	if err := gdb.First(&wo, "id = ?", "101").Error; err != nil {
		t.Fatalf("load work order: %v", err)
	}
	if !wo.IsInternal {
		t.Error("sentinel-customer work order should be internal")
	}

	var op models.Operation
	if err := gdb.Where("work_order_id = ? AND opcode = ?", "100", "WINT").First(&op).Error; err != nil {
		t.Fatalf("load operation: %v", err)
	}
	wantWorked := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)
	if op.LastWorkedAt == nil || !op.LastWorkedAt.Equal(wantWorked) {
		t.Errorf("LastWorkedAt = %v, want %v", op.LastWorkedAt, wantWorked)
	}

	st, err := LoadStatus(gdb, "work_orders")
	if err != nil {
		t.Fatal(err)
	}
	if st == nil || st.Status != models.SyncStatusSuccess {
		t.Fatalf("status = %+v, want success row", st)
	}
	if st.LastSuccess == nil || !st.LastSuccess.Equal(now) {
		t.Errorf("watermark = %v, want run start %v", st.LastSuccess, now)
	}
	if st.RecordsProcessed != 2 {
		t.Errorf("RecordsProcessed = %d, want 2", st.RecordsProcessed)
	}
}

func TestRun_Idempotent(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	remote := &fakeRemote{
		changed: &upstream.ChangedResult{
			Records: []upstream.WorkOrderRecord{
				{
					WorkOrderID: "100", CustomerID: "7000", Title: "First title",
					Operations: []upstream.OperationRecord{
						{OperationID: "1", Opcode: "WINT"},
						{OperationID: "2", Opcode: "WASH"},
					},
				},
			},
		},
	}
	e := testEngine(t, gdb, remote, now)

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	remote.changed.Records[0].Title = "Second title"
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var woCount int64
	gdb.Model(&models.WorkOrder{}).Count(&woCount)
	if woCount != 1 {
		t.Errorf("work order rows = %d, want 1", woCount)
	}
	var wo models.WorkOrder
	gdb.First(&wo, "id = ?", "100")
	if wo.Title != "Second title" {
		t.Errorf("Title = %q, want the second write's value", wo.Title)
	}

	var opCount int64
	gdb.Model(&models.Operation{}).Where("work_order_id = ?", "100").Count(&opCount)
	if opCount != 2 {
		t.Errorf("operation rows = %d, want 2 after repeated runs", opCount)
	}
}

func TestRun_EmptyOperationsPreserved(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	remote := &fakeRemote{
		changed: &upstream.ChangedResult{
			Records: []upstream.WorkOrderRecord{
				{
					WorkOrderID: "100", CustomerID: "7000",
					Operations: []upstream.OperationRecord{{OperationID: "1", Opcode: "WINT"}},
				},
			},
		},
	}
	e := testEngine(t, gdb, remote, now)
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Next payload omits operations entirely; existing rows must survive.
	remote.changed.Records[0].Operations = nil
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var opCount int64
	gdb.Model(&models.Operation{}).Where("work_order_id = ?", "100").Count(&opCount)
	if opCount != 1 {
		t.Errorf("operation rows = %d, want 1 preserved", opCount)
	}
}

func TestRun_UpstreamFailureDegrades(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	remote := &fakeRemote{
		changedErr: &upstream.UpstreamError{Endpoint: "/api/v1/workorders/changes", Status: 500},
		entries: []upstream.TimeEntryRecord{
			{WorkOrderID: "9", Operations: []upstream.TimeEntryOperation{
				{Opcode: "A", EstStartDate: "01/14/2026"},
			}},
		},
	}
	e := testEngine(t, gdb, remote, now)

	summary, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run should not abort on a data endpoint failure: %v", err)
	}
	if summary.WorkOrdersUpdated != 0 {
		t.Errorf("WorkOrdersUpdated = %d, want 0", summary.WorkOrdersUpdated)
	}

	// Status is still recorded as success with zero work orders.
	st, err := LoadStatus(gdb, "work_orders")
	if err != nil {
		t.Fatal(err)
	}
	if st == nil || st.Status != models.SyncStatusSuccess {
		t.Fatalf("status = %+v, want success row", st)
	}
}

func TestRun_AuthFailure(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	t.Setenv("APSYNC_TEST_PASSWORD", "wrong")

	var notified []string
	e := New(gdb, testConfig(),
		WithAuth(func(ctx context.Context, username, password string) (Remote, error) {
			return nil, &upstream.AuthenticationError{Reason: "login returned status 401"}
		}),
		WithClock(func() time.Time { return now }),
		WithNotifier(notifyFunc(func(ctx context.Context, jobName, message string) {
			notified = append(notified, message)
		})),
	)

	_, err := e.Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail on authentication error")
	}
	if !IsFatal(err) {
		t.Errorf("IsFatal(%v) = false, want true", err)
	}

	// Error status row is written; data tables are never touched.
	st, lerr := LoadStatus(gdb, "work_orders")
	if lerr != nil {
		t.Fatal(lerr)
	}
	if st == nil || st.Status != models.SyncStatusError {
		t.Fatalf("status = %+v, want error row", st)
	}
	if st.LastSuccess != nil {
		t.Errorf("LastSuccess = %v, want nil", st.LastSuccess)
	}

	var woCount, opCount int64
	gdb.Model(&models.WorkOrder{}).Count(&woCount)
	gdb.Model(&models.Operation{}).Count(&opCount)
	if woCount != 0 || opCount != 0 {
		t.Errorf("rows = %d/%d, want 0/0", woCount, opCount)
	}

	if len(notified) != 1 {
		t.Errorf("notifications = %d, want 1", len(notified))
	}
}

func TestRun_WindowWidensAfterGap(t *testing.T) {
	gdb := testDB(t)
	lastSuccess := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	if err := recordSuccess(gdb, "work_orders", lastSuccess, 3); err != nil {
		t.Fatal(err)
	}

	now := lastSuccess.Add(4 * time.Hour)
	remote := &fakeRemote{}
	e := testEngine(t, gdb, remote, now)
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !remote.changedSince.Equal(lastSuccess) {
		t.Errorf("changed-since = %v, want widened to %v", remote.changedSince, lastSuccess)
	}
}

func TestRun_MissingCredentials(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	t.Setenv("APSYNC_TEST_PASSWORD", "")

	e := New(gdb, testConfig(),
		WithAuth(func(ctx context.Context, username, password string) (Remote, error) {
			t.Fatal("authentication must not be attempted without credentials")
			return nil, nil
		}),
		WithClock(func() time.Time { return now }),
	)

	_, err := e.Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail without credentials")
	}
	if !IsFatal(err) {
		t.Errorf("IsFatal(%v) = false, want true", err)
	}

	st, lerr := LoadStatus(gdb, "work_orders")
	if lerr != nil {
		t.Fatal(lerr)
	}
	if st == nil || st.Status != models.SyncStatusError {
		t.Fatalf("status = %+v, want error row", st)
	}
}

// notifyFunc adapts a function to the Notifier interface.
type notifyFunc func(ctx context.Context, jobName, message string)

func (f notifyFunc) NotifyFailure(ctx context.Context, jobName, message string) {
	f(ctx, jobName, message)
}
