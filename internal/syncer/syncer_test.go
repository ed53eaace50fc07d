package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/config"
	"github.com/apboats/bbgassetmanagement-sub003/internal/db"
	"github.com/apboats/bbgassetmanagement-sub003/internal/upstream"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with all required tables.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(db.AllModels()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

// testConfig returns a config with the defaults tests rely on.
func testConfig() *config.Config {
	return &config.Config{
		Upstream: config.UpstreamConfig{
			BaseURL:            "http://upstream.test",
			Username:           "svc",
			PasswordEnv:        "APSYNC_TEST_PASSWORD",
			Timezone:           "UTC",
			PageSize:           200,
			MaxPages:           1,
			InternalCustomerID: "3112",
		},
		Sync: config.SyncConfig{
			JobName:         "work_orders",
			LookbackMinutes: 15,
		},
	}
}

// fakeRemote is a test double for the authenticated upstream session.
type fakeRemote struct {
	changed     *upstream.ChangedResult
	changedErr  error
	entries     []upstream.TimeEntryRecord
	entriesErr  error
	listIDs     []string
	listErr     error
	retrieved   []upstream.WorkOrderRecord
	retrieveErr error

	changedSince time.Time
	listCalls    int
}

func (f *fakeRemote) ChangedWorkOrders(ctx context.Context, since time.Time, loc *time.Location, maxPages int) (*upstream.ChangedResult, error) {
	f.changedSince = since
	if f.changedErr != nil {
		return nil, f.changedErr
	}
	if f.changed == nil {
		return &upstream.ChangedResult{}, nil
	}
	return f.changed, nil
}

func (f *fakeRemote) TimeEntries(ctx context.Context, start, end time.Time, loc *time.Location, maxPages int) ([]upstream.TimeEntryRecord, error) {
	if f.entriesErr != nil {
		return nil, f.entriesErr
	}
	return f.entries, nil
}

func (f *fakeRemote) ListOpenWorkOrderIDs(ctx context.Context, customerID string) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listIDs, nil
}

func (f *fakeRemote) RetrieveWorkOrders(ctx context.Context, ids []string) ([]upstream.WorkOrderRecord, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return f.retrieved, nil
}

// testEngine wires an Engine to a fake session and a fixed clock.
func testEngine(t *testing.T, gdb *gorm.DB, remote *fakeRemote, now time.Time) *Engine {
	t.Helper()
	t.Setenv("APSYNC_TEST_PASSWORD", "hunter2")
	return New(gdb, testConfig(),
		WithAuth(func(ctx context.Context, username, password string) (Remote, error) {
			return remote, nil
		}),
		WithClock(func() time.Time { return now }),
	)
}
