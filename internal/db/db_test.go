package db

import (
	"testing"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		host     string
		port     int
		database string
		want     string
	}{
		{
			name:     "no password",
			user:     "root",
			host:     "127.0.0.1",
			port:     3306,
			database: "apsync",
			want:     "root@tcp(127.0.0.1:3306)/apsync?parseTime=true&charset=utf8mb4",
		},
		{
			name:     "with password",
			user:     "apsync",
			password: "s3cret",
			host:     "db.vpc.internal",
			port:     3307,
			database: "apsync_prod",
			want:     "apsync:s3cret@tcp(db.vpc.internal:3307)/apsync_prod?parseTime=true&charset=utf8mb4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.user, tt.password, tt.host, tt.port, tt.database)
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func TestUpsertWorkOrder_Idempotent(t *testing.T) {
	gdb := testDB(t)

	wo := models.WorkOrder{ID: "100", CustomerID: "7000", Title: "Winterize", LastSynced: time.Now()}
	if err := UpsertWorkOrder(gdb, &wo); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	updated := models.WorkOrder{ID: "100", CustomerID: "7000", Title: "Winterize and shrink wrap", LastSynced: time.Now()}
	if err := UpsertWorkOrder(gdb, &updated); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	gdb.Model(&models.WorkOrder{}).Count(&count)
	if count != 1 {
		t.Fatalf("count = %d, want exactly one row", count)
	}

	var got models.WorkOrder
	if err := gdb.First(&got, "id = ?", "100").Error; err != nil {
		t.Fatal(err)
	}
	if got.Title != "Winterize and shrink wrap" {
		t.Errorf("Title = %q, want the second write's value", got.Title)
	}
}

func TestUpsertSyncStatus(t *testing.T) {
	gdb := testDB(t)
	now := time.Now()

	first := models.SyncStatus{JobName: "work_orders", Status: models.SyncStatusSuccess, LastSuccess: &now, RecordsProcessed: 3}
	if err := UpsertSyncStatus(gdb, &first); err != nil {
		t.Fatal(err)
	}
	second := models.SyncStatus{JobName: "work_orders", Status: models.SyncStatusError, LastError: "boom"}
	if err := UpsertSyncStatus(gdb, &second); err != nil {
		t.Fatal(err)
	}

	var count int64
	gdb.Model(&models.SyncStatus{}).Count(&count)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	var got models.SyncStatus
	gdb.First(&got, "job_name = ?", "work_orders")
	if got.Status != models.SyncStatusError || got.LastError != "boom" {
		t.Errorf("row = %+v, want the second write's values", got)
	}
}
