package db

import (
	"fmt"

	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.WorkOrder{},
		&models.Operation{},
		&models.Boat{},
		&models.SyncStatus{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// UpsertWorkOrder writes a work order keyed by its upstream id,
// overwriting every synced column on conflict. Repeated writes of the
// same payload converge to one identical row.
func UpsertWorkOrder(db *gorm.DB, wo *models.WorkOrder) error {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Omit("Boat", "Operations").Create(wo)
	if result.Error != nil {
		return fmt.Errorf("db: upsert work order %s: %w", wo.ID, result.Error)
	}
	return nil
}

// UpsertSyncStatus writes the status row for a job, keyed by job name.
func UpsertSyncStatus(db *gorm.DB, st *models.SyncStatus) error {
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_attempted", "last_success", "status",
			"records_processed", "last_error", "updated_at",
		}),
	}).Create(st)
	if result.Error != nil {
		return fmt.Errorf("db: upsert sync status %q: %w", st.JobName, result.Error)
	}
	return nil
}
