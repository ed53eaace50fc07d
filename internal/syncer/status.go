package syncer

import (
	"errors"
	"fmt"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/db"
	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
	"gorm.io/gorm"
)

// LoadStatus returns the status row for a job, or nil if the job has
// never run.
func LoadStatus(gdb *gorm.DB, jobName string) (*models.SyncStatus, error) {
	var st models.SyncStatus
	err := gdb.Where("job_name = ?", jobName).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("syncer: load status for %q: %w", jobName, err)
	}
	return &st, nil
}

// recordSuccess upserts the job's status row after a clean run. The
// run's start time becomes the new watermark so changes landing upstream
// mid-run are re-fetched next time.
func recordSuccess(gdb *gorm.DB, jobName string, runStart time.Time, records int) error {
	now := time.Now()
	st := models.SyncStatus{
		JobName:          jobName,
		LastAttempted:    &runStart,
		LastSuccess:      &runStart,
		Status:           models.SyncStatusSuccess,
		RecordsProcessed: records,
		LastError:        "",
		UpdatedAt:        now,
	}
	return db.UpsertSyncStatus(gdb, &st)
}

// recordFailure upserts the job's status row after a failed run. The
// prior successful watermark is preserved so the next run's window
// widens over the gap.
func recordFailure(gdb *gorm.DB, jobName string, runStart time.Time, runErr error) error {
	prior, err := LoadStatus(gdb, jobName)
	if err != nil {
		return err
	}
	st := models.SyncStatus{
		JobName:       jobName,
		LastAttempted: &runStart,
		Status:        models.SyncStatusError,
		LastError:     runErr.Error(),
		UpdatedAt:     time.Now(),
	}
	if prior != nil {
		st.LastSuccess = prior.LastSuccess
		st.RecordsProcessed = prior.RecordsProcessed
	}
	return db.UpsertSyncStatus(gdb, &st)
}
