package models

import "time"

// Sync status values.
const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncStatus is one row per named sync job. LastSuccess is the watermark
// the next run's lookback window is computed from; it only moves on
// successful runs.
type SyncStatus struct {
	ID               uint       `gorm:"primaryKey;autoIncrement"`
	JobName          string     `gorm:"size:64;uniqueIndex;not null"`
	LastAttempted    *time.Time
	LastSuccess      *time.Time
	Status           string     `gorm:"size:16"`
	RecordsProcessed int
	LastError        string `gorm:"type:text"`
	UpdatedAt        time.Time
}
