package models

import "time"

// Boat is the local boat registry. The sync engine only reads it (to
// resolve an upstream boat id to a local row); rows are maintained by the
// asset-management side of the system.
type Boat struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	UUID       string `gorm:"size:36;uniqueIndex"`
	ExternalID string `gorm:"size:64;index"`
	CustomerID string `gorm:"size:32;index"`

	Name         string `gorm:"size:128"`
	Year         string `gorm:"size:8"`
	Make         string `gorm:"size:64"`
	Model        string `gorm:"size:64"`
	Serial       string `gorm:"size:64"`
	Registration string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
