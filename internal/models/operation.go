package models

import "time"

// Operation is one opcode line item within a work order. Rows are fully
// replaced from the upstream payload on every sync that includes them,
// so the set always matches the upstream set as of the last sync.
type Operation struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	WorkOrderID string `gorm:"size:32;index:idx_wo_op,unique;not null"`
	OperationID string `gorm:"size:32;index:idx_wo_op,unique;not null"`

	Opcode      string `gorm:"size:32;index"`
	Description string `gorm:"size:255"`
	Status      string `gorm:"size:32"`
	Type        string `gorm:"size:32"`
	Category    string `gorm:"size:32"`

	LaborFinished bool

	Charges  Totals `gorm:"embedded;embeddedPrefix:charge_"`
	Cost     Totals `gorm:"embedded;embeddedPrefix:cost_"`
	Forecast Totals `gorm:"embedded;embeddedPrefix:forecast_"`

	LongDescription    string `gorm:"type:text"`
	TechnicianComments string `gorm:"type:text"`
	ManagerComments    string `gorm:"type:text"`

	FlatRate       bool
	FlatRateAmount float64
	StandardHours  float64

	EstimatedStartDate      *time.Time
	EstimatedCompletionDate *time.Time

	// LastWorkedAt is derived from labor time entries, not from the
	// operation payload itself.
	LastWorkedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
