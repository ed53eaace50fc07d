package models

import "time"

// Totals is one family of monetary totals, broken down the way the
// dealer management system reports them. Embedded three times on both
// WorkOrder and Operation (billed charges, cost, forecast).
type Totals struct {
	Parts     float64
	Labor     float64
	Freight   float64
	Equipment float64
	Sublet    float64
	Mileage   float64
	Misc      float64
	BillCodes float64
}

// WorkOrder mirrors one upstream work order. The upstream id is the
// primary key, so repeated syncs of the same record upsert in place.
type WorkOrder struct {
	ID           string `gorm:"primaryKey;size:32"`
	CustomerID   string `gorm:"size:32;index"`
	CustomerName string `gorm:"size:128"`
	ClerkID      string `gorm:"size:32"`

	// BoatID points at the local boat registry row when the upstream
	// boat id could be resolved. UpstreamBoatID keeps the raw id either
	// way so unresolved work orders can be reconciled later.
	BoatID         *uint  `gorm:"index"`
	UpstreamBoatID string `gorm:"size:64;index"`

	RiggingID   string `gorm:"size:64"`
	RiggingType string `gorm:"size:32"`
	IsInternal  bool   `gorm:"index"`

	Type     string `gorm:"size:32"`
	Category string `gorm:"size:32"`
	Status   string `gorm:"size:32;index"`
	Title    string `gorm:"size:255"`

	BoatName         string `gorm:"size:128"`
	BoatYear         string `gorm:"size:8"`
	BoatMake         string `gorm:"size:64"`
	BoatModel        string `gorm:"size:64"`
	BoatSerial       string `gorm:"size:64"`
	BoatRegistration string `gorm:"size:64"`
	BoatLength       float64

	Charges  Totals `gorm:"embedded;embeddedPrefix:charge_"`
	Cost     Totals `gorm:"embedded;embeddedPrefix:cost_"`
	Forecast Totals `gorm:"embedded;embeddedPrefix:forecast_"`

	EstimatedStartDate      *time.Time
	EstimatedCompletionDate *time.Time
	PromisedDate            *time.Time
	ChangedDate             *time.Time
	ChangedTime             string `gorm:"size:16"`

	Comments   string `gorm:"type:text"`
	LastSynced time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Boat       *Boat       `gorm:"foreignKey:BoatID"`
	Operations []Operation `gorm:"foreignKey:WorkOrderID;references:ID"`
}
