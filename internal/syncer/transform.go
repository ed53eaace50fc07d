package syncer

import (
	"strings"
	"time"

	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
	"github.com/apboats/bbgassetmanagement-sub003/internal/upstream"
)

// upstreamDateFormat is the MM/DD/YYYY date format used in payload
// bodies (distinct from the query timestamp format).
const upstreamDateFormat = "01/02/2006"

// parseDate parses an MM/DD/YYYY payload date. Absent or malformed
// values map to nil, per the default policy for optional fields.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(upstreamDateFormat, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// transformWorkOrder maps one upstream payload into the local shape.
//
// Classification: a work order is internal iff it carries a rigging id
// or its customer id equals the internal-customer sentinel. When a
// rigging id is present the upstream boat id is the rigging id and is
// never used for boat lookup; otherwise a non-internal work order with a
// boat id gets a resolution attempt against the local boat registry. The
// raw boat id is stored either way so unresolved rows can be reconciled
// later.
func (e *Engine) transformWorkOrder(rec upstream.WorkOrderRecord, syncedAt time.Time) models.WorkOrder {
	riggingID := strings.TrimSpace(rec.RiggingID.String())
	customerID := strings.TrimSpace(rec.CustomerID.String())
	boatID := strings.TrimSpace(rec.BoatID.String())

	isInternal := riggingID != "" || customerID == e.cfg.Upstream.InternalCustomerID

	var localBoatID *uint
	if riggingID == "" && !isInternal && boatID != "" {
		localBoatID = e.resolveBoat(boatID)
	}

	return models.WorkOrder{
		ID:           rec.WorkOrderID.String(),
		CustomerID:   customerID,
		CustomerName: rec.CustomerName,
		ClerkID:      rec.ClerkID.String(),

		BoatID:         localBoatID,
		UpstreamBoatID: boatID,

		RiggingID:   riggingID,
		RiggingType: rec.RiggingType,
		IsInternal:  isInternal,

		Type:     rec.Type,
		Category: rec.Category,
		Status:   rec.Status,
		Title:    rec.Title,

		BoatName:         rec.BoatName,
		BoatYear:         rec.BoatYear,
		BoatMake:         rec.BoatMake,
		BoatModel:        rec.BoatModel,
		BoatSerial:       rec.BoatSerial,
		BoatRegistration: rec.BoatRegistration,
		BoatLength:       rec.BoatLength,

		Charges: models.Totals{
			Parts:     rec.ChargeParts,
			Labor:     rec.ChargeLabor,
			Freight:   rec.ChargeFreight,
			Equipment: rec.ChargeEquipment,
			Sublet:    rec.ChargeSublet,
			Mileage:   rec.ChargeMileage,
			Misc:      rec.ChargeMisc,
			BillCodes: rec.ChargeBillCodes,
		},
		Cost: models.Totals{
			Parts:     rec.CostParts,
			Labor:     rec.CostLabor,
			Freight:   rec.CostFreight,
			Equipment: rec.CostEquipment,
			Sublet:    rec.CostSublet,
			Mileage:   rec.CostMileage,
			Misc:      rec.CostMisc,
			BillCodes: rec.CostBillCodes,
		},
		Forecast: models.Totals{
			Parts:     rec.ForecastParts,
			Labor:     rec.ForecastLabor,
			Freight:   rec.ForecastFreight,
			Equipment: rec.ForecastEquipment,
			Sublet:    rec.ForecastSublet,
			Mileage:   rec.ForecastMileage,
			Misc:      rec.ForecastMisc,
			BillCodes: rec.ForecastBillCodes,
		},

		EstimatedStartDate:      parseDate(rec.EstStartDate),
		EstimatedCompletionDate: parseDate(rec.EstCompletionDate),
		PromisedDate:            parseDate(rec.PromisedDate),
		ChangedDate:             parseDate(rec.DateChanged),
		ChangedTime:             rec.TimeChanged,

		Comments:   rec.Comments,
		LastSynced: syncedAt,
	}
}

// transformOperation maps one operation payload, same default policy as
// work orders.
func transformOperation(workOrderID string, rec upstream.OperationRecord) models.Operation {
	return models.Operation{
		WorkOrderID: workOrderID,
		OperationID: rec.OperationID.String(),

		Opcode:      strings.TrimSpace(rec.Opcode),
		Description: rec.Description,
		Status:      rec.Status,
		Type:        rec.Type,
		Category:    rec.Category,

		LaborFinished: rec.LaborFinished,

		Charges: models.Totals{
			Parts:     rec.ChargeParts,
			Labor:     rec.ChargeLabor,
			Freight:   rec.ChargeFreight,
			Equipment: rec.ChargeEquipment,
			Sublet:    rec.ChargeSublet,
			Mileage:   rec.ChargeMileage,
			Misc:      rec.ChargeMisc,
			BillCodes: rec.ChargeBillCodes,
		},
		Cost: models.Totals{
			Parts:     rec.CostParts,
			Labor:     rec.CostLabor,
			Freight:   rec.CostFreight,
			Equipment: rec.CostEquipment,
			Sublet:    rec.CostSublet,
			Mileage:   rec.CostMileage,
			Misc:      rec.CostMisc,
			BillCodes: rec.CostBillCodes,
		},
		Forecast: models.Totals{
			Parts:     rec.ForecastParts,
			Labor:     rec.ForecastLabor,
			Freight:   rec.ForecastFreight,
			Equipment: rec.ForecastEquipment,
			Sublet:    rec.ForecastSublet,
			Mileage:   rec.ForecastMileage,
			Misc:      rec.ForecastMisc,
			BillCodes: rec.ForecastBillCodes,
		},

		LongDescription:    rec.LongDescription,
		TechnicianComments: rec.TechnicianComments,
		ManagerComments:    rec.ManagerComments,

		FlatRate:       rec.FlatRate,
		FlatRateAmount: rec.FlatRateAmount,
		StandardHours:  rec.StandardHours,

		EstimatedStartDate:      parseDate(rec.EstStartDate),
		EstimatedCompletionDate: parseDate(rec.EstCompletionDate),
	}
}

// transformOperations maps a payload's operations list, dropping entries
// with no operation id.
func transformOperations(workOrderID string, recs []upstream.OperationRecord) []models.Operation {
	ops := make([]models.Operation, 0, len(recs))
	for _, rec := range recs {
		if rec.OperationID == "" {
			continue
		}
		ops = append(ops, transformOperation(workOrderID, rec))
	}
	return ops
}

// resolveBoat looks up a local boat row by the raw upstream identifier.
// A miss yields nil; the caller still stores the raw id.
func (e *Engine) resolveBoat(externalID string) *uint {
	var boat models.Boat
	err := e.db.Where("external_id = ?", externalID).First(&boat).Error
	if err != nil {
		return nil
	}
	return &boat.ID
}
