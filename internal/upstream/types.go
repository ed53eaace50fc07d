package upstream

import (
	"bytes"
	"encoding/json"
)

// ID is an upstream identifier. The API is inconsistent about whether id
// fields arrive as JSON strings or numbers, so both decode to a string.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = ID(n.String())
	return nil
}

func (i ID) String() string { return string(i) }

// WorkOrderRecord is one work order as the upstream reports it. Every
// field is optional in practice; absent strings decode to "" and absent
// numbers to 0, which is also the local default policy.
type WorkOrderRecord struct {
	WorkOrderID  ID     `json:"workOrderId"`
	CustomerID   ID     `json:"customerId"`
	CustomerName string `json:"customerName"`
	ClerkID      ID     `json:"clerkId"`
	BoatID       ID     `json:"boatId"`
	RiggingID    ID     `json:"riggingId"`
	RiggingType  string `json:"riggingType"`

	Type     string `json:"workOrderType"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Title    string `json:"title"`

	BoatName         string  `json:"boatName"`
	BoatYear         string  `json:"boatYear"`
	BoatMake         string  `json:"boatMake"`
	BoatModel        string  `json:"boatModel"`
	BoatSerial       string  `json:"boatSerialNumber"`
	BoatRegistration string  `json:"boatRegistration"`
	BoatLength       float64 `json:"boatLength"`

	ChargeParts     float64 `json:"chargeParts"`
	ChargeLabor     float64 `json:"chargeLabor"`
	ChargeFreight   float64 `json:"chargeFreight"`
	ChargeEquipment float64 `json:"chargeEquipment"`
	ChargeSublet    float64 `json:"chargeSublet"`
	ChargeMileage   float64 `json:"chargeMileage"`
	ChargeMisc      float64 `json:"chargeMisc"`
	ChargeBillCodes float64 `json:"chargeBillCodes"`

	CostParts     float64 `json:"costParts"`
	CostLabor     float64 `json:"costLabor"`
	CostFreight   float64 `json:"costFreight"`
	CostEquipment float64 `json:"costEquipment"`
	CostSublet    float64 `json:"costSublet"`
	CostMileage   float64 `json:"costMileage"`
	CostMisc      float64 `json:"costMisc"`
	CostBillCodes float64 `json:"costBillCodes"`

	ForecastParts     float64 `json:"forecastParts"`
	ForecastLabor     float64 `json:"forecastLabor"`
	ForecastFreight   float64 `json:"forecastFreight"`
	ForecastEquipment float64 `json:"forecastEquipment"`
	ForecastSublet    float64 `json:"forecastSublet"`
	ForecastMileage   float64 `json:"forecastMileage"`
	ForecastMisc      float64 `json:"forecastMisc"`
	ForecastBillCodes float64 `json:"forecastBillCodes"`

	EstStartDate      string `json:"estStartDate"`
	EstCompletionDate string `json:"estCompletionDate"`
	PromisedDate      string `json:"promisedDate"`
	DateChanged       string `json:"dateChanged"`
	TimeChanged       string `json:"timeChanged"`

	Comments string `json:"comments"`

	Operations []OperationRecord `json:"operations"`
}

// OperationRecord is one opcode line item within a work order payload.
type OperationRecord struct {
	OperationID ID     `json:"operationId"`
	Opcode      string `json:"opcode"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Type        string `json:"operationType"`
	Category    string `json:"category"`

	LaborFinished bool `json:"laborFinished"`

	ChargeParts     float64 `json:"chargeParts"`
	ChargeLabor     float64 `json:"chargeLabor"`
	ChargeFreight   float64 `json:"chargeFreight"`
	ChargeEquipment float64 `json:"chargeEquipment"`
	ChargeSublet    float64 `json:"chargeSublet"`
	ChargeMileage   float64 `json:"chargeMileage"`
	ChargeMisc      float64 `json:"chargeMisc"`
	ChargeBillCodes float64 `json:"chargeBillCodes"`

	CostParts     float64 `json:"costParts"`
	CostLabor     float64 `json:"costLabor"`
	CostFreight   float64 `json:"costFreight"`
	CostEquipment float64 `json:"costEquipment"`
	CostSublet    float64 `json:"costSublet"`
	CostMileage   float64 `json:"costMileage"`
	CostMisc      float64 `json:"costMisc"`
	CostBillCodes float64 `json:"costBillCodes"`

	ForecastParts     float64 `json:"forecastParts"`
	ForecastLabor     float64 `json:"forecastLabor"`
	ForecastFreight   float64 `json:"forecastFreight"`
	ForecastEquipment float64 `json:"forecastEquipment"`
	ForecastSublet    float64 `json:"forecastSublet"`
	ForecastMileage   float64 `json:"forecastMileage"`
	ForecastMisc      float64 `json:"forecastMisc"`
	ForecastBillCodes float64 `json:"forecastBillCodes"`

	LongDescription    string `json:"longDescription"`
	TechnicianComments string `json:"technicianComments"`
	ManagerComments    string `json:"managerComments"`

	FlatRate       bool    `json:"flatRate"`
	FlatRateAmount float64 `json:"flatRateAmount"`
	StandardHours  float64 `json:"standardHours"`

	EstStartDate      string `json:"estStartDate"`
	EstCompletionDate string `json:"estCompletionDate"`
}

// TimeEntryRecord is one labor time entry; each carries per-operation
// entries with the work date.
type TimeEntryRecord struct {
	WorkOrderID ID                   `json:"workOrderId"`
	Operations  []TimeEntryOperation `json:"operations"`
}

// TimeEntryOperation is one per-operation entry within a time entry.
// EstStartDate is the work date in MM/DD/YYYY form, no time component.
type TimeEntryOperation struct {
	Opcode       string `json:"opcode"`
	EstStartDate string `json:"estStartDate"`
}

// decodeWorkOrderList resolves the inconsistent response envelopes the
// list and batch-retrieve endpoints use: a bare array, {"content":[...]},
// or {"data":[...]}. Resolved once here so nothing downstream sees a raw
// envelope.
func decodeWorkOrderList(data []byte) ([]WorkOrderRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []WorkOrderRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var wrapped struct {
		Content json.RawMessage `json:"content"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	inner := wrapped.Content
	if inner == nil {
		inner = wrapped.Data
	}
	if inner == nil {
		return nil, nil
	}
	var records []WorkOrderRecord
	if err := json.Unmarshal(inner, &records); err != nil {
		return nil, err
	}
	return records, nil
}
