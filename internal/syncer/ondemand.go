package syncer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/apboats/bbgassetmanagement-sub003/internal/db"
	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
)

// FetchRequest is the on-demand path's input: which customer/boat to
// fetch, and whether to bypass the cache.
type FetchRequest struct {
	CustomerID string `json:"customerId"`
	BoatID     string `json:"boatId"`
	BoatUUID   string `json:"boatUuid"`
	Refresh    bool   `json:"refresh"`
}

// FetchWorkOrders is the read-through on-demand path. Cached rows for
// the boat are returned as-is unless refresh is set or no cache exists;
// a refresh lists the customer's open work orders upstream, batch
// retrieves details, keeps those matching the boat, and reconciles the
// local rows — including deleting rows no longer present in the fresh
// listing. An empty result is not an error.
func (e *Engine) FetchWorkOrders(ctx context.Context, req FetchRequest) ([]models.WorkOrder, error) {
	boatID := strings.TrimSpace(req.BoatID)
	if req.BoatUUID != "" {
		var boat models.Boat
		if err := e.db.Where("uuid = ?", req.BoatUUID).First(&boat).Error; err == nil && boat.ExternalID != "" {
			boatID = strings.TrimSpace(boat.ExternalID)
		}
	}
	if boatID == "" {
		return nil, fmt.Errorf("syncer: fetch request has no boat id")
	}

	cached, err := e.cachedWorkOrders(boatID)
	if err != nil {
		return nil, err
	}
	if !req.Refresh && len(cached) > 0 {
		return cached, nil
	}

	session, err := e.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := session.ListOpenWorkOrderIDs(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	records, err := session.RetrieveWorkOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	syncedAt := e.now()
	fresh := make(map[string]bool)
	for _, rec := range records {
		if strings.TrimSpace(rec.BoatID.String()) != boatID {
			continue
		}
		if rec.WorkOrderID == "" {
			continue
		}
		wo := e.transformWorkOrder(rec, syncedAt)
		if err := db.UpsertWorkOrder(e.db, &wo); err != nil {
			log.Printf("syncer: %v", err)
			continue
		}
		fresh[wo.ID] = true
		if ops := transformOperations(wo.ID, rec.Operations); len(ops) > 0 {
			if err := replaceOperations(e.db, wo.ID, ops); err != nil {
				log.Printf("%v", err)
			}
		}
	}

	// Drop local rows the upstream no longer lists for this boat.
	for _, wo := range cached {
		if fresh[wo.ID] {
			continue
		}
		if err := e.db.Where("work_order_id = ?", wo.ID).Delete(&models.Operation{}).Error; err != nil {
			log.Printf("syncer: delete stale operations for %s: %v", wo.ID, err)
			continue
		}
		if err := e.db.Delete(&models.WorkOrder{}, "id = ?", wo.ID).Error; err != nil {
			log.Printf("syncer: delete stale work order %s: %v", wo.ID, err)
		}
	}

	return e.cachedWorkOrders(boatID)
}

// cachedWorkOrders returns the local rows for a boat's raw upstream id,
// operations preloaded.
func (e *Engine) cachedWorkOrders(boatID string) ([]models.WorkOrder, error) {
	var rows []models.WorkOrder
	err := e.db.Preload("Operations").
		Where("upstream_boat_id = ?", boatID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("syncer: load cached work orders for boat %s: %w", boatID, err)
	}
	return rows, nil
}
