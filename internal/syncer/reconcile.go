package syncer

import (
	"fmt"

	"github.com/apboats/bbgassetmanagement-sub003/internal/models"
	"gorm.io/gorm"
)

// replaceOperations swaps the full operation set for a work order:
// delete every existing row, insert the fresh set, one transaction so
// readers never observe a work order with zero operations mid-replace.
//
// Callers only invoke this with a non-empty set. An upstream payload
// without operations is indistinguishable from a payload that simply
// omitted them, so existing rows are preserved in that case.
func replaceOperations(db *gorm.DB, workOrderID string, ops []models.Operation) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_order_id = ?", workOrderID).Delete(&models.Operation{}).Error; err != nil {
			return err
		}
		return tx.Create(&ops).Error
	})
	if err != nil {
		return fmt.Errorf("syncer: replace operations for work order %s: %w", workOrderID, err)
	}
	return nil
}
