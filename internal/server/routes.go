package server

import (
	"errors"
	"net/http"

	"github.com/apboats/bbgassetmanagement-sub003/internal/syncer"
	"github.com/apboats/bbgassetmanagement-sub003/internal/upstream"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	router.GET("/healthz", handleHealth(opts.DB))
	router.GET("/api/sync/status", handleSyncStatus(opts))
	router.POST("/api/sync", handleSyncTrigger(opts))
	router.POST("/api/workorders/fetch", handleFetchWorkOrders(opts))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func handleSyncStatus(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := syncer.LoadStatus(opts.DB, opts.Cfg.Sync.JobName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if st == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "sync has never run"})
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// handleSyncTrigger runs one incremental sync inline. Overlap with the
// scheduled run is tolerated: writes are idempotent.
func handleSyncTrigger(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := opts.Engine.Run(c.Request.Context())
		if err != nil {
			c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"windowStart":        summary.WindowStart,
			"workOrdersUpdated":  summary.WorkOrdersUpdated,
			"operationsReplaced": summary.OperationsReplaced,
			"timeWorkedUpdated":  summary.TimeWorkedUpdated,
			"pagesSkipped":       summary.PagesSkipped,
		})
	}
}

func handleFetchWorkOrders(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncer.FetchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rows, err := opts.Engine.FetchWorkOrders(c.Request.Context(), req)
		if err != nil {
			c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"workOrders": rows, "count": len(rows)})
	}
}

// upstreamStatus maps engine errors onto response codes: upstream and
// auth failures are 502, everything else is a 500.
func upstreamStatus(err error) int {
	var upErr *upstream.UpstreamError
	var authErr *upstream.AuthenticationError
	if errors.As(err, &upErr) || errors.As(err, &authErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
