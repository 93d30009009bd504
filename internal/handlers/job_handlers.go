package handlers

import (
	"net/http"

	"beadstock/internal/caching"
	"beadstock/internal/common"
	"beadstock/internal/jobs"
	"beadstock/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobHandlers exposes background-job status and manual triggers
type JobHandlers struct {
	scheduler   *background.JobScheduler
	lowStockSvc *jobs.LowStockAlertService
	cacheSvc    caching.CacheService
}

func NewJobHandlers(scheduler *background.JobScheduler, lowStockSvc *jobs.LowStockAlertService, cacheSvc caching.CacheService) *JobHandlers {
	return &JobHandlers{
		scheduler:   scheduler,
		lowStockSvc: lowStockSvc,
		cacheSvc:    cacheSvc,
	}
}

// GetJobStatus returns the registered background jobs
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.GetJobStatus())
}

// RunLowStockCheck triggers the low-stock sweep outside its schedule
func (h *JobHandlers) RunLowStockCheck(c echo.Context) error {
	if err := h.lowStockSvc.ScheduledLowStockCheck(c.Request().Context()); err != nil {
		return common.SendServerError(c, "Low stock check failed")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Low stock check completed",
	})
}

// GetLastLowStockReport returns the most recent stored sweep report
func (h *JobHandlers) GetLastLowStockReport(c echo.Context) error {
	report, err := h.cacheSvc.GetString(c.Request().Context(), jobs.LastReportKey)
	if err != nil {
		return common.SendServerError(c, "Failed to load low stock report")
	}
	if report == "" {
		return common.SendNotFoundError(c, "Low stock report")
	}
	return c.JSONBlob(http.StatusOK, []byte(report))
}

// FlushCache drops every cached entry
func (h *JobHandlers) FlushCache(c echo.Context) error {
	if err := h.cacheSvc.InvalidateAllCache(c.Request().Context()); err != nil {
		return common.SendServerError(c, "Failed to flush cache")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Cache flushed",
	})
}
