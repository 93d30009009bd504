package jobs

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"beadstock/internal/caching"
	"beadstock/internal/hierarchy"
	"beadstock/internal/services"
)

// LastReportKey is where the most recent low-stock report lives in Redis.
const LastReportKey = "beadstock:lowstock:last"

const reportTTL = 24 * time.Hour

// LowStockAlertService periodically scans the inventory tree for quality
// groups at or under their alert thresholds and stores a JSON report.
type LowStockAlertService struct {
	inventorySvc services.InventoryService
	cacheSvc     caching.CacheService
}

// LowStockAlert is one entry in the stored report.
type LowStockAlert struct {
	ProductType       string   `json:"product_type"`
	Specification     string   `json:"specification"`
	Quality           string   `json:"quality"`
	RemainingQuantity float64  `json:"remaining_quantity"`
	QuantityUnit      string   `json:"quantity_unit"`
	BatchNames        []string `json:"batch_names"`
}

// LowStockReport is the JSON document kept under LastReportKey.
type LowStockReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Alerts      []LowStockAlert `json:"alerts"`
}

func NewLowStockAlertService(inventorySvc services.InventoryService, cacheSvc caching.CacheService) *LowStockAlertService {
	return &LowStockAlertService{
		inventorySvc: inventorySvc,
		cacheSvc:     cacheSvc,
	}
}

// CheckLowStock builds the tree filtered to low-stock leaves and flattens the
// surviving quality groups into alerts.
func (a *LowStockAlertService) CheckLowStock(ctx context.Context) ([]LowStockAlert, error) {
	tree, err := a.inventorySvc.Tree(ctx, hierarchy.Filters{LowStockOnly: true})
	if err != nil {
		log.Printf("Failed to build low-stock tree: %v", err)
		return nil, err
	}

	var alerts []LowStockAlert
	for _, typeGroup := range tree {
		for _, specGroup := range typeGroup.Specs {
			for _, qualityGroup := range specGroup.Qualities {
				var names []string
				for _, batch := range qualityGroup.Batches {
					if batch.IsLowStock() {
						names = append(names, batch.Name)
					}
				}
				alerts = append(alerts, LowStockAlert{
					ProductType:       string(typeGroup.ProductType),
					Specification:     specGroup.Spec.Label(),
					Quality:           string(qualityGroup.Quality),
					RemainingQuantity: qualityGroup.RemainingQuantity,
					QuantityUnit:      typeGroup.QuantityUnit,
					BatchNames:        names,
				})
			}
		}
	}
	return alerts, nil
}

func (a *LowStockAlertService) LogLowStockAlerts(alerts []LowStockAlert) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts to log")
		return
	}

	log.Printf("Low stock alerts (%d groups):", len(alerts))
	for _, alert := range alerts {
		log.Printf("- %s / %s / %s down to %.1f %s",
			alert.ProductType,
			alert.Specification,
			alert.Quality,
			alert.RemainingQuantity,
			alert.QuantityUnit)
	}
}

// ScheduledLowStockCheck is the gocron entry point: scan, log, store report.
func (a *LowStockAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	log.Println("Starting scheduled low stock check")

	alerts, err := a.CheckLowStock(ctx)
	if err != nil {
		log.Printf("Scheduled low stock check failed: %v", err)
		return err
	}

	a.LogLowStockAlerts(alerts)

	report := LowStockReport{
		GeneratedAt: time.Now().UTC(),
		Alerts:      alerts,
	}
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if err := a.cacheSvc.SetString(ctx, LastReportKey, string(data), reportTTL); err != nil {
		log.Printf("Failed to store low stock report: %v", err)
		return err
	}

	log.Println("Scheduled low stock check completed successfully")
	return nil
}
