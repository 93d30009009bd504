package handlers

import (
	"net/http"
	"time"

	"beadstock/internal/common"
	"beadstock/internal/models"
	"beadstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BatchHandlers handles purchase-batch HTTP requests
type BatchHandlers struct {
	batchService services.BatchService
	photoService services.PhotoService
}

func NewBatchHandlers(batchService services.BatchService, photoService services.PhotoService) *BatchHandlers {
	return &BatchHandlers{
		batchService: batchService,
		photoService: photoService,
	}
}

// BatchRequest is the create/update payload for a batch.
type BatchRequest struct {
	Name             string   `json:"name" validate:"required"`
	ProductType      string   `json:"product_type" validate:"required"`
	SpecValue        *float64 `json:"spec_value"`
	SpecUnit         *string  `json:"spec_unit"`
	Quality          *string  `json:"quality"`
	PurchaseDate     *string  `json:"purchase_date"` // YYYY-MM-DD
	SupplierName     *string  `json:"supplier_name"`
	OriginalQuantity float64  `json:"original_quantity"`
	UsedQuantity     float64  `json:"used_quantity"`
	UnitPrice        float64  `json:"unit_price"`
	PricePerGram     *float64 `json:"price_per_gram"`
	MinStockAlert    float64  `json:"min_stock_alert"`
}

func (r *BatchRequest) toModel() (*models.Batch, error) {
	batch := &models.Batch{
		Name:             r.Name,
		ProductType:      models.ProductType(r.ProductType),
		SpecValue:        r.SpecValue,
		SpecUnit:         r.SpecUnit,
		Quality:          r.Quality,
		SupplierName:     r.SupplierName,
		OriginalQuantity: r.OriginalQuantity,
		UsedQuantity:     r.UsedQuantity,
		UnitPrice:        r.UnitPrice,
		PricePerGram:     r.PricePerGram,
		MinStockAlert:    r.MinStockAlert,
	}
	if r.PurchaseDate != nil && *r.PurchaseDate != "" {
		date, err := time.Parse("2006-01-02", *r.PurchaseDate)
		if err != nil {
			return nil, err
		}
		batch.PurchaseDate = &date
	}
	return batch, nil
}

// CreateBatch handles recording a new purchase batch
func (h *BatchHandlers) CreateBatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	batch, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, "purchase_date", "must be in YYYY-MM-DD format")
	}

	if err := h.batchService.Create(ctx, batch); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, batch)
}

// GetBatch handles fetching one batch by ID
func (h *BatchHandlers) GetBatch(c echo.Context) error {
	ctx := c.Request().Context()

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid batch ID format")
	}

	batch, err := h.batchService.GetByID(ctx, batchID)
	if err != nil {
		return common.SendNotFoundError(c, "Batch")
	}

	return c.JSON(http.StatusOK, batch)
}

// UpdateBatch handles editing a batch's attributes
func (h *BatchHandlers) UpdateBatch(c echo.Context) error {
	ctx := c.Request().Context()

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid batch ID format")
	}

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	batch, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, "purchase_date", "must be in YYYY-MM-DD format")
	}
	batch.ID = batchID

	if err := h.batchService.Update(ctx, batch); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, batch)
}

// DeleteBatch handles removing a batch entirely
func (h *BatchHandlers) DeleteBatch(c echo.Context) error {
	ctx := c.Request().Context()

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid batch ID format")
	}

	if _, err := h.batchService.GetByID(ctx, batchID); err != nil {
		return common.SendNotFoundError(c, "Batch")
	}

	// Remove stored photos first so no objects orphan in the bucket
	if err := h.photoService.DeleteAllForBatch(ctx, batchID); err != nil {
		return common.SendServerError(c, "Failed to delete batch photos")
	}

	if err := h.batchService.Delete(ctx, batchID); err != nil {
		return common.SendServerError(c, "Failed to delete batch")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Batch deleted successfully",
	})
}

// ListBatchesRequest represents query parameters for listing batches
type ListBatchesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListBatches handles paginated batch listing
func (h *BatchHandlers) ListBatches(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListBatchesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	batches, err := h.batchService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list batches")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"batches": batches,
		"limit":   limit,
		"offset":  offset,
	})
}

// ConsumeRequest is the payload for recording downstream usage.
type ConsumeRequest struct {
	Quantity float64 `json:"quantity" validate:"required"`
}

// ConsumeBatch handles recording usage against a batch
func (h *BatchHandlers) ConsumeBatch(c echo.Context) error {
	ctx := c.Request().Context()

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid batch ID format")
	}

	var req ConsumeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	batch, err := h.batchService.Consume(ctx, batchID, req.Quantity)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, batch)
}

// SearchBatchesRequest represents query parameters for batch search
type SearchBatchesRequest struct {
	Query        string   `query:"q"`
	ProductType  string   `query:"product_type"`
	Quality      string   `query:"quality"`
	MinRemaining *float64 `query:"min_remaining"`
	MaxRemaining *float64 `query:"max_remaining"`
	LowStockOnly bool     `query:"low_stock_only"`
	SortBy       string   `query:"sort_by"`
	SortOrder    string   `query:"sort_order"`
	Limit        int      `query:"limit"`
	Offset       int      `query:"offset"`
}

// SearchBatches handles filtered batch search
func (h *BatchHandlers) SearchBatches(c echo.Context) error {
	ctx := c.Request().Context()

	var req SearchBatchesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	filter := &models.BatchSearchFilter{
		Query:        req.Query,
		MinRemaining: req.MinRemaining,
		MaxRemaining: req.MaxRemaining,
		LowStockOnly: req.LowStockOnly,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}
	if req.ProductType != "" {
		productType := models.ProductType(req.ProductType)
		filter.ProductType = &productType
	}
	if req.Quality != "" {
		filter.Quality = &req.Quality
	}

	batches, err := h.batchService.Search(ctx, filter)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"batches": batches,
		"count":   len(batches),
	})
}
