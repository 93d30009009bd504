package handlers

import (
	"net/http"

	"beadstock/internal/common"
	"beadstock/internal/models"
	"beadstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SupplierHandlers handles supplier-related HTTP requests
type SupplierHandlers struct {
	supplierService services.SupplierService
}

func NewSupplierHandlers(supplierService services.SupplierService) *SupplierHandlers {
	return &SupplierHandlers{supplierService: supplierService}
}

// ListSuppliersRequest represents query parameters for listing suppliers
type ListSuppliersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListSuppliers handles getting a list of suppliers
func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListSuppliersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	suppliers, err := h.supplierService.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list suppliers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"limit":     limit,
		"offset":    offset,
	})
}

// SupplierRequest is the create/update payload for a supplier.
type SupplierRequest struct {
	Name    string  `json:"name" validate:"required"`
	Contact *string `json:"contact"`
	Notes   *string `json:"notes"`
}

// CreateSupplier handles creating a new supplier
func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	supplier := &models.Supplier{
		Name:    req.Name,
		Contact: req.Contact,
		Notes:   req.Notes,
	}

	if err := h.supplierService.Create(ctx, supplier); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, supplier)
}

// GetSupplier handles getting supplier details by ID
func (h *SupplierHandlers) GetSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid supplier ID format")
	}

	supplier, err := h.supplierService.GetByID(ctx, supplierID)
	if err != nil {
		return common.SendNotFoundError(c, "Supplier")
	}

	return c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier handles updating supplier details
func (h *SupplierHandlers) UpdateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid supplier ID format")
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	supplier, err := h.supplierService.GetByID(ctx, supplierID)
	if err != nil {
		return common.SendNotFoundError(c, "Supplier")
	}

	if req.Name != "" {
		supplier.Name = req.Name
	}
	if req.Contact != nil {
		supplier.Contact = req.Contact
	}
	if req.Notes != nil {
		supplier.Notes = req.Notes
	}

	if err := h.supplierService.Update(ctx, supplier); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier handles deleting a supplier
func (h *SupplierHandlers) DeleteSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid supplier ID format")
	}

	if _, err := h.supplierService.GetByID(ctx, supplierID); err != nil {
		return common.SendNotFoundError(c, "Supplier")
	}

	if err := h.supplierService.Delete(ctx, supplierID); err != nil {
		return common.SendServerError(c, "Failed to delete supplier")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Supplier deleted successfully",
	})
}
