package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"beadstock/internal/common"
	"beadstock/internal/hierarchy"
	"beadstock/internal/models"
	"beadstock/internal/services"

	"github.com/labstack/echo/v4"
)

// InventoryHandlers serves the aggregated inventory tree and its expansion
// operations.
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

// parseFilters reads the shared filter query parameters. Every endpoint of the
// inventory screen accepts the same set so the tree and the row list stay in
// lockstep.
func parseFilters(c echo.Context) (hierarchy.Filters, error) {
	filters := hierarchy.Filters{
		Search:       c.QueryParam("search"),
		LowStockOnly: c.QueryParam("low_stock_only") == "true",
		SortBy:       hierarchy.SortKey(c.QueryParam("sort_by")),
		SortDesc:     strings.ToLower(c.QueryParam("sort_order")) == "desc",
	}

	if quality := c.QueryParam("quality"); quality != "" {
		grade := models.QualityGrade(quality)
		filters.Quality = &grade
	}

	if types := c.QueryParam("types"); types != "" {
		for _, raw := range strings.Split(types, ",") {
			productType := models.ProductType(strings.TrimSpace(raw))
			if !productType.Valid() {
				return filters, echo.NewHTTPError(http.StatusBadRequest, "unknown product type: "+string(productType))
			}
			filters.ProductTypes = append(filters.ProductTypes, productType)
		}
	}

	if raw := c.QueryParam("spec_min"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "spec_min must be a number")
		}
		filters.SpecMin = &value
	}
	if raw := c.QueryParam("spec_max"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "spec_max must be a number")
		}
		filters.SpecMax = &value
	}

	switch filters.SortBy {
	case hierarchy.SortNone, hierarchy.SortQuantity, hierarchy.SortName, hierarchy.SortType:
	default:
		return filters, echo.NewHTTPError(http.StatusBadRequest, "unknown sort_by value")
	}

	return filters, nil
}

// GetTree returns the full aggregated tree for the current filters
func (h *InventoryHandlers) GetTree(c echo.Context) error {
	ctx := c.Request().Context()

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	tree, err := h.inventoryService.Tree(ctx, filters)
	if err != nil {
		return common.SendServerError(c, "Failed to build inventory tree")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tree":  tree,
		"count": len(tree),
	})
}

// GetRows returns the flattened row projection honoring the operator's
// expansion state
func (h *InventoryHandlers) GetRows(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := common.GetOperatorIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	rows, err := h.inventoryService.Rows(ctx, operatorID, filters)
	if err != nil {
		return common.SendServerError(c, "Failed to build inventory rows")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":  rows,
		"count": len(rows),
	})
}

// Toggle flips one node's expanded state and returns the new row projection
func (h *InventoryHandlers) Toggle(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := common.GetOperatorIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var target services.ToggleTarget
	if err := c.Bind(&target); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	rows, err := h.inventoryService.Toggle(ctx, operatorID, target, filters)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":  rows,
		"count": len(rows),
	})
}

// ExpandAll expands every node visible under the current filters
func (h *InventoryHandlers) ExpandAll(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := common.GetOperatorIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	rows, err := h.inventoryService.ExpandAll(ctx, operatorID, filters)
	if err != nil {
		return common.SendServerError(c, "Failed to expand inventory tree")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":  rows,
		"count": len(rows),
	})
}

// CollapseAll collapses the whole tree for this operator
func (h *InventoryHandlers) CollapseAll(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := common.GetOperatorIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	rows, err := h.inventoryService.CollapseAll(ctx, operatorID, filters)
	if err != nil {
		return common.SendServerError(c, "Failed to collapse inventory tree")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":  rows,
		"count": len(rows),
	})
}
