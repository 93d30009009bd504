package handlers

import (
	"net/http"

	"beadstock/internal/common"
	"beadstock/internal/services"
	"beadstock/internal/suggest"

	"github.com/labstack/echo/v4"
)

// PurchaseHandlers serves the purchase-edit suggestion endpoint.
type PurchaseHandlers struct {
	purchaseService services.PurchaseService
}

func NewPurchaseHandlers(purchaseService services.PurchaseService) *PurchaseHandlers {
	return &PurchaseHandlers{purchaseService: purchaseService}
}

// SuggestionsRequest carries the edit buffer and the last persisted snapshot.
type SuggestionsRequest struct {
	Current  suggest.Attributes `json:"current"`
	Original suggest.Attributes `json:"original"`
}

// GetSuggestions runs the consistency rules over a purchase edit. The result
// is advisory; nothing is written.
func (h *PurchaseHandlers) GetSuggestions(c echo.Context) error {
	ctx := c.Request().Context()

	var req SuggestionsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Current.ProductType != "" && !req.Current.ProductType.Valid() {
		return common.SendValidationError(c, "product_type", "unknown product type")
	}

	suggestions, err := h.purchaseService.Suggestions(ctx, req.Current, req.Original)
	if err != nil {
		return common.SendServerError(c, "Failed to compute suggestions")
	}

	return c.JSON(http.StatusOK, suggestions)
}
