package services

import (
	"context"

	"beadstock/internal/suggest"
)

// PurchaseService exposes the attribute consistency engine to the HTTP layer.
type PurchaseService interface {
	Suggestions(ctx context.Context, current, original suggest.Attributes) (suggest.Suggestions, error)
}

type purchaseService struct{}

func NewPurchaseService() PurchaseService {
	return &purchaseService{}
}

func (s *purchaseService) Suggestions(_ context.Context, current, original suggest.Attributes) (suggest.Suggestions, error) {
	// The engine is total over sanitized input, so there is no error path
	// today; the signature leaves room for persistence-backed defaults later.
	return suggest.ComputeSuggestions(current, original), nil
}
