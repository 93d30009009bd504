package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductType categorizes what a purchase batch contains.
type ProductType string

const (
	ProductTypeLooseBeads  ProductType = "LOOSE_BEADS"
	ProductTypeBracelet    ProductType = "BRACELET"
	ProductTypeAccessories ProductType = "ACCESSORIES"
	ProductTypeFinished    ProductType = "FINISHED"
)

// Valid reports whether t is one of the known product types.
func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeLooseBeads, ProductTypeBracelet, ProductTypeAccessories, ProductTypeFinished:
		return true
	}
	return false
}

// QuantityUnit returns the counting unit for batches of this type.
func (t ProductType) QuantityUnit() string {
	switch t {
	case ProductTypeBracelet:
		return "strings"
	case ProductTypeLooseBeads:
		return "beads"
	default:
		return "pieces"
	}
}

// QualityGrade is the discrete grading label for material condition.
type QualityGrade string

const (
	QualityAA      QualityGrade = "AA"
	QualityA       QualityGrade = "A"
	QualityAB      QualityGrade = "AB"
	QualityB       QualityGrade = "B"
	QualityC       QualityGrade = "C"
	QualityUnknown QualityGrade = "unknown"
)

// NormalizeQuality maps a stored quality value to a grade. Missing or
// unparseable values become QualityUnknown rather than an error.
func NormalizeQuality(quality *string) QualityGrade {
	if quality == nil {
		return QualityUnknown
	}
	switch QualityGrade(*quality) {
	case QualityAA, QualityA, QualityAB, QualityB, QualityC:
		return QualityGrade(*quality)
	}
	return QualityUnknown
}

// BatchSearchFilter holds search and filter criteria for batch queries
type BatchSearchFilter struct {
	Query        string       `json:"query,omitempty"`         // Substring search across product name, supplier name
	ProductType  *ProductType `json:"product_type,omitempty"`  // Filter by product type
	Quality      *string      `json:"quality,omitempty"`       // Exact quality grade match
	MinRemaining *float64     `json:"min_remaining,omitempty"` // Minimum remaining quantity
	MaxRemaining *float64     `json:"max_remaining,omitempty"` // Maximum remaining quantity
	LowStockOnly bool         `json:"low_stock_only,omitempty"`
	SortBy       string       `json:"sort_by,omitempty"`    // Sort field: name, purchase_date, unit_price
	SortOrder    string       `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit        int          `json:"limit,omitempty"`      // Page size (default: 50)
	Offset       int          `json:"offset,omitempty"`     // Page offset
}

// Batch is one recorded purchase lot, the atomic unit of inventory.
// Batches are never deleted by consumption; downstream usage only
// increments UsedQuantity.
type Batch struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"`
	ProductType      ProductType `json:"product_type" db:"product_type"`
	SpecValue        *float64    `json:"spec_value" db:"spec_value"` // bead diameter or generic size
	SpecUnit         *string     `json:"spec_unit" db:"spec_unit"`   // "mm" for diameters, free-form otherwise
	Quality          *string     `json:"quality" db:"quality"`
	PurchaseDate     *time.Time  `json:"purchase_date" db:"purchase_date"`
	SupplierName     *string     `json:"supplier_name" db:"supplier_name"`
	OriginalQuantity float64     `json:"original_quantity" db:"original_quantity"`
	UsedQuantity     float64     `json:"used_quantity" db:"used_quantity"`
	UnitPrice        float64     `json:"unit_price" db:"unit_price"`
	PricePerGram     *float64    `json:"price_per_gram" db:"price_per_gram"`
	MinStockAlert    float64     `json:"min_stock_alert" db:"min_stock_alert"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// RemainingQuantity is original minus used, floored at zero.
func (b *Batch) RemainingQuantity() float64 {
	remaining := b.OriginalQuantity - b.UsedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsLowStock reports whether the batch is at or under its alert threshold.
func (b *Batch) IsLowStock() bool {
	return b.RemainingQuantity() <= b.MinStockAlert
}
